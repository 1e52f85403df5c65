package user

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	user.UserRepository
	getByID    func(ctx context.Context, id string) (user.User, error)
	create     func(ctx context.Context, u user.User) (user.User, error)
	update     func(ctx context.Context, req user.UpdateUserRequest) (user.User, error)
	deactivate func(ctx context.Context, id string) error
	list       func(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return f.getByID(ctx, id)
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	return f.create(ctx, u)
}

func (f *fakeUserRepo) Update(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
	return f.update(ctx, req)
}

func (f *fakeUserRepo) Deactivate(ctx context.Context, id string) error {
	return f.deactivate(ctx, id)
}

func (f *fakeUserRepo) List(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	return f.list(ctx, filter)
}

type fakeCompanyRepo struct {
	company.CompanyRepository
	known map[string]bool
}

func (f *fakeCompanyRepo) GetByID(ctx context.Context, id string) (company.Company, error) {
	if !f.known[id] {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return company.Company{ID: id, IsActive: true}, nil
}

const (
	companyA = "0195f3a2-7b1c-7d2e-8f3a-1b2c3d4e5f60"
	companyB = "0195f3a2-7b1c-7d2e-8f3a-1b2c3d4e5f61"
)

func companies() *fakeCompanyRepo {
	return &fakeCompanyRepo{known: map[string]bool{companyA: true}}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password and defaults to staff", func(t *testing.T) {
		var stored user.User
		repo := &fakeUserRepo{create: func(ctx context.Context, u user.User) (user.User, error) {
			stored = u
			u.ID = "user-1"
			return u, nil
		}}
		svc := NewUserService(repo, companies())

		cid := companyA
		resp, err := svc.Create(ctx, user.CreateUserRequest{
			Name:      "Jane",
			Email:     "Jane@Example.com",
			Password:  "secret123",
			CompanyID: &cid,
		})
		require.NoError(t, err)
		assert.Equal(t, "user-1", resp.ID)
		assert.Equal(t, user.RoleStaff, resp.Role)
		assert.Equal(t, "jane@example.com", stored.Email)
		assert.True(t, stored.IsActive)
		assert.True(t, utils.CheckPassword(stored.PasswordHash, "secret123"))
	})

	t.Run("unknown company", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepo{}, companies())
		cid := companyB
		_, err := svc.Create(ctx, user.CreateUserRequest{
			Name: "Jane", Email: "jane@example.com", Password: "secret123", CompanyID: &cid,
		})
		assert.ErrorIs(t, err, company.ErrCompanyNotFound)
	})

	t.Run("admin drops company", func(t *testing.T) {
		var stored user.User
		repo := &fakeUserRepo{create: func(ctx context.Context, u user.User) (user.User, error) {
			stored = u
			return u, nil
		}}
		svc := NewUserService(repo, companies())
		cid := companyB
		_, err := svc.Create(ctx, user.CreateUserRequest{
			Name: "Root", Email: "root@example.com", Password: "secret123", Role: user.RoleAdmin, CompanyID: &cid,
		})
		require.NoError(t, err)
		assert.Nil(t, stored.CompanyID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &fakeUserRepo{create: func(ctx context.Context, u user.User) (user.User, error) {
			return user.User{}, user.ErrUserEmailExists
		}}
		svc := NewUserService(repo, companies())
		cid := companyA
		_, err := svc.Create(ctx, user.CreateUserRequest{
			Name: "Jane", Email: "jane@example.com", Password: "secret123", CompanyID: &cid,
		})
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepo{}, companies())
		_, err := svc.Create(ctx, user.CreateUserRequest{Email: "bad"})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	cid := companyA
	existing := user.User{ID: "user-1", Role: user.RoleStaff, CompanyID: &cid, IsActive: true}

	newRepo := func(captured *user.UpdateUserRequest) *fakeUserRepo {
		return &fakeUserRepo{
			getByID: func(ctx context.Context, id string) (user.User, error) {
				if id != existing.ID {
					return user.User{}, user.ErrUserNotFound
				}
				return existing, nil
			},
			update: func(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
				*captured = req
				return existing, nil
			},
		}
	}

	t.Run("promotion to admin clears company", func(t *testing.T) {
		var captured user.UpdateUserRequest
		svc := NewUserService(newRepo(&captured), companies())
		admin := user.RoleAdmin
		_, err := svc.Update(ctx, user.UpdateUserRequest{ID: "user-1", Role: &admin})
		require.NoError(t, err)
		assert.True(t, captured.ClearCompanyID)
		assert.Nil(t, captured.CompanyID)
	})

	t.Run("password is hashed", func(t *testing.T) {
		var captured user.UpdateUserRequest
		svc := NewUserService(newRepo(&captured), companies())
		pw := "newsecret"
		_, err := svc.Update(ctx, user.UpdateUserRequest{ID: "user-1", Password: &pw})
		require.NoError(t, err)
		require.NotNil(t, captured.PasswordHash)
		assert.True(t, utils.CheckPassword(*captured.PasswordHash, pw))
	})

	t.Run("missing user", func(t *testing.T) {
		var captured user.UpdateUserRequest
		svc := NewUserService(newRepo(&captured), companies())
		name := "X"
		_, err := svc.Update(ctx, user.UpdateUserRequest{ID: "ghost", Name: &name})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("unknown target company", func(t *testing.T) {
		var captured user.UpdateUserRequest
		svc := NewUserService(newRepo(&captured), companies())
		other := companyB
		_, err := svc.Update(ctx, user.UpdateUserRequest{ID: "user-1", CompanyID: &other})
		assert.ErrorIs(t, err, company.ErrCompanyNotFound)
	})
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	var deactivated string
	repo := &fakeUserRepo{deactivate: func(ctx context.Context, id string) error {
		if id == "ghost" {
			return user.ErrUserNotFound
		}
		deactivated = id
		return nil
	}}
	svc := NewUserService(repo, companies())

	assert.ErrorIs(t, svc.Deactivate(ctx, "admin-1", "admin-1"), user.ErrCannotDeactivateSelf)
	assert.ErrorIs(t, svc.Deactivate(ctx, "admin-1", "ghost"), user.ErrUserNotFound)
	require.NoError(t, svc.Deactivate(ctx, "admin-1", "user-2"))
	assert.Equal(t, "user-2", deactivated)
}

func TestList(t *testing.T) {
	repo := &fakeUserRepo{list: func(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
		assert.Equal(t, 2, filter.Page)
		assert.Equal(t, 10, filter.Limit)
		return []user.User{{ID: "a"}, {ID: "b"}}, 25, nil
	}}
	svc := NewUserService(repo, companies())

	resp, err := svc.List(context.Background(), user.UserFilter{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, int64(25), resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)
}
