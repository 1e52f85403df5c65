package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	UserKeyPrefix         = "users:id:"
	CompanyUsersKeyPrefix = "users:company:"
)

func UserKey(id string) string {
	return UserKeyPrefix + id
}

func CompanyUsersKey(companyID string) string {
	return CompanyUsersKeyPrefix + companyID
}

// cachedUser is what goes to redis; the password hash never does.
type cachedUser struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            user.Role `json:"role"`
	CompanyID       *string   `json:"company_id,omitempty"`
	OAuthProvider   *string   `json:"oauth_provider,omitempty"`
	OAuthProviderID *string   `json:"oauth_provider_id,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func encodeUser(u user.User) (string, error) {
	b, err := json.Marshal(cachedUser{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		CompanyID:       u.CompanyID,
		OAuthProvider:   u.OAuthProvider,
		OAuthProviderID: u.OAuthProviderID,
		IsActive:        u.IsActive,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	})
	return string(b), err
}

func decodeUser(s string) (user.User, error) {
	var c cachedUser
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return user.User{}, err
	}
	return user.User{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Role:            c.Role,
		CompanyID:       c.CompanyID,
		OAuthProvider:   c.OAuthProvider,
		OAuthProviderID: c.OAuthProviderID,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}, nil
}

// userRepository serves GetByID from redis and evicts on every write.
// Users returned by GetByID never carry a password hash; credential checks go through GetByEmail.
type userRepository struct {
	user.UserRepository
	rdb *redis.Client
	ttl time.Duration
	sf  singleflight.Group
}

// NewUserRepository wraps next with a read-through cache. A nil client disables caching.
func NewUserRepository(next user.UserRepository, rdb *redis.Client, ttl time.Duration) user.UserRepository {
	if rdb == nil {
		return next
	}
	return &userRepository{UserRepository: next, rdb: rdb, ttl: ttl}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	key := UserKey(id)

	cached, err := r.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if u, decodeErr := decodeUser(cached); decodeErr == nil {
			return u, nil
		}
	case !errors.Is(err, redis.Nil):
		slog.Warn("user cache read failed", "key", key, "error", err)
	}

	v, err, _ := r.sf.Do(key, func() (interface{}, error) {
		u, err := r.UserRepository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.store(ctx, u)
		return u, nil
	})
	if err != nil {
		return user.User{}, err
	}
	return v.(user.User), nil
}

func (r *userRepository) store(ctx context.Context, u user.User) {
	data, err := encodeUser(u)
	if err != nil {
		slog.Warn("user cache encode failed", "user_id", u.ID, "error", err)
		return
	}
	if err := r.rdb.Set(ctx, UserKey(u.ID), data, r.ttl).Err(); err != nil {
		slog.Warn("user cache write failed", "user_id", u.ID, "error", err)
		return
	}
	if u.HasCompany() {
		companyKey := CompanyUsersKey(*u.CompanyID)
		if err := r.rdb.SAdd(ctx, companyKey, u.ID).Err(); err != nil {
			slog.Warn("user cache index failed", "key", companyKey, "error", err)
			return
		}
		r.rdb.Expire(ctx, companyKey, r.ttl)
	}
}

// evict deletes keys once the write is visible to other connections, so a
// concurrent miss cannot re-cache the row it replaces.
func (r *userRepository) evict(ctx context.Context, keys ...string) {
	database.AfterCommit(ctx, func(ctx context.Context) {
		if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
			slog.Warn("user cache eviction failed", "keys", keys, "error", err)
		}
	})
}

func (r *userRepository) Update(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
	updated, err := r.UserRepository.Update(ctx, req)
	if err != nil {
		return user.User{}, err
	}
	r.evict(ctx, UserKey(req.ID))
	return updated, nil
}

func (r *userRepository) Deactivate(ctx context.Context, id string) error {
	if err := r.UserRepository.Deactivate(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, UserKey(id))
	return nil
}

func (r *userRepository) DeactivateByCompany(ctx context.Context, companyID string) error {
	if err := r.UserRepository.DeactivateByCompany(ctx, companyID); err != nil {
		return err
	}

	companyKey := CompanyUsersKey(companyID)
	database.AfterCommit(ctx, func(ctx context.Context) {
		ids, err := r.rdb.SMembers(ctx, companyKey).Result()
		if err != nil {
			slog.Warn("user cache index read failed", "key", companyKey, "error", err)
			return
		}
		keys := make([]string, 0, len(ids)+1)
		for _, id := range ids {
			keys = append(keys, UserKey(id))
		}
		keys = append(keys, companyKey)
		r.evict(ctx, keys...)
	})
	return nil
}

func (r *userRepository) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	linked, err := r.UserRepository.LinkGoogleAccount(ctx, googleID, email)
	if err != nil {
		return user.User{}, err
	}
	r.evict(ctx, UserKey(linked.ID))
	return linked, nil
}
