package company

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CompanyServiceImpl struct {
	tx database.Transactor
	company.CompanyRepository
	user.UserRepository
}

func NewCompanyService(tx database.Transactor, companyRepository company.CompanyRepository, userRepository user.UserRepository) company.CompanyService {
	return &CompanyServiceImpl{
		tx:                tx,
		CompanyRepository: companyRepository,
		UserRepository:    userRepository,
	}
}

func (c *CompanyServiceImpl) getCompany(ctx context.Context, id string) (company.Company, error) {
	found, err := c.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return company.Company{}, err
		}
		return company.Company{}, fmt.Errorf("failed to get company by ID: %w", err)
	}
	return found, nil
}

// List implements company.CompanyService.
func (c *CompanyServiceImpl) List(ctx context.Context, filter company.CompanyFilter) (company.ListCompanyResponse, error) {
	if err := filter.Validate(); err != nil {
		return company.ListCompanyResponse{}, err
	}

	companies, total, err := c.CompanyRepository.List(ctx, filter)
	if err != nil {
		return company.ListCompanyResponse{}, fmt.Errorf("failed to list companies: %w", err)
	}

	resp := company.ListCompanyResponse{
		Companies:  make([]company.CompanyResponse, 0, len(companies)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: validator.TotalPages(total, filter.Limit),
	}
	for i := range companies {
		resp.Companies = append(resp.Companies, companies[i].ToResponse())
	}
	return resp, nil
}

// Create implements company.CompanyService.
func (c *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	created, err := c.CompanyRepository.Create(ctx, company.Company{
		Name:          req.Name,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Logo:          req.Logo,
		IsActive:      true,
	})
	if err != nil {
		if errors.Is(err, company.ErrCompanyEmailExists) {
			return company.CompanyResponse{}, err
		}
		return company.CompanyResponse{}, fmt.Errorf("failed to create company: %w", err)
	}

	var none int64
	created.StaffCount = &none
	return created.ToResponse(), nil
}

// GetByID implements company.CompanyService.
func (c *CompanyServiceImpl) GetByID(ctx context.Context, id string) (company.CompanyResponse, error) {
	found, err := c.getCompany(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return found.ToResponse(), nil
}

// Update implements company.CompanyService.
func (c *CompanyServiceImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	updated, err := c.CompanyRepository.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) || errors.Is(err, company.ErrCompanyEmailExists) {
			return company.CompanyResponse{}, err
		}
		return company.CompanyResponse{}, fmt.Errorf("failed to update company: %w", err)
	}
	return updated.ToResponse(), nil
}

// Deactivate implements company.CompanyService. The company and all of its
// accounts are deactivated together.
func (c *CompanyServiceImpl) Deactivate(ctx context.Context, id string) error {
	return c.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := c.CompanyRepository.Deactivate(txCtx, id); err != nil {
			if errors.Is(err, company.ErrCompanyNotFound) {
				return err
			}
			return fmt.Errorf("failed to deactivate company: %w", err)
		}
		if err := c.UserRepository.DeactivateByCompany(txCtx, id); err != nil {
			return fmt.Errorf("failed to deactivate company users: %w", err)
		}
		return nil
	})
}

// ResolveScope implements company.CompanyService.
func (c *CompanyServiceImpl) ResolveScope(ctx context.Context, requestedCompanyID string) (string, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return "", err
	}

	switch claims.Role {
	case user.RoleAdmin:
		if requestedCompanyID == "" {
			return "", company.ErrCompanyIDRequired
		}
		if !validator.IsValidUUID(requestedCompanyID) {
			return "", validator.ValidationErrors{{Field: "companyId", Message: "companyId must be a valid UUID"}}
		}
		if _, err := c.getCompany(ctx, requestedCompanyID); err != nil {
			return "", err
		}
		return requestedCompanyID, nil

	case user.RoleCompany:
		account, err := c.UserRepository.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return "", err
			}
			return "", fmt.Errorf("failed to get user: %w", err)
		}
		if !account.HasCompany() {
			return "", company.ErrNoCompanyAssociated
		}
		own, err := c.getCompany(ctx, *account.CompanyID)
		if err != nil {
			return "", err
		}
		if !own.IsActive {
			return "", company.ErrCompanyNotFound
		}
		return own.ID, nil
	}

	return "", auth.ErrForbidden
}

// ListStaff implements company.CompanyService.
func (c *CompanyServiceImpl) ListStaff(ctx context.Context, companyID string, filter company.StaffFilter) (company.ListStaffResponse, error) {
	if err := filter.Validate(); err != nil {
		return company.ListStaffResponse{}, err
	}

	role := user.RoleStaff
	staff, total, err := c.UserRepository.List(ctx, user.UserFilter{
		Role:      &role,
		CompanyID: &companyID,
		IsActive:  filter.IsActive,
		Search:    filter.Search,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
	if err != nil {
		return company.ListStaffResponse{}, fmt.Errorf("failed to list staff: %w", err)
	}

	resp := company.ListStaffResponse{
		Staff:      make([]user.UserResponse, 0, len(staff)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: validator.TotalPages(total, filter.Limit),
	}
	for i := range staff {
		resp.Staff = append(resp.Staff, staff[i].ToResponse())
	}
	return resp, nil
}

// AddStaff implements company.CompanyService.
func (c *CompanyServiceImpl) AddStaff(ctx context.Context, companyID string, req company.AddStaffRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := c.UserRepository.Create(ctx, user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.RoleStaff,
		CompanyID:    &companyID,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to add staff: %w", err)
	}
	return created.ToResponse(), nil
}

// staffOf loads a staff account and checks it belongs to companyID.
func (c *CompanyServiceImpl) staffOf(ctx context.Context, companyID string, staffID string) (user.User, error) {
	if !validator.IsValidUUID(staffID) {
		return user.User{}, company.ErrStaffNotFound
	}
	member, err := c.UserRepository.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, company.ErrStaffNotFound
		}
		return user.User{}, fmt.Errorf("failed to get staff: %w", err)
	}
	if member.Role != user.RoleStaff {
		return user.User{}, company.ErrStaffNotFound
	}
	if !member.HasCompany() || *member.CompanyID != companyID {
		return user.User{}, company.ErrStaffOtherCompany
	}
	return member, nil
}

// UpdateStaff implements company.CompanyService.
func (c *CompanyServiceImpl) UpdateStaff(ctx context.Context, companyID string, req company.UpdateStaffRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if _, err := c.staffOf(ctx, companyID, req.ID); err != nil {
		return user.UserResponse{}, err
	}

	updated, err := c.UserRepository.Update(ctx, user.UpdateUserRequest{
		ID:       req.ID,
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to update staff: %w", err)
	}
	return updated.ToResponse(), nil
}

// DeactivateStaff implements company.CompanyService.
func (c *CompanyServiceImpl) DeactivateStaff(ctx context.Context, companyID string, staffID string) error {
	if claims, err := auth.ClaimsFromContext(ctx); err == nil && claims.UserID == staffID {
		return user.ErrCannotDeactivateSelf
	}
	if _, err := c.staffOf(ctx, companyID, staffID); err != nil {
		return err
	}
	if err := c.UserRepository.Deactivate(ctx, staffID); err != nil {
		return fmt.Errorf("failed to deactivate staff: %w", err)
	}
	return nil
}
