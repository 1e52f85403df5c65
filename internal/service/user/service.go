package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type UserServiceImpl struct {
	user.UserRepository
	company.CompanyRepository
}

func NewUserService(userRepository user.UserRepository, companyRepository company.CompanyRepository) user.UserService {
	return &UserServiceImpl{
		UserRepository:    userRepository,
		CompanyRepository: companyRepository,
	}
}

func (s *UserServiceImpl) ensureCompany(ctx context.Context, companyID string) error {
	if _, err := s.CompanyRepository.GetByID(ctx, companyID); err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return err
		}
		return fmt.Errorf("failed to get company: %w", err)
	}
	return nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.UserFilter) (user.ListUserResponse, error) {
	if err := filter.Validate(); err != nil {
		return user.ListUserResponse{}, err
	}

	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	resp := user.ListUserResponse{
		Users:      make([]user.UserResponse, 0, len(users)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: validator.TotalPages(total, filter.Limit),
	}
	for i := range users {
		resp.Users = append(resp.Users, users[i].ToResponse())
	}
	return resp, nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if req.Role == user.RoleAdmin {
		req.CompanyID = nil
	}
	if req.CompanyID != nil {
		if err := s.ensureCompany(ctx, *req.CompanyID); err != nil {
			return user.UserResponse{}, err
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		CompanyID:    req.CompanyID,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created.ToResponse(), nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (user.UserResponse, error) {
	found, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return found.ToResponse(), nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	existing, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	role := existing.Role
	if req.Role != nil {
		role = *req.Role
	}

	// Admins never belong to a company.
	if role == user.RoleAdmin {
		req.CompanyID = nil
		req.ClearCompanyID = existing.CompanyID != nil
	} else if req.CompanyID != nil {
		if err := s.ensureCompany(ctx, *req.CompanyID); err != nil {
			return user.UserResponse{}, err
		}
	}
	if role == user.RoleStaff && req.CompanyID == nil && !existing.HasCompany() {
		return user.UserResponse{}, validator.ValidationErrors{{Field: "companyId", Message: "companyId is required for staff"}}
	}

	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		req.PasswordHash = &hash
	}

	updated, err := s.UserRepository.Update(ctx, req)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrUserEmailExists) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}
	return updated.ToResponse(), nil
}

// Deactivate implements user.UserService.
func (s *UserServiceImpl) Deactivate(ctx context.Context, actorID string, id string) error {
	if actorID == id {
		return user.ErrCannotDeactivateSelf
	}
	if err := s.UserRepository.Deactivate(ctx, id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}
