package company

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// CompanyService covers admin company management and the company-scoped staff endpoints.
type CompanyService interface {
	List(ctx context.Context, filter CompanyFilter) (ListCompanyResponse, error)
	Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	GetByID(ctx context.Context, id string) (CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error)
	Deactivate(ctx context.Context, id string) error

	// ResolveScope returns the company the caller acts on: their own active
	// company for company accounts, the requested one for admins.
	ResolveScope(ctx context.Context, requestedCompanyID string) (string, error)

	ListStaff(ctx context.Context, companyID string, filter StaffFilter) (ListStaffResponse, error)
	AddStaff(ctx context.Context, companyID string, req AddStaffRequest) (user.UserResponse, error)
	UpdateStaff(ctx context.Context, companyID string, req UpdateStaffRequest) (user.UserResponse, error)
	DeactivateStaff(ctx context.Context, companyID string, staffID string) error
}
