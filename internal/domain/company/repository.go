package company

import "context"

// CompanyRepository returns ErrCompanyNotFound for missing rows and ErrCompanyEmailExists on duplicate emails.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	Create(ctx context.Context, newCompany Company) (Company, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (Company, error)
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, filter CompanyFilter) ([]Company, int64, error)
}
