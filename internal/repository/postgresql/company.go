package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `c.id, c.name, c.address, c.contact_person, c.phone, c.email, c.logo, c.is_active,
		c.created_at, c.updated_at`

// Active users per company; joined into reads so list and detail carry staffCount.
const staffCountJoin = `
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS staff_count FROM users u WHERE u.company_id = c.id AND u.is_active = TRUE
		) sc ON TRUE`

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

func scanCompany(row pgx.Row, withStaffCount bool) (company.Company, error) {
	var c company.Company
	dest := []interface{}{
		&c.ID,
		&c.Name,
		&c.Address,
		&c.ContactPerson,
		&c.Phone,
		&c.Email,
		&c.Logo,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
	if withStaffCount {
		dest = append(dest, &c.StaffCount)
	}
	err := row.Scan(dest...)
	return c, err
}

func mapCompanyError(err error) error {
	switch {
	case isNoRows(err):
		return company.ErrCompanyNotFound
	case isUniqueViolation(err, constraintCompaniesEmail):
		return company.ErrCompanyEmailExists
	}
	return err
}

// Create implements company.CompanyRepository.
func (r *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return company.Company{}, fmt.Errorf("failed to generate company id: %w", err)
	}

	query := `
		INSERT INTO companies AS c (id, name, address, contact_person, phone, email, logo, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + companyColumns

	created, err := scanCompany(q.QueryRow(ctx, query,
		id.String(),
		newCompany.Name,
		newCompany.Address,
		newCompany.ContactPerson,
		newCompany.Phone,
		newCompany.Email,
		newCompany.Logo,
		newCompany.IsActive,
	), false)
	if err != nil {
		return company.Company{}, mapCompanyError(err)
	}
	return created, nil
}

// GetByID implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + companyColumns + `, sc.staff_count FROM companies c` + staffCountJoin + ` WHERE c.id = $1`

	found, err := scanCompany(q.QueryRow(ctx, query, id), true)
	if err != nil {
		return company.Company{}, mapCompanyError(err)
	}
	return found, nil
}

// Update implements company.CompanyRepository.
func (r *companyRepositoryImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	updates := []string{}
	args := []interface{}{}
	i := 1

	set := func(col string, val interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	if req.Name != nil {
		set("name", strings.TrimSpace(*req.Name))
	}
	if req.Address != nil {
		set("address", strings.TrimSpace(*req.Address))
	}
	if req.ContactPerson != nil {
		set("contact_person", strings.TrimSpace(*req.ContactPerson))
	}
	if req.Phone != nil {
		set("phone", strings.TrimSpace(*req.Phone))
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.Logo != nil {
		set("logo", *req.Logo)
	}
	if req.IsActive != nil {
		set("is_active", *req.IsActive)
	}

	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}
	updates = append(updates, "updated_at = NOW()")

	sql := fmt.Sprintf("UPDATE companies AS c SET %s WHERE c.id = $%d RETURNING %s",
		strings.Join(updates, ", "), i, companyColumns)
	args = append(args, id)

	updated, err := scanCompany(q.QueryRow(ctx, sql, args...), false)
	if err != nil {
		return company.Company{}, mapCompanyError(err)
	}
	return updated, nil
}

// Deactivate implements company.CompanyRepository.
func (r *companyRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE companies SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate company with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// List implements company.CompanyRepository.
func (r *companyRepositoryImpl) List(ctx context.Context, filter company.CompanyFilter) ([]company.Company, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.IsActive != nil {
		baseWhere += fmt.Sprintf(" AND c.is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (c.name ILIKE $%d OR c.email ILIKE $%d OR c.contact_person ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM companies c WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s, sc.staff_count
		FROM companies c %s
		WHERE %s
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d
	`, companyColumns, staffCountJoin, baseWhere, argIdx, argIdx+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := []company.Company{}
	for rows.Next() {
		c, err := scanCompany(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}
