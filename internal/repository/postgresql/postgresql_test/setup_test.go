package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/migrations"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, migrates, and truncates every table.
// Tests are skipped when the variable is not set.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 10, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	sqlDB := db.SQLDB()
	defer sqlDB.Close()
	require.NoError(t, migrations.Up(ctx, sqlDB))

	_, err = db.Exec(ctx, "TRUNCATE TABLE attendances, users, companies CASCADE")
	require.NoError(t, err)

	return db
}

func createCompany(t *testing.T, db *database.DB, email string) company.Company {
	t.Helper()
	created, err := postgresql.NewCompanyRepository(db).Create(context.Background(), company.Company{
		Name:          "Acme",
		Address:       "Jl. Sudirman 1",
		ContactPerson: "Budi",
		Phone:         "+628123456789",
		Email:         email,
		IsActive:      true,
	})
	require.NoError(t, err)
	return created
}

func createUser(t *testing.T, db *database.DB, email string, role user.Role, companyID *string) user.User {
	t.Helper()
	created, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Role:         role,
		CompanyID:    companyID,
		IsActive:     true,
	})
	require.NoError(t, err)
	return created
}
