package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	testDB     *database.DB
	testDBErr  error
	testDBOnce sync.Once
)

// setupTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests are skipped when the variable is unset.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL repository tests")
	}

	testDBOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		testDB, testDBErr = database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 10})
		if testDBErr != nil {
			return
		}
		testDBErr = testDB.EnsureSchema(ctx)
	})
	require.NoError(t, testDBErr)

	require.NoError(t, truncateAllTables(context.Background(), testDB))
	return testDB
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"batch_jobs",
		"advances",
		"payrolls",
		"attendances",
		"employees",
		"users",
		"organizations",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func createTestOrganization(t *testing.T, db *database.DB) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(context.Background(),
		`INSERT INTO organizations (id, name) VALUES ($1, $2)`,
		id, gofakeit.Company(),
	)
	require.NoError(t, err)
	return id
}

func createTestUser(t *testing.T, db *database.DB, organizationID string, role string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(context.Background(),
		`INSERT INTO users (id, organization_id, email, first_name, last_name, role) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, organizationID, gofakeit.Email(), gofakeit.FirstName(), gofakeit.LastName(), role,
	)
	require.NoError(t, err)
	return id
}

func createTestEmployee(t *testing.T, db *database.DB, organizationID string, firstName, lastName string, baseSalary decimal.Decimal) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(context.Background(),
		`INSERT INTO employees (id, organization_id, first_name, last_name, email, base_salary) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, organizationID, firstName, lastName, gofakeit.Email(), baseSalary,
	)
	require.NoError(t, err)
	return id
}
