package fixtures_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemo(t *testing.T) {
	store := memory.NewStore()

	seeded, err := fixtures.SeedDemo(store)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = memory.NewOrganizationRepository(store).GetByID(ctx, seeded.Organization.ID)
	require.NoError(t, err)

	admin, err := memory.NewUserRepository(store).GetByIDAndOrganization(ctx, seeded.Admin.ID, seeded.Organization.ID)
	require.NoError(t, err)
	assert.True(t, admin.CanApprove())

	employees, err := memory.NewEmployeeRepository(store).ListByOrganization(ctx, seeded.Organization.ID)
	require.NoError(t, err)
	assert.Len(t, employees, len(fixtures.GetDefaultEmployees(seeded.Organization.ID)))
}
