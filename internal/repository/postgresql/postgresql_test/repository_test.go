package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/batch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository_TenantScoped(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	orgA := createTestOrganization(t, db)
	orgB := createTestOrganization(t, db)
	empID := createTestEmployee(t, db, orgA, "Dewi", "Lestari", decimal.NewFromInt(4400))

	e, err := repo.GetByIDAndOrganization(ctx, empID, orgA)
	require.NoError(t, err)
	assert.Equal(t, "Dewi Lestari", e.FullName())
	assert.True(t, decimal.NewFromInt(4400).Equal(e.BaseSalary))

	_, err = repo.GetByIDAndOrganization(ctx, empID, orgB)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	list, err := repo.ListByOrganization(ctx, orgB)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserRepository_GetByIDAndOrganization(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	org := createTestOrganization(t, db)
	userID := createTestUser(t, db, org, string(user.RoleManager))

	u, err := repo.GetByIDAndOrganization(ctx, userID, org)
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, u.Role)
	assert.True(t, u.CanApprove())

	_, err = repo.GetByIDAndOrganization(ctx, userID, createTestOrganization(t, db))
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAttendanceRepository_WindowIsInclusive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)

	org := createTestOrganization(t, db)
	empID := createTestEmployee(t, db, org, "Budi", "", decimal.NewFromInt(3000))

	window := attendance.PeriodWindow(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	checkIns := []time.Time{
		window.Start,
		window.End,
		window.Start.Add(-time.Second),
		window.End.Add(time.Second),
	}
	for _, in := range checkIns {
		out := in.Add(8 * time.Hour)
		_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: empID, OrganizationID: org, CheckIn: in, CheckOut: &out})
		require.NoError(t, err)
	}

	records, err := repo.ListByEmployeeCheckInBetween(ctx, empID, org, window)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].CheckIn.Equal(window.Start))
	assert.True(t, records[1].CheckIn.Equal(window.End))
}

func TestAttendanceRepository_SetCheckOut(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)

	org := createTestOrganization(t, db)
	empID := createTestEmployee(t, db, org, "Sari", "Wulan", decimal.NewFromInt(3000))

	in := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, attendance.Attendance{EmployeeID: empID, OrganizationID: org, CheckIn: in})
	require.NoError(t, err)
	assert.Nil(t, created.CheckOut)

	closed, err := repo.SetCheckOut(ctx, created.ID, org, in.Add(9*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(540), closed.WorkedMinutes())

	_, err = repo.SetCheckOut(ctx, created.ID, org, in.Add(10*time.Hour))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	_, err = repo.SetCheckOut(ctx, created.ID, createTestOrganization(t, db), in.Add(10*time.Hour))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestPayrollRepository_CreateListAndStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(db)

	org := createTestOrganization(t, db)
	empID := createTestEmployee(t, db, org, "Rina", "Putri", decimal.NewFromInt(4400))

	created, err := repo.Create(ctx, payroll.Payroll{
		EmployeeID:         empID,
		OrganizationID:     org,
		PayPeriodStart:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PayPeriodEnd:       time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		BasicSalary:        decimal.NewFromInt(4400),
		Overtime:           decimal.NewFromInt(750),
		NetSalary:          decimal.NewFromInt(5150),
		TotalWorkedMinutes: 11760,
		OvertimeMinutes:    1200,
		Status:             payroll.PayrollStatusDraft,
		ProcessedAt:        time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NotNil(t, created.EmployeeName)
	assert.Equal(t, "Rina Putri", *created.EmployeeName)
	assert.Equal(t, "5150.00", created.NetSalary.StringFixed(2))

	status := payroll.PayrollStatusDraft
	list, err := repo.ListByOrganization(ctx, org, payroll.PayrollFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	paid, err := repo.UpdateStatus(ctx, created.ID, org, payroll.PayrollStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusPaid, paid.Status)

	_, err = repo.UpdateStatus(ctx, created.ID, org, payroll.PayrollStatusDraft)
	assert.ErrorIs(t, err, payroll.ErrPayrollStatusFinal)
}

func TestAdvanceRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAdvanceRepository(db)

	org := createTestOrganization(t, db)
	approverID := createTestUser(t, db, org, string(user.RoleAdmin))
	empID := createTestEmployee(t, db, org, "Agus", "Salim", decimal.NewFromInt(5000))

	created, err := repo.Create(ctx, advance.Advance{
		EmployeeID:     empID,
		OrganizationID: org,
		Amount:         decimal.NewFromInt(1000),
		Reason:         "medical",
		Status:         advance.AdvanceStatusPending,
		RequestDate:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		RepaymentDate:  time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		RepaidAmount:   decimal.Zero,
	})
	require.NoError(t, err)

	_, err = repo.AddRepayment(ctx, created.ID, org, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, advance.ErrAdvanceNotApproved)

	now := time.Now().UTC()
	approved, err := repo.Transition(ctx, created.ID, org, advance.StatusChange{
		To: advance.AdvanceStatusApproved, ApprovedBy: &approverID, ApprovalDate: &now,
	})
	require.NoError(t, err)
	assert.Equal(t, advance.AdvanceStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, approverID, *approved.ApprovedBy)

	_, err = repo.Transition(ctx, created.ID, org, advance.StatusChange{To: advance.AdvanceStatusRejected})
	assert.ErrorIs(t, err, advance.ErrAdvanceNotPending)

	a, err := repo.AddRepayment(ctx, created.ID, org, decimal.NewFromInt(600))
	require.NoError(t, err)
	assert.False(t, a.FullyRepaid)
	a, err = repo.AddRepayment(ctx, created.ID, org, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.True(t, a.FullyRepaid)
	assert.Equal(t, "1100.00", a.RepaidAmount.StringFixed(2))
	assert.Equal(t, "-100.00", a.RemainingAmount().StringFixed(2))
}

func TestAdvanceRepository_ConcurrentTransitionHasOneWinner(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAdvanceRepository(db)

	org := createTestOrganization(t, db)
	approverID := createTestUser(t, db, org, string(user.RoleAdmin))
	empID := createTestEmployee(t, db, org, "Tono", "", decimal.NewFromInt(5000))

	created, err := repo.Create(ctx, advance.Advance{
		EmployeeID:     empID,
		OrganizationID: org,
		Amount:         decimal.NewFromInt(250),
		Reason:         "rent",
		Status:         advance.AdvanceStatusPending,
		RequestDate:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		RepaymentDate:  time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	const attempts = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			now := time.Now().UTC()
			_, err := repo.Transition(ctx, created.ID, org, advance.StatusChange{
				To: advance.AdvanceStatusApproved, ApprovedBy: &approverID, ApprovalDate: &now,
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestJobRepository_SaveAndListUnfinished(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewJobRepository(db)

	org := createTestOrganization(t, db)
	requester := createTestUser(t, db, org, string(user.RoleAdmin))
	submitted := time.Now().UTC().Add(-2 * time.Hour)

	job, err := repo.Create(ctx, batch.Job{
		OrganizationID: org,
		RequestedBy:    requester,
		Type:           batch.JobTypePayroll,
		Status:         batch.JobStatusSubmitted,
		SubmittedAt:    submitted,
		TotalRequests:  3,
	})
	require.NoError(t, err)

	stale, err := repo.ListUnfinished(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)

	job.Start(time.Now().UTC())
	job.RecordSuccess()
	job.RecordFailure()
	job.RecordSuccess()
	job.Complete(time.Now().UTC(), "#2 emp: employee not found")
	require.NoError(t, repo.Save(ctx, job))

	got, err := repo.GetByIDAndOrganization(ctx, job.ID, org)
	require.NoError(t, err)
	assert.Equal(t, batch.JobStatusCompleted, got.Status)
	assert.Equal(t, 3, got.ProcessedRequests)
	assert.Equal(t, 2, got.SuccessfulRequests)
	assert.Equal(t, 1, got.FailedRequests)
	require.NotNil(t, got.ResultDetails)

	stale, err = repo.ListUnfinished(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stale)

	_, err = repo.GetByIDAndOrganization(ctx, job.ID, createTestOrganization(t, db))
	assert.ErrorIs(t, err, batch.ErrJobNotFound)

	job.OrganizationID = createTestOrganization(t, db)
	assert.ErrorIs(t, repo.Save(ctx, job), batch.ErrJobNotFound)
}

func TestJobRepository_FailIfUnfinished(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewJobRepository(db)

	org := createTestOrganization(t, db)
	requester := createTestUser(t, db, org, string(user.RoleAdmin))

	job, err := repo.Create(ctx, batch.Job{
		OrganizationID: org,
		RequestedBy:    requester,
		Type:           batch.JobTypePayroll,
		Status:         batch.JobStatusProcessing,
		SubmittedAt:    time.Now().UTC(),
		TotalRequests:  1,
	})
	require.NoError(t, err)
	snapshot := job

	job.RecordSuccess()
	job.Complete(time.Now().UTC(), "")
	require.NoError(t, repo.Save(ctx, job))

	snapshot.Fail(time.Now().UTC(), "interrupted")
	failed, err := repo.FailIfUnfinished(ctx, snapshot)
	require.NoError(t, err)
	assert.False(t, failed)

	got, err := repo.GetByIDAndOrganization(ctx, job.ID, org)
	require.NoError(t, err)
	assert.Equal(t, batch.JobStatusCompleted, got.Status)
	assert.Equal(t, 1, got.ProcessedRequests)

	pending, err := repo.Create(ctx, batch.Job{
		OrganizationID: org,
		RequestedBy:    requester,
		Type:           batch.JobTypeAdvance,
		Status:         batch.JobStatusSubmitted,
		SubmittedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	pending.Fail(time.Now().UTC(), "interrupted")
	failed, err = repo.FailIfUnfinished(ctx, pending)
	require.NoError(t, err)
	assert.True(t, failed)

	got, err = repo.GetByIDAndOrganization(ctx, pending.ID, org)
	require.NoError(t, err)
	assert.Equal(t, batch.JobStatusFailed, got.Status)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	org := createTestOrganization(t, db)
	repo := postgresql.NewEmployeeRepository(db)

	sentinel := assert.AnError
	err := postgresql.WithTransaction(ctx, db, func(ctx context.Context) error {
		_, err := postgresql.GetQuerier(ctx, db).Exec(ctx,
			`INSERT INTO employees (id, organization_id, first_name) VALUES (gen_random_uuid(), $1, 'Ghost')`, org)
		require.NoError(t, err)
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	list, err := repo.ListByOrganization(ctx, org)
	require.NoError(t, err)
	assert.Empty(t, list)
}
