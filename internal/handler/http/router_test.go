package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/batch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/memory"
	advanceservice "github.com/cmlabs-hris/payroll-backend-go/internal/service/advance"
	attendanceservice "github.com/cmlabs-hris/payroll-backend-go/internal/service/attendance"
	batchservice "github.com/cmlabs-hris/payroll-backend-go/internal/service/batch"
	payrollservice "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
	Meta    *response.Meta        `json:"meta"`
}

type testServer struct {
	router   *chi.Mux
	jwt      jwt.Service
	store    *memory.Store
	org      organization.Organization
	otherOrg organization.Organization
	admin    user.User
	staff    user.User
	outsider user.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	org, err := store.SeedOrganization(organization.Organization{Name: gofakeit.Company()})
	require.NoError(t, err)
	otherOrg, err := store.SeedOrganization(organization.Organization{Name: gofakeit.Company()})
	require.NoError(t, err)
	admin, err := store.SeedUser(user.User{OrganizationID: org.ID, Email: gofakeit.Email(), FirstName: gofakeit.FirstName(), Role: user.RoleAdmin})
	require.NoError(t, err)
	staff, err := store.SeedUser(user.User{OrganizationID: org.ID, Email: gofakeit.Email(), FirstName: gofakeit.FirstName(), Role: user.RoleEmployee})
	require.NoError(t, err)
	outsider, err := store.SeedUser(user.User{OrganizationID: otherOrg.ID, Email: gofakeit.Email(), FirstName: gofakeit.FirstName(), Role: user.RoleAdmin})
	require.NoError(t, err)

	employeeRepo := memory.NewEmployeeRepository(store)
	userRepo := memory.NewUserRepository(store)
	attendanceSvc := attendanceservice.NewAttendanceService(memory.NewAttendanceRepository(store), employeeRepo)
	payrollSvc := payrollservice.NewPayrollService(memory.NewPayrollRepository(store), employeeRepo, attendanceSvc)
	advanceSvc := advanceservice.NewAdvanceService(memory.NewAdvanceRepository(store), employeeRepo, userRepo, nil)
	batchSvc := batchservice.NewBatchService(
		memory.NewJobRepository(store),
		memory.NewOrganizationRepository(store),
		userRepo,
		payrollSvc,
		advanceSvc,
		sse.NewHub(),
		nil,
		nil,
		batchservice.Config{MaxItems: 5},
		nil,
	)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = batchSvc.Shutdown(ctx)
	})

	jwtService := jwt.NewJWTService("test-secret", "1h")
	router := NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, jwtService, Handlers{
		Batch:      NewBatchHandler(batchSvc, jwtService),
		Advance:    NewAdvanceHandler(advanceSvc),
		Payroll:    NewPayrollHandler(payrollSvc),
		Attendance: NewAttendanceHandler(attendanceSvc),
	})

	return &testServer{
		router:   router,
		jwt:      jwtService,
		store:    store,
		org:      org,
		otherOrg: otherOrg,
		admin:    admin,
		staff:    staff,
		outsider: outsider,
	}
}

func (s *testServer) token(t *testing.T, u user.User) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(jwt.Claims{UserID: u.ID, OrganizationID: u.OrganizationID, Role: u.Role})
	require.NoError(t, err)
	return token
}

func (s *testServer) employee(t *testing.T, baseSalary int64) employee.Employee {
	t.Helper()
	e, err := s.store.SeedEmployee(employee.Employee{
		OrganizationID: s.org.ID,
		FirstName:      gofakeit.FirstName(),
		LastName:       gofakeit.LastName(),
		Email:          gofakeit.Email(),
		BaseSalary:     decimal.NewFromInt(baseSalary),
	})
	require.NoError(t, err)
	return e
}

func (s *testServer) do(t *testing.T, method, path string, as *user.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(t, *as))
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.True(t, env.Success, "unexpected error response: %+v", env.Error)

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.NotNil(t, env.Error)
	return env.Error.Code
}

func TestRouter_RequiresAccessToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/batch/jobs", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	sseToken, _, err := s.jwt.GenerateSSEToken(jwt.Claims{UserID: s.admin.ID, OrganizationID: s.org.ID, Role: s.admin.Role})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batch/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+sseToken)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ListJobsIsPaginated(t *testing.T) {
	s := newTestServer(t)
	jobs := memory.NewJobRepository(s.store)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		_, err := jobs.Create(context.Background(), batch.Job{
			OrganizationID: s.org.ID,
			RequestedBy:    s.admin.ID,
			Type:           batch.JobTypePayroll,
			Status:         batch.JobStatusCompleted,
			SubmittedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	rec := s.do(t, http.MethodGet, "/api/v1/batch/jobs?page=2&page_size=2", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 2, env.Meta.Limit)
	assert.Equal(t, int64(3), env.Meta.TotalItems)
	assert.Equal(t, 2, env.Meta.TotalPages)

	var page []batch.JobResponse
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page, 1)

	rec = s.do(t, http.MethodGet, "/api/v1/batch/jobs?page=9", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]batch.JobResponse](t, rec))
}

func TestRouter_AdvanceLifecycle(t *testing.T) {
	s := newTestServer(t)
	e := s.employee(t, 5000)
	today := time.Now().UTC().Format("2006-01-02")

	rec := s.do(t, http.MethodPost, "/api/v1/advances", &s.staff, advance.RequestAdvanceRequest{
		EmployeeID:    e.ID,
		Amount:        decimal.NewFromInt(1000),
		Reason:        gofakeit.Sentence(5),
		RequestDate:   today,
		RepaymentDate: today,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[advance.AdvanceResponse](t, rec)
	assert.Equal(t, string(advance.AdvanceStatusPending), created.Status)

	rec = s.do(t, http.MethodPost, "/api/v1/advances/"+created.ID+"/approve", &s.staff, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/advances/"+created.ID+"/approve", &s.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	approved := decode[advance.AdvanceResponse](t, rec)
	assert.Equal(t, string(advance.AdvanceStatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, s.admin.ID, *approved.ApprovedBy)

	rec = s.do(t, http.MethodPost, "/api/v1/advances/"+created.ID+"/reject", &s.admin, advance.RejectAdvanceRequest{Reason: "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/advances/"+created.ID+"/repayments", &s.admin, advance.RecordRepaymentRequest{Amount: decimal.NewFromInt(600)})
	require.Equal(t, http.StatusOK, rec.Code)
	repaid := decode[advance.AdvanceResponse](t, rec)
	assert.True(t, decimal.NewFromInt(400).Equal(repaid.RemainingAmount))
	assert.False(t, repaid.FullyRepaid)

	rec = s.do(t, http.MethodGet, "/api/v1/advances/"+created.ID, &s.outsider, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/advances?status=APPROVED", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]advance.AdvanceResponse](t, rec), 1)
}

func TestRouter_AdvanceValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/advances", &s.staff, advance.RequestAdvanceRequest{Amount: decimal.NewFromInt(-5)})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/advances", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+s.token(t, s.staff))
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_PayrollBatchAndStream(t *testing.T) {
	s := newTestServer(t)
	first := s.employee(t, 4400)
	second := s.employee(t, 3000)

	rec := s.do(t, http.MethodPost, "/api/v1/batch/payroll", &s.admin, batch.SubmitPayrollBatchRequest{
		Payrolls: []payroll.GeneratePayrollRequest{
			{EmployeeID: first.ID, StartDate: "2024-01-01", EndDate: "2024-01-31"},
			{EmployeeID: "missing", StartDate: "2024-01-01", EndDate: "2024-01-31"},
			{EmployeeID: second.ID, StartDate: "2024-01-01", EndDate: "2024-01-31"},
		},
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	submitted := decode[batch.JobResponse](t, rec)
	require.NotEmpty(t, submitted.ID)
	assert.Equal(t, 3, submitted.TotalRequests)

	staffToken := s.token(t, s.staff)
	var job batch.JobResponse
	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/batch/jobs/"+submitted.ID, nil)
		req.Header.Set("Authorization", "Bearer "+staffToken)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			return false
		}
		var env envelope
		if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
			return false
		}
		if err := json.Unmarshal(env.Data, &job); err != nil {
			return false
		}
		return batch.JobStatus(job.Status).IsFinished()
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, string(batch.JobStatusCompleted), job.Status)
	assert.Equal(t, 2, job.SuccessfulRequests)
	assert.Equal(t, 1, job.FailedRequests)
	require.NotNil(t, job.ResultDetails)
	assert.Contains(t, *job.ResultDetails, "#2 missing")

	rec = s.do(t, http.MethodGet, "/api/v1/batch/jobs/"+submitted.ID, &s.outsider, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/batch/sse-token", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sseToken := decode[SSETokenResponse](t, rec)
	assert.Equal(t, 300, sseToken.ExpiresIn)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batch/jobs/"+submitted.ID+"/events?token="+sseToken.Token, nil)
	stream := httptest.NewRecorder()
	s.router.ServeHTTP(stream, req)
	assert.Equal(t, http.StatusOK, stream.Code)
	assert.Equal(t, "text/event-stream", stream.Header().Get("Content-Type"))
	assert.Contains(t, stream.Body.String(), "event: finished")
	assert.Contains(t, stream.Body.String(), submitted.ID)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/batch/jobs/"+submitted.ID+"/events?token="+s.token(t, s.admin), nil)
	stream = httptest.NewRecorder()
	s.router.ServeHTTP(stream, req)
	assert.Equal(t, http.StatusUnauthorized, stream.Code)
}

func TestRouter_BatchSubmissionRules(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/batch/payroll", &s.staff, batch.SubmitPayrollBatchRequest{
		Payrolls: []payroll.GeneratePayrollRequest{{EmployeeID: "x", StartDate: "2024-01-01", EndDate: "2024-01-31"}},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/batch/payroll", &s.admin, batch.SubmitPayrollBatchRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/batch/advances/action", &s.admin, batch.SubmitAdvanceActionRequest{
		Action:     "ESCALATE",
		AdvanceIDs: []string{"a"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_PayrollGenerateStatusAndExport(t *testing.T) {
	s := newTestServer(t)
	e := s.employee(t, 4400)

	rec := s.do(t, http.MethodPost, "/api/v1/payrolls/generate", &s.admin, payroll.GeneratePayrollRequest{
		EmployeeID: e.ID, StartDate: "2024-01-01", EndDate: "2024-01-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	generated := decode[payroll.PayrollResponse](t, rec)
	assert.Equal(t, "4400.00", generated.NetSalary.StringFixed(2))

	rec = s.do(t, http.MethodPut, "/api/v1/payrolls/"+generated.ID+"/status", &s.admin, map[string]string{"status": "PAID"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/payrolls/"+generated.ID+"/status", &s.admin, map[string]string{"status": "DRAFT"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payrolls/export", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Payroll")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRouter_AttendanceCheckInOutAndList(t *testing.T) {
	s := newTestServer(t)
	e := s.employee(t, 3000)

	rec := s.do(t, http.MethodPost, "/api/v1/attendances/check-in", &s.staff, attendance.CheckInRequest{EmployeeID: e.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	checkedIn := decode[attendance.AttendanceResponse](t, rec)
	assert.Nil(t, checkedIn.CheckOut)

	rec = s.do(t, http.MethodPost, "/api/v1/attendances/"+checkedIn.ID+"/check-out", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/attendances/"+checkedIn.ID+"/check-out", &s.staff, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	today := time.Now().UTC().Format("2006-01-02")
	rec = s.do(t, http.MethodGet, "/api/v1/attendances?employee_id="+e.ID+"&start_date="+today+"&end_date="+today, &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]attendance.AttendanceResponse](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/v1/attendances?employee_id="+e.ID, &s.staff, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
