package http

import (
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	LogLevel       slog.Level
}

type Handlers struct {
	Batch      BatchHandler
	Advance    AdvanceHandler
	Payroll    PayrollHandler
	Attendance AttendanceHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Token in query string, EventSource cannot set headers
		r.Get("/batch/jobs/{id}/events", h.Batch.StreamJob)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/batch", func(r chi.Router) {
				r.Get("/jobs", h.Batch.ListJobs)
				r.Get("/jobs/{id}", h.Batch.GetJob)
				r.Post("/sse-token", h.Batch.GetSSEToken)

				// Manager or admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireApprover)
					r.Post("/payroll", h.Batch.SubmitPayrollBatch)
					r.Post("/advances", h.Batch.SubmitAdvanceBatch)
					r.Post("/advances/action", h.Batch.SubmitAdvanceActionBatch)
				})
			})

			r.Route("/advances", func(r chi.Router) {
				r.Post("/", h.Advance.RequestAdvance)
				r.Get("/", h.Advance.ListAdvances)
				r.Get("/{id}", h.Advance.GetAdvance)

				// Manager or admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireApprover)
					r.Post("/{id}/approve", h.Advance.ApproveAdvance)
					r.Post("/{id}/reject", h.Advance.RejectAdvance)
					r.Post("/{id}/repayments", h.Advance.RecordRepayment)
				})
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.Get("/", h.Payroll.ListPayrolls)
				r.Get("/export", h.Payroll.ExportPayrolls)
				r.Get("/{id}", h.Payroll.GetPayroll)

				// Manager or admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireApprover)
					r.Post("/generate", h.Payroll.GeneratePayroll)
					r.Put("/{id}/status", h.Payroll.UpdatePayrollStatus)
				})
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Get("/", h.Attendance.ListAttendances)
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/{id}/check-out", h.Attendance.CheckOut)
			})
		})
	})

	return r
}
