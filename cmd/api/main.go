package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/batch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/callback"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	advanceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/advance"
	attendanceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/attendance"
	batchService "github.com/cmlabs-hris/payroll-backend-go/internal/service/batch"
	notificationService "github.com/cmlabs-hris/payroll-backend-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
)

type repositories struct {
	organization organization.OrganizationRepository
	user         user.UserRepository
	employee     employee.EmployeeRepository
	attendance   attendance.AttendanceRepository
	payroll      payroll.PayrollRepository
	advance      advance.AdvanceRepository
	job          batch.JobRepository
	close        func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	repos, err := openRepositories(ctx, cfg, JWTService, logger)
	if err != nil {
		return err
	}
	defer repos.close()

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}
	notifier := notificationService.NewNotificationService(emailService, notificationService.Config{}, logger)

	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.employee)
	payrollSvc := payrollService.NewPayrollService(repos.payroll, repos.employee, attendanceSvc)
	advanceSvc := advanceService.NewAdvanceService(repos.advance, repos.employee, repos.user, notifier)
	batchSvc := batchService.NewBatchService(
		repos.job,
		repos.organization,
		repos.user,
		payrollSvc,
		advanceSvc,
		sse.NewHub(),
		callback.NewClient(cfg.Batch.CallbackTimeout),
		notifier,
		batchService.Config{
			MaxItems:   cfg.Batch.MaxItems,
			StaleAfter: cfg.Batch.StaleAfter,
		},
		logger,
	)

	scheduler := cron.NewScheduler(logger)
	cron.RegisterBatchJobs(scheduler, batchSvc, cfg.Batch.ReaperInterval)
	scheduler.Start()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
	}, JWTService, appHTTP.Handlers{
		Batch:      appHTTP.NewBatchHandler(batchSvc, JWTService),
		Advance:    appHTTP.NewAdvanceHandler(advanceSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr, "storage", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	scheduler.Stop()
	if err := batchSvc.Shutdown(shutdownCtx); err != nil {
		logger.Error("Batch workers did not finish before shutdown deadline", "error", err)
	}
	notifier.Stop()

	logger.Info("Server stopped")
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config, JWTService jwt.Service, logger *slog.Logger) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.StorageDriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		db, err := database.NewPostgreSQLDB(connectCtx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("error connecting to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := db.EnsureSchema(connectCtx); err != nil {
				db.Close()
				return nil, err
			}
			logger.Info("Database schema ensured")
		}

		return &repositories{
			organization: postgresql.NewOrganizationRepository(db),
			user:         postgresql.NewUserRepository(db),
			employee:     postgresql.NewEmployeeRepository(db),
			attendance:   postgresql.NewAttendanceRepository(db),
			payroll:      postgresql.NewPayrollRepository(db),
			advance:      postgresql.NewAdvanceRepository(db),
			job:          postgresql.NewJobRepository(db),
			close:        db.Close,
		}, nil

	case config.StorageDriverMemory:
		store := memory.NewStore()
		seeded, err := fixtures.SeedDemo(store)
		if err != nil {
			return nil, err
		}
		logDemoAccess(logger, cfg, JWTService, seeded)

		return &repositories{
			organization: memory.NewOrganizationRepository(store),
			user:         memory.NewUserRepository(store),
			employee:     memory.NewEmployeeRepository(store),
			attendance:   memory.NewAttendanceRepository(store),
			payroll:      memory.NewPayrollRepository(store),
			advance:      memory.NewAdvanceRepository(store),
			job:          memory.NewJobRepository(store),
			close:        func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Database.Driver)
	}
}

// logDemoAccess prints a token for the seeded admin outside production so the
// in-memory server can be exercised right away.
func logDemoAccess(logger *slog.Logger, cfg *config.Config, JWTService jwt.Service, seeded *fixtures.SeededDemo) {
	attrs := []any{"organization_id", seeded.Organization.ID, "admin_id", seeded.Admin.ID}
	if cfg.App.Env != "production" {
		token, _, err := JWTService.GenerateAccessToken(jwt.Claims{
			UserID:         seeded.Admin.ID,
			OrganizationID: seeded.Organization.ID,
			Role:           seeded.Admin.Role,
		})
		if err != nil {
			logger.Warn("Failed to mint demo token", "error", err)
		} else {
			attrs = append(attrs, "admin_token", token)
		}
	}
	logger.Info("Seeded in-memory demo data", attrs...)
}
