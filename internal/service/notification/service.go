package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/email"
)

// Data keys understood by the e-mail renderer.
const (
	DataAmount             = "amount"
	DataRejectionReason    = "rejection_reason"
	DataRepaymentDate      = "repayment_date"
	DataJobID              = "job_id"
	DataJobType            = "job_type"
	DataJobStatus          = "status"
	DataTotalRequests      = "total_requests"
	DataSuccessfulRequests = "successful_requests"
	DataFailedRequests     = "failed_requests"
	DataResultDetails      = "result_details"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount int // default: 2
	QueueSize   int // default: 1000
}

type service struct {
	mailer email.EmailService
	config Config
	logger *slog.Logger

	queue    chan notification.Notification
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService starts the delivery workers.
func NewNotificationService(mailer email.EmailService, cfg Config, logger *slog.Logger) notification.Notifier {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &service{
		mailer: mailer,
		config: cfg,
		logger: logger.With("component", "notification"),
		queue:  make(chan notification.Notification, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.logger.Info("Notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case n := <-s.queue:
			s.deliver(id, n)
		case <-s.stopCh:
			for {
				select {
				case n := <-s.queue:
					s.deliver(id, n)
				default:
					return
				}
			}
		}
	}
}

// Notify queues n for delivery. It never blocks; a full queue drops n.
func (s *service) Notify(ctx context.Context, n notification.Notification) {
	if err := validate(n); err != nil {
		s.logger.Warn("Notification dropped", "type", n.Type, "recipient_id", n.Recipient.ID, "error", err)
		return
	}

	select {
	case <-s.stopCh:
		s.logger.Warn("Notification dropped after stop", "type", n.Type, "recipient_id", n.Recipient.ID)
	case s.queue <- n:
	default:
		s.logger.Error("Notification dropped", "type", n.Type, "recipient_id", n.Recipient.ID, "error", notification.ErrQueueFull)
	}
}

// Stop delivers what is already queued and waits for the workers.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

func validate(n notification.Notification) error {
	valid := false
	for _, t := range notification.AllNotificationTypes() {
		if n.Type == t {
			valid = true
			break
		}
	}
	if !valid {
		return notification.ErrInvalidNotificationType
	}
	if n.Recipient.Email == "" {
		return notification.ErrNoRecipientAddress
	}
	return nil
}

func (s *service) deliver(workerID int, n notification.Notification) {
	var err error
	switch n.Type {
	case notification.TypeAdvanceApproved, notification.TypeAdvanceRejected:
		err = s.mailer.SendAdvanceDecision(n.Recipient.Email, email.AdvanceDecisionData{
			EmployeeName:    n.Recipient.Name,
			Amount:          stringValue(n.Data, DataAmount),
			Approved:        n.Type == notification.TypeAdvanceApproved,
			RejectionReason: stringValue(n.Data, DataRejectionReason),
			RepaymentDate:   stringValue(n.Data, DataRepaymentDate),
		})
	case notification.TypeBatchCompleted, notification.TypeBatchFailed:
		err = s.mailer.SendBatchFinished(n.Recipient.Email, email.BatchFinishedData{
			RecipientName:      n.Recipient.Name,
			JobID:              stringValue(n.Data, DataJobID),
			JobType:            stringValue(n.Data, DataJobType),
			Status:             stringValue(n.Data, DataJobStatus),
			TotalRequests:      intValue(n.Data, DataTotalRequests),
			SuccessfulRequests: intValue(n.Data, DataSuccessfulRequests),
			FailedRequests:     intValue(n.Data, DataFailedRequests),
			ResultDetails:      stringValue(n.Data, DataResultDetails),
		})
	}

	if err != nil {
		s.logger.Error("Failed to deliver notification",
			"worker", workerID,
			"type", n.Type,
			"organization_id", n.OrganizationID,
			"recipient_id", n.Recipient.ID,
			"error", err,
		)
		return
	}
	s.logger.Debug("Notification delivered", "worker", workerID, "type", n.Type, "recipient_id", n.Recipient.ID)
}

func stringValue(data map[string]interface{}, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func intValue(data map[string]interface{}, key string) int {
	v, _ := data[key].(int)
	return v
}
