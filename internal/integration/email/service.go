// Package email provides email sending functionality.
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/email/templates"
)

// Service handles email queueing operations.
type Service struct {
	queue adapter.EmailQueueRepository
	clock adapter.Clock
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, clock adapter.Clock) *Service {
	return &Service{
		queue: queue,
		clock: clock,
	}
}

// QueueBudgetAlertEmail queues a budget alert email.
func (s *Service) QueueBudgetAlertEmail(ctx context.Context, input adapter.QueueBudgetAlertInput) error {
	if input.UserEmail == "" {
		return domainerror.NewEmailError(
			domainerror.ErrCodeMissingRecipient,
			"budget alert has no recipient",
			domainerror.ErrMissingRecipient,
		)
	}

	label := periodLabel(input.Period)
	subject := fmt.Sprintf("Budget alert: %s%% of your %s budget used - SpendWise", input.PercentUsed, label)

	alert := templates.BudgetAlert{
		UserName:     input.UserName,
		Period:       input.Period,
		PeriodLabel:  label,
		Spent:        input.Spent,
		Budget:       input.Budget,
		PercentUsed:  input.PercentUsed,
		AlertPercent: input.AlertPercent,
		DashboardURL: input.DashboardURL,
	}

	job := entity.NewEmailJob(
		input.UserID,
		entity.TemplateBudgetAlert,
		input.UserEmail,
		input.UserName,
		subject,
		alert.Fields(),
		s.clock.Now(),
	)

	if err := s.queue.Enqueue(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue budget alert email",
			err,
		)
	}

	return nil
}

// periodLabel turns "2024-03" into "March 2024"; other input is returned as is.
func periodLabel(period string) string {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return period
	}
	return t.Format("January 2006")
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
