package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus is the lifecycle state of a queued email.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
)

// EmailTemplateType names the template a job is rendered with.
type EmailTemplateType string

const (
	TemplateBudgetAlert EmailTemplateType = "budget_alert"
)

// DefaultEmailAttempts bounds delivery attempts per job.
const DefaultEmailAttempts = 3

// retryBackoff is indexed by the number of failed attempts minus one.
var retryBackoff = []time.Duration{30 * time.Second, 2 * time.Minute, 10 * time.Minute}

// EmailJob is a notification waiting in the outbound queue.
//
// A worker owns a job between ClaimDue and the next Save: ClaimToken
// identifies that worker and ClaimedAt lets stale claims be released.
type EmailJob struct {
	ID             uuid.UUID
	UserID         string
	TemplateType   EmailTemplateType
	RecipientEmail string
	RecipientName  string
	Subject        string
	TemplateData   map[string]any
	Status         EmailStatus
	Attempts       int
	MaxAttempts    int
	LastError      string
	ProviderID     string
	ClaimToken     string
	ClaimedAt      *time.Time
	CreatedAt      time.Time
	ScheduledAt    time.Time
	ProcessedAt    *time.Time
}

// NewEmailJob queues a budget notification for immediate delivery.
func NewEmailJob(userID string, templateType EmailTemplateType, recipientEmail, recipientName, subject string, data map[string]any, now time.Time) *EmailJob {
	if data == nil {
		data = map[string]any{}
	}
	at := now.UTC()
	return &EmailJob{
		ID:             uuid.New(),
		UserID:         userID,
		TemplateType:   templateType,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		Subject:        subject,
		TemplateData:   data,
		Status:         EmailStatusPending,
		MaxAttempts:    DefaultEmailAttempts,
		CreatedAt:      at,
		ScheduledAt:    at,
	}
}

// Claim hands the job to the worker identified by token.
func (e *EmailJob) Claim(token string, now time.Time) {
	at := now.UTC()
	e.Status = EmailStatusProcessing
	e.ClaimToken = token
	e.ClaimedAt = &at
}

func (e *EmailJob) release() {
	e.ClaimToken = ""
	e.ClaimedAt = nil
}

// MarkSent records a successful hand-off to the provider.
func (e *EmailJob) MarkSent(providerID string, now time.Time) {
	at := now.UTC()
	e.release()
	e.Status = EmailStatusSent
	e.ProviderID = providerID
	e.ProcessedAt = &at
}

// MarkFailed counts a failed attempt. The job goes back to pending with a
// backoff unless the failure is permanent or attempts are exhausted.
func (e *EmailJob) MarkFailed(err error, permanent bool, now time.Time) {
	at := now.UTC()
	e.release()
	e.Attempts++
	e.LastError = err.Error()

	if permanent || !e.CanRetry() {
		e.Status = EmailStatusFailed
		e.ProcessedAt = &at
		return
	}

	step := e.Attempts - 1
	if step >= len(retryBackoff) {
		step = len(retryBackoff) - 1
	}
	e.Status = EmailStatusPending
	e.ScheduledAt = at.Add(retryBackoff[step])
}

// CanRetry reports whether another attempt is allowed.
func (e *EmailJob) CanRetry() bool {
	return e.Attempts < e.MaxAttempts
}

// IsDue reports whether a pending job may be claimed at now.
func (e *EmailJob) IsDue(now time.Time) bool {
	return e.Status == EmailStatusPending && !now.Before(e.ScheduledAt)
}

// IsStale reports whether a claim was taken before cutoff and never settled.
func (e *EmailJob) IsStale(cutoff time.Time) bool {
	return e.Status == EmailStatusProcessing && e.ClaimedAt != nil && e.ClaimedAt.Before(cutoff)
}
