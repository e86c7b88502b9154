package adapter

import "context"

// SendEmailInput is one rendered message for one recipient.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
	// Tags label the message at the provider, e.g. template and job id.
	Tags map[string]string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ProviderID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService defines the interface for queueing notification emails.
type EmailService interface {
	QueueBudgetAlertEmail(ctx context.Context, input QueueBudgetAlertInput) error
}

// QueueBudgetAlertInput represents the input for queueing a budget alert email.
type QueueBudgetAlertInput struct {
	UserID       string
	UserEmail    string
	UserName     string
	Period       string // YYYY-MM
	Spent        string // formatted amounts
	Budget       string
	PercentUsed  string
	AlertPercent int
	DashboardURL string
}
