package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spendwise/backend/internal/application/adapter"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// RecordingSender keeps emails in memory instead of delivering them. It
// stands in for Resend in tests and in local runs without an API key.
type RecordingSender struct {
	mu      sync.Mutex
	sent    []adapter.SendEmailInput
	failure *domainerror.EmailError
	log     bool
}

// NewRecordingSender returns a sender that accepts every email.
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

// NewLoggingSender returns a RecordingSender that also logs each email.
func NewLoggingSender() *RecordingSender {
	return &RecordingSender{log: true}
}

// Send records input, or fails as configured with FailWith.
func (s *RecordingSender) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return nil, s.failure
	}
	s.sent = append(s.sent, input)

	if s.log {
		slog.InfoContext(ctx, "Email delivery skipped, no provider configured",
			"to", input.To,
			"subject", input.Subject,
		)
	}
	return &adapter.SendEmailResult{ProviderID: fmt.Sprintf("mock-%d", len(s.sent))}, nil
}

// SentEmails returns a copy of the emails accepted so far.
func (s *RecordingSender) SentEmails() []adapter.SendEmailInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]adapter.SendEmailInput(nil), s.sent...)
}

// FailWith makes every later Send fail with cause, coded permanent or temporary.
func (s *RecordingSender) FailWith(cause error, permanent bool) {
	code := domainerror.ErrCodeTemporaryEmailFailure
	if permanent {
		code = domainerror.ErrCodePermanentEmailFailure
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = domainerror.NewEmailError(code, "recorded failure", cause)
}

// Reset forgets sent emails and any configured failure.
func (s *RecordingSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
	s.failure = nil
}

var _ adapter.EmailSender = (*RecordingSender)(nil)
