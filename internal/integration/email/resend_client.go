package email

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/spendwise/backend/internal/application/adapter"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// ResendClient delivers budget alerts through the Resend API.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewResendClient creates a client sending as "fromName <fromEmail>".
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	return &ResendClient{
		client: resend.NewClient(apiKey),
		from:   fmt.Sprintf("%s <%s>", fromName, fromEmail),
	}
}

// SetBaseURL points the client at another Resend-compatible API, such as a local stub.
func (c *ResendClient) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid email API base URL %q: %w", raw, err)
	}
	c.client.BaseURL = u
	return nil
}

// Send posts one email. Failures come back as EmailErrors coded permanent
// or temporary so the worker knows whether to retry.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	resp, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
		Tags:    resendTags(input.Tags),
	})
	if err != nil {
		code := classifyResendError(err)
		return nil, domainerror.NewEmailError(code, "resend rejected the email", err)
	}
	return &adapter.SendEmailResult{ProviderID: resp.Id}, nil
}

// resendTags sorts tags by name so requests are stable.
func resendTags(tags map[string]string) []resend.Tag {
	if len(tags) == 0 {
		return nil
	}
	out := make([]resend.Tag, 0, len(tags))
	for name, value := range tags {
		out = append(out, resend.Tag{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resend reports the HTTP status only inside the error text. Auth and
// validation problems will fail the same way on every retry; rate limits
// and server errors may not.
var permanentResendMarkers = []string{
	"400", "401", "403", "422",
	"bad request", "unauthorized", "forbidden", "validation", "invalid",
}

func classifyResendError(err error) domainerror.EmailErrorCode {
	msg := strings.ToLower(err.Error())
	for _, marker := range permanentResendMarkers {
		if strings.Contains(msg, marker) {
			return domainerror.ErrCodePermanentEmailFailure
		}
	}
	return domainerror.ErrCodeTemporaryEmailFailure
}

var _ adapter.EmailSender = (*ResendClient)(nil)
