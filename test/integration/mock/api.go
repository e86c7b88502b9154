package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// EmailAPI is a stand-in for the Resend HTTP API. It records every email
// posted to /emails and answers with a generated id.
type EmailAPI struct {
	mu             sync.Mutex
	server         *httptest.Server
	emails         []map[string]any
	responseStatus int
}

func NewEmailAPI() *EmailAPI {
	api := &EmailAPI{responseStatus: http.StatusOK}
	api.server = httptest.NewServer(http.HandlerFunc(api.handle))
	return api
}

func (a *EmailAPI) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/emails" {
		http.NotFound(w, r)
		return
	}

	body, _ := io.ReadAll(r.Body)
	var request map[string]any
	_ = json.Unmarshal(body, &request)

	a.mu.Lock()
	status := a.responseStatus
	if status == http.StatusOK {
		a.emails = append(a.emails, request)
	}
	id := fmt.Sprintf("email-%d", len(a.emails))
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status != http.StatusOK {
		_ = json.NewEncoder(w).Encode(map[string]any{"statusCode": status, "name": "application_error", "message": "stubbed failure"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// URL is the base URL to configure as EMAIL_API_BASE_URL.
func (a *EmailAPI) URL() string {
	return a.server.URL
}

// SetResponseStatus makes subsequent sends answer with status.
func (a *EmailAPI) SetResponseStatus(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responseStatus = status
}

// Emails returns the request bodies of every accepted send.
func (a *EmailAPI) Emails() []map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]map[string]any, len(a.emails))
	copy(out, a.emails)
	return out
}

func (a *EmailAPI) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.emails = nil
	a.responseStatus = http.StatusOK
}

func (a *EmailAPI) Close() {
	a.server.Close()
}
