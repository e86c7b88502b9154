package controller_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spendwise/backend/internal/application/usecase/analytics"
	"github.com/spendwise/backend/internal/application/usecase/budget"
	"github.com/spendwise/backend/internal/application/usecase/expense"
	"github.com/spendwise/backend/internal/application/usecase/profile"
	"github.com/spendwise/backend/internal/integration/entrypoint/controller"
	"github.com/spendwise/backend/internal/integration/entrypoint/dto"
	"github.com/spendwise/backend/internal/integration/entrypoint/middleware"
	"github.com/spendwise/backend/internal/integration/persistence"
	"github.com/spendwise/backend/internal/integration/persistence/model"
	"github.com/spendwise/backend/internal/integration/realtime"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// newTestEngine wires the controllers over an in-memory database. Requests
// carrying an X-Test-User header are treated as authenticated.
func newTestEngine(t *testing.T, heartbeat time.Duration) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(&model.ExpenseModel{}, &model.ProfileModel{}, &model.EmailQueueModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	clock := fixedClock{now: testNow}
	expenseRepo := persistence.NewExpenseRepository(db)
	profileRepo := persistence.NewProfileRepository(db)
	notifier := realtime.NewMemoryNotifier()
	source := realtime.NewRecordSource(expenseRepo, notifier)
	getProfile := profile.NewGetProfileUseCase(profileRepo)

	expenses := controller.NewExpenseController(
		expense.NewCreateExpenseUseCase(expenseRepo, notifier, nil),
		expense.NewListExpensesUseCase(expenseRepo),
		expense.NewUpdateExpenseUseCase(expenseRepo, notifier),
		expense.NewDeleteExpenseUseCase(expenseRepo, notifier),
		expense.NewClearAllExpensesUseCase(expenseRepo, notifier),
	)
	analyticsCtrl := controller.NewAnalyticsController(
		analytics.NewGetAnalyticsUseCase(expenseRepo, clock),
		analytics.NewWatchAnalyticsUseCase(source, clock),
		analytics.NewGetDataRangeUseCase(expenseRepo),
		heartbeat,
	)
	profiles := controller.NewProfileController(getProfile, profile.NewUpdateProfileUseCase(profileRepo))
	budgets := controller.NewBudgetController(budget.NewGetBudgetStatusUseCase(expenseRepo, getProfile, clock))
	categories := controller.NewCategoryController()

	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/categories", categories.List)

	protected := api.Group("")
	protected.Use(func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			c.Set(string(middleware.UserIDKey), user)
			c.Set(string(middleware.UserEmailKey), user+"@example.com")
			c.Set(string(middleware.UserNameKey), "Test User")
		}
		c.Next()
	})
	protected.POST("/expenses", expenses.Create)
	protected.GET("/expenses", expenses.List)
	protected.PATCH("/expenses/:id", expenses.Update)
	protected.DELETE("/expenses/:id", expenses.Delete)
	protected.DELETE("/expenses", expenses.Clear)
	protected.GET("/analytics", analyticsCtrl.Get)
	protected.GET("/analytics/stream", analyticsCtrl.Stream)
	protected.GET("/analytics/range", analyticsCtrl.DataRange)
	protected.GET("/profile", profiles.Get)
	protected.PATCH("/profile", profiles.Update)
	protected.GET("/budget", budgets.Status)

	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func createExpense(t *testing.T, r http.Handler, user string, amount float64, category, date string) dto.ExpenseResponse {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/v1/expenses", user, map[string]any{
		"amount":      amount,
		"description": category + " purchase",
		"category":    category,
		"date":        date,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create expense: status %d body %s", w.Code, w.Body.String())
	}
	return decode[dto.ExpenseResponse](t, w)
}

func TestExpenseEndpoints(t *testing.T) {
	r := newTestEngine(t, 0)

	created := createExpense(t, r, "user-1", 2500, "food", "2024-03-10")
	if created.CategoryName != "Food & Dining" || created.AmountFormatted != "₦2,500.00" {
		t.Errorf("created = %+v", created)
	}
	createExpense(t, r, "user-2", 900, "bills", "2024-03-11")

	w := doRequest(t, r, http.MethodGet, "/api/v1/expenses?limit=10", "user-1", nil)
	list := decode[dto.ExpenseListResponse](t, w)
	if len(list.Data) != 1 || list.Pagination.Total != 1 {
		t.Fatalf("list = %+v", list)
	}

	newAmount := 3000.0
	w = doRequest(t, r, http.MethodPatch, "/api/v1/expenses/"+created.ID, "user-1", map[string]any{"amount": newAmount})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", w.Code, w.Body.String())
	}
	if updated := decode[dto.ExpenseResponse](t, w); updated.Amount != newAmount {
		t.Errorf("updated amount = %v", updated.Amount)
	}

	w = doRequest(t, r, http.MethodDelete, "/api/v1/expenses/"+created.ID, "user-2", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete by another user: status %d, want 404", w.Code)
	}

	w = doRequest(t, r, http.MethodDelete, "/api/v1/expenses/"+created.ID, "user-1", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete: status %d, want 204", w.Code)
	}

	w = doRequest(t, r, http.MethodDelete, "/api/v1/expenses", "user-2", nil)
	if cleared := decode[dto.ClearExpensesResponse](t, w); cleared.Deleted != 1 {
		t.Errorf("cleared = %d, want 1", cleared.Deleted)
	}
}

func TestExpenseEndpointErrors(t *testing.T) {
	r := newTestEngine(t, 0)

	tests := []struct {
		name       string
		method     string
		path       string
		user       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unauthenticated",
			method:     http.MethodGet,
			path:       "/api/v1/expenses",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH-030003",
		},
		{
			name:       "zero amount",
			method:     http.MethodPost,
			path:       "/api/v1/expenses",
			user:       "user-1",
			body:       map[string]any{"amount": 0, "description": "x", "category": "food", "date": "2024-03-01"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "EXP-010001",
		},
		{
			name:       "unknown category",
			method:     http.MethodPost,
			path:       "/api/v1/expenses",
			user:       "user-1",
			body:       map[string]any{"amount": 10, "description": "x", "category": "travel", "date": "2024-03-01"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "EXP-010003",
		},
		{
			name:       "missing fields",
			method:     http.MethodPost,
			path:       "/api/v1/expenses",
			user:       "user-1",
			body:       map[string]any{"amount": 10},
			wantStatus: http.StatusBadRequest,
			wantCode:   "EXP-010006",
		},
		{
			name:       "malformed id",
			method:     http.MethodDelete,
			path:       "/api/v1/expenses/not-a-uuid",
			user:       "user-1",
			wantStatus: http.StatusBadRequest,
			wantCode:   "EXP-010006",
		},
		{
			name:       "missing expense",
			method:     http.MethodPatch,
			path:       "/api/v1/expenses/2b1c0c8e-7d59-4a5e-9a4c-0b7f6f1a2e3d",
			user:       "user-1",
			body:       map[string]any{"description": "new"},
			wantStatus: http.StatusNotFound,
			wantCode:   "EXP-020001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, r, tt.method, tt.path, tt.user, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if got := decode[dto.ErrorResponse](t, w); got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	r := newTestEngine(t, 0)

	createExpense(t, r, "user-1", 1000, "food", "2024-03-10")
	createExpense(t, r, "user-1", 500, "transport", "2024-03-12")
	createExpense(t, r, "user-1", 700, "food", "2023-01-05")

	w := doRequest(t, r, http.MethodGet, "/api/v1/analytics?timeframe=month", "user-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	data := decode[dto.AnalyticsResponse](t, w).Data
	if data.Timeframe != "month" || data.Metrics.TotalExpenses != 1500 || data.Metrics.ExpenseCount != 2 {
		t.Errorf("metrics = %+v", data.Metrics)
	}
	if len(data.CategoryBreakdown) != 2 || data.CategoryBreakdown[0].Name != "Food & Dining" {
		t.Errorf("breakdown = %+v", data.CategoryBreakdown)
	}
	if len(data.TopExpenses) != 2 || data.TopExpenses[0].Rank != 1 || data.TopExpenses[0].Amount != 1000 {
		t.Errorf("top = %+v", data.TopExpenses)
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/analytics?timeframe=decade", "user-1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid timeframe: status %d", w.Code)
	}
	if got := decode[dto.ErrorResponse](t, w); got.Code != "ANL-010001" {
		t.Errorf("code = %q", got.Code)
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/analytics/range", "user-1", nil)
	rng := decode[dto.DataRangeResponse](t, w).Data
	if rng == nil || !rng.HasData || rng.OldestDate != "2023-01-05" || rng.NewestDate != "2024-03-12" {
		t.Errorf("range = %+v", rng)
	}
}

func TestAnalyticsEndpointEmpty(t *testing.T) {
	r := newTestEngine(t, 0)

	w := doRequest(t, r, http.MethodGet, "/api/v1/analytics?timeframe=all", "user-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := w.Body.String()
	for _, field := range []string{`"category_breakdown":[]`, `"top_expenses":[]`, `"insights":[]`} {
		if !strings.Contains(body, field) {
			t.Errorf("body missing %s: %s", field, body)
		}
	}
}

type sseEvent struct {
	name string
	data string
}

func readEvent(t *testing.T, reader *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			if ev.name != "" {
				return ev
			}
		case strings.HasPrefix(line, "event:"):
			ev.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			ev.data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
}

func openStream(t *testing.T, server *httptest.Server, ctx context.Context, query string) *bufio.Reader {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/analytics/stream"+query, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Test-User", "user-1")
	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stream status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/event-stream") {
		t.Errorf("content type = %q", got)
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-cache" {
		t.Errorf("cache control = %q", got)
	}
	return bufio.NewReader(resp.Body)
}

func TestAnalyticsStream(t *testing.T) {
	r := newTestEngine(t, time.Hour)
	server := httptest.NewServer(r)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := openStream(t, server, ctx, "?timeframe=month")

	first := readEvent(t, reader)
	if first.name != controller.AnalyticsEvent {
		t.Fatalf("first event = %q", first.name)
	}
	var initial dto.AnalyticsData
	if err := json.Unmarshal([]byte(first.data), &initial); err != nil {
		t.Fatalf("decode initial: %v", err)
	}
	if initial.Metrics.ExpenseCount != 0 {
		t.Errorf("initial count = %d", initial.Metrics.ExpenseCount)
	}

	createExpense(t, r, "user-1", 4200, "shopping", "2024-03-14")

	next := readEvent(t, reader)
	var updated dto.AnalyticsData
	if err := json.Unmarshal([]byte(next.data), &updated); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if updated.Metrics.TotalExpenses != 4200 || updated.Metrics.ExpenseCount != 1 {
		t.Errorf("updated metrics = %+v", updated.Metrics)
	}
}

func TestAnalyticsStreamHeartbeat(t *testing.T) {
	r := newTestEngine(t, 20*time.Millisecond)
	server := httptest.NewServer(r)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := openStream(t, server, ctx, "")

	seen := map[string]bool{}
	for i := 0; i < 3 && !seen[controller.HeartbeatEvent]; i++ {
		seen[readEvent(t, reader).name] = true
	}
	if !seen[controller.AnalyticsEvent] || !seen[controller.HeartbeatEvent] {
		t.Errorf("events seen = %v, want analytics and heartbeat", seen)
	}
}

func TestAnalyticsStreamInvalidTimeframe(t *testing.T) {
	r := newTestEngine(t, 0)

	w := doRequest(t, r, http.MethodGet, "/api/v1/analytics/stream?timeframe=fortnight", "user-1", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestProfileEndpoints(t *testing.T) {
	r := newTestEngine(t, 0)

	w := doRequest(t, r, http.MethodGet, "/api/v1/profile", "user-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get profile: status %d", w.Code)
	}
	p := decode[dto.ProfileResponse](t, w)
	if p.Email != "user-1@example.com" || p.Currency != "NGN" || p.BudgetAlert != 80 {
		t.Errorf("default profile = %+v", p)
	}

	w = doRequest(t, r, http.MethodPatch, "/api/v1/profile", "user-1", map[string]any{
		"monthly_budget":   50000,
		"category_budgets": map[string]float64{"food": 20000},
		"preferences":      map[string]bool{"dark_mode": true},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update profile: status %d body %s", w.Code, w.Body.String())
	}
	p = decode[dto.ProfileResponse](t, w)
	if p.MonthlyBudget != 50000 || p.CategoryBudgets["food"] != 20000 || !p.Preferences.DarkMode {
		t.Errorf("updated profile = %+v", p)
	}

	tests := []struct {
		name     string
		body     map[string]any
		wantCode string
	}{
		{name: "alert out of range", body: map[string]any{"budget_alert": 150}, wantCode: "PRF-010002"},
		{name: "negative budget", body: map[string]any{"monthly_budget": -1}, wantCode: "PRF-010001"},
		{name: "unknown category", body: map[string]any{"category_budgets": map[string]float64{"travel": 10}}, wantCode: "PRF-010003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, r, http.MethodPatch, "/api/v1/profile", "user-1", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if got := decode[dto.ErrorResponse](t, w); got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestBudgetEndpoint(t *testing.T) {
	r := newTestEngine(t, 0)

	doRequest(t, r, http.MethodPatch, "/api/v1/profile", "user-1", map[string]any{
		"monthly_budget":   10000,
		"category_budgets": map[string]float64{"food": 4000},
	})
	createExpense(t, r, "user-1", 3500, "food", "2024-03-02")
	createExpense(t, r, "user-1", 900, "food", "2024-02-27")

	w := doRequest(t, r, http.MethodGet, "/api/v1/budget", "user-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	status := decode[dto.BudgetStatusResponse](t, w).Data
	if status.Period != "2024-03" || status.Overall.Spent != 3500 || status.Overall.PercentUsed != "35.0" {
		t.Errorf("overall = %+v", status.Overall)
	}
	if len(status.Categories) != 6 {
		t.Fatalf("categories = %d, want 6", len(status.Categories))
	}
	food := status.Categories[0]
	if food.CategoryID != "food" || food.Spent != 3500 || !food.Alert || food.OverBudget {
		t.Errorf("food line = %+v", food)
	}
}

func TestCategoryEndpoint(t *testing.T) {
	r := newTestEngine(t, 0)

	w := doRequest(t, r, http.MethodGet, "/api/v1/categories", "", nil)
	list := decode[dto.CategoryListResponse](t, w)
	if len(list.Data) != 6 || list.Data[0].ID != "food" || list.Data[5].Color != "#6b7280" {
		t.Errorf("categories = %+v", list.Data)
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	down := func(context.Context) error { return errors.New("connection refused") }
	up := func(context.Context) error { return nil }

	tests := []struct {
		name         string
		database     controller.Probe
		realtime     controller.Probe
		wantStatus   int
		wantDB       string
		wantRealtime string
	}{
		{name: "all reachable", database: up, realtime: up, wantStatus: http.StatusOK, wantDB: "connected", wantRealtime: "connected"},
		{name: "in-process realtime has no probe", database: up, realtime: nil, wantStatus: http.StatusOK, wantDB: "connected", wantRealtime: "connected"},
		{name: "database down", database: down, realtime: up, wantStatus: http.StatusServiceUnavailable, wantDB: "disconnected", wantRealtime: "connected"},
		{name: "redis down", database: up, realtime: down, wantStatus: http.StatusServiceUnavailable, wantDB: "connected", wantRealtime: "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			h := controller.NewHealthController(tt.database, tt.realtime, "redis", fixedClock{now: testNow})
			r.GET("/health", h.Check)

			w := doRequest(t, r, http.MethodGet, "/health", "", nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			got := decode[controller.HealthResponse](t, w)
			if got.Database != tt.wantDB || got.Realtime != tt.wantRealtime || got.RealtimeBackend != "redis" {
				t.Errorf("response = %+v", got)
			}
			if got.Timestamp != "2024-03-15T12:00:00Z" {
				t.Errorf("timestamp = %q", got.Timestamp)
			}
		})
	}
}
