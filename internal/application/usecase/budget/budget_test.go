package budget

import (
	"context"
	"errors"
	"maps"
	"testing"
	"time"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/application/usecase/profile"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type rangeExpenseRepo struct {
	adapter.ExpenseRepository
	expenses []*entity.Expense
	from, to string
}

func (r *rangeExpenseRepo) ListByDateRange(_ context.Context, _ string, from, to string) ([]*entity.Expense, error) {
	r.from, r.to = from, to
	out := make([]*entity.Expense, 0)
	for _, e := range r.expenses {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

// memoryProfileRepo stores copies, so callers never share a row with it.
type memoryProfileRepo struct {
	profiles map[string]*entity.Profile
}

func copyProfile(p *entity.Profile) *entity.Profile {
	c := *p
	c.CategoryBudgets = maps.Clone(p.CategoryBudgets)
	return &c
}

func (r *memoryProfileRepo) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domainerror.ErrProfileNotFound
	}
	return copyProfile(p), nil
}

func (r *memoryProfileRepo) Save(_ context.Context, p *entity.Profile) error {
	row := copyProfile(p)
	if existing, ok := r.profiles[p.UserID]; ok {
		row.LastAlertPeriod = existing.LastAlertPeriod
	}
	r.profiles[p.UserID] = row
	return nil
}

func (r *memoryProfileRepo) ClaimAlertPeriod(_ context.Context, userID, period string) (bool, error) {
	p, ok := r.profiles[userID]
	if !ok || p.LastAlertPeriod == period {
		return false, nil
	}
	p.LastAlertPeriod = period
	return true, nil
}

func (r *memoryProfileRepo) ReleaseAlertPeriod(_ context.Context, userID, period, previous string) error {
	if p, ok := r.profiles[userID]; ok && p.LastAlertPeriod == period {
		p.LastAlertPeriod = previous
	}
	return nil
}

type recordingEmailService struct {
	queued  []adapter.QueueBudgetAlertInput
	err     error
	onQueue func()
}

func (s *recordingEmailService) QueueBudgetAlertEmail(_ context.Context, input adapter.QueueBudgetAlertInput) error {
	if s.onQueue != nil {
		hook := s.onQueue
		s.onQueue = nil
		hook()
	}
	if s.err != nil {
		return s.err
	}
	s.queued = append(s.queued, input)
	return nil
}

func expense(amount float64, category entity.CategoryID, date string) *entity.Expense {
	return entity.NewExpense("u1", amount, "test", category, date)
}

func TestGetBudgetStatusUseCase_Execute(t *testing.T) {
	repo := &rangeExpenseRepo{expenses: []*entity.Expense{
		expense(30000, entity.CategoryFood, "2024-03-02"),
		expense(15000, entity.CategoryFood, "2024-03-10"),
		expense(5000, entity.CategoryTransport, "2024-03-31"),
		expense(99999, entity.CategoryFood, "2024-02-29"),
	}}
	profiles := &memoryProfileRepo{profiles: map[string]*entity.Profile{}}
	uc := NewGetBudgetStatusUseCase(repo, profile.NewGetProfileUseCase(profiles), fixedClock{now: testNow})

	out, err := uc.Execute(context.Background(), GetBudgetStatusInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.from != "2024-03-01" || repo.to != "2024-03-31" {
		t.Errorf("expected March bounds, got %s..%s", repo.from, repo.to)
	}
	if out.Period != "2024-03" {
		t.Errorf("expected period 2024-03, got %s", out.Period)
	}
	if out.Overall.Spent != 50000 || out.Overall.PercentUsed != "33.3" || out.Overall.Alert {
		t.Errorf("unexpected overall line: %+v", out.Overall)
	}
	if out.Overall.RemainingFormatted != "₦100,000.00" {
		t.Errorf("unexpected remaining: %s", out.Overall.RemainingFormatted)
	}
	if len(out.Categories) != 6 {
		t.Fatalf("expected 6 category lines, got %d", len(out.Categories))
	}

	food := out.Categories[0]
	if food.CategoryID != entity.CategoryFood || food.Spent != 45000 || !food.OverBudget || !food.Alert {
		t.Errorf("unexpected food line: %+v", food)
	}
	if food.PercentUsed != "112.5" {
		t.Errorf("expected 112.5%%, got %s", food.PercentUsed)
	}
	shopping := out.Categories[2]
	if shopping.Spent != 0 || shopping.PercentUsed != "0.0" || shopping.Alert {
		t.Errorf("unexpected shopping line: %+v", shopping)
	}
}

func TestCheckBudgetAlertUseCase_Execute(t *testing.T) {
	newProfile := func() *entity.Profile {
		p := entity.NewDefaultProfile("u1", "NGN")
		p.Email = "ada@example.com"
		p.MonthlyBudget = 100000
		return p
	}

	t.Run("below threshold", func(t *testing.T) {
		repo := &rangeExpenseRepo{expenses: []*entity.Expense{expense(79999, entity.CategoryBills, "2024-03-01")}}
		profiles := &memoryProfileRepo{profiles: map[string]*entity.Profile{"u1": newProfile()}}
		emails := &recordingEmailService{}

		out, err := NewCheckBudgetAlertUseCase(repo, profiles, emails, fixedClock{now: testNow}, "http://app").
			Execute(context.Background(), CheckBudgetAlertInput{UserID: "u1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Queued || len(emails.queued) != 0 {
			t.Error("expected no alert below the threshold")
		}
	})

	t.Run("queues once per month", func(t *testing.T) {
		repo := &rangeExpenseRepo{expenses: []*entity.Expense{expense(80000, entity.CategoryBills, "2024-03-01")}}
		profiles := &memoryProfileRepo{profiles: map[string]*entity.Profile{"u1": newProfile()}}
		emails := &recordingEmailService{}
		uc := NewCheckBudgetAlertUseCase(repo, profiles, emails, fixedClock{now: testNow}, "http://app")

		out, err := uc.Execute(context.Background(), CheckBudgetAlertInput{UserID: "u1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Queued || out.PercentUsed != "80.0" {
			t.Errorf("expected alert at 80.0%%, got %+v", out)
		}
		if len(emails.queued) != 1 {
			t.Fatalf("expected 1 queued email, got %d", len(emails.queued))
		}
		q := emails.queued[0]
		if q.UserEmail != "ada@example.com" || q.Period != "2024-03" || q.Spent != "₦80,000.00" || q.Budget != "₦100,000.00" {
			t.Errorf("unexpected email input: %+v", q)
		}
		if profiles.profiles["u1"].LastAlertPeriod != "2024-03" {
			t.Error("expected alert period to be recorded")
		}

		again, err := uc.Execute(context.Background(), CheckBudgetAlertInput{UserID: "u1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Queued || len(emails.queued) != 1 {
			t.Error("expected no second alert in the same month")
		}
	})

	t.Run("notifications off", func(t *testing.T) {
		p := newProfile()
		p.Preferences.Notifications = false
		repo := &rangeExpenseRepo{expenses: []*entity.Expense{expense(150000, entity.CategoryBills, "2024-03-01")}}
		emails := &recordingEmailService{}

		out, err := NewCheckBudgetAlertUseCase(repo, &memoryProfileRepo{profiles: map[string]*entity.Profile{"u1": p}}, emails, fixedClock{now: testNow}, "").
			Execute(context.Background(), CheckBudgetAlertInput{UserID: "u1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Queued || len(emails.queued) != 0 {
			t.Error("expected no alert with notifications off")
		}
	})

	t.Run("missing email skips the alert", func(t *testing.T) {
		p := newProfile()
		p.Email = ""
		repo := &rangeExpenseRepo{expenses: []*entity.Expense{expense(150000, entity.CategoryBills, "2024-03-01")}}
		profiles := &memoryProfileRepo{profiles: map[string]*entity.Profile{"u1": p}}
		emails := &recordingEmailService{}

		out, err := NewCheckBudgetAlertUseCase(repo, profiles, emails, fixedClock{now: testNow}, "").
			Execute(context.Background(), CheckBudgetAlertInput{UserID: "u1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Queued || profiles.profiles["u1"].LastAlertPeriod != "" {
			t.Error("expected no alert and no recorded period without an email")
		}
	})
}

func TestCheckBudgetAlertUseCase_Interleavings(t *testing.T) {
	ctx := context.Background()
	newProfiles := func() *memoryProfileRepo {
		p := entity.NewDefaultProfile("u1", "NGN")
		p.Email = "ada@example.com"
		p.MonthlyBudget = 100000
		return &memoryProfileRepo{profiles: map[string]*entity.Profile{"u1": p}}
	}
	overBudget := func() *rangeExpenseRepo {
		return &rangeExpenseRepo{expenses: []*entity.Expense{expense(90000, entity.CategoryBills, "2024-03-01")}}
	}

	t.Run("profile edit during the check survives", func(t *testing.T) {
		profiles := newProfiles()
		emails := &recordingEmailService{}
		emails.onQueue = func() {
			budget := 500000.0
			if _, err := profile.NewUpdateProfileUseCase(profiles).Execute(ctx, profile.UpdateProfileInput{
				UserID:        "u1",
				MonthlyBudget: &budget,
			}); err != nil {
				t.Errorf("update profile: %v", err)
			}
		}

		out, err := NewCheckBudgetAlertUseCase(overBudget(), profiles, emails, fixedClock{now: testNow}, "").
			Execute(ctx, CheckBudgetAlertInput{UserID: "u1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Queued {
			t.Fatal("expected an alert")
		}
		got := profiles.profiles["u1"]
		if got.MonthlyBudget != 500000 {
			t.Errorf("monthly budget = %v, want 500000", got.MonthlyBudget)
		}
		if got.LastAlertPeriod != "2024-03" {
			t.Errorf("last alert period = %q, want 2024-03", got.LastAlertPeriod)
		}
	})

	t.Run("overlapping checks queue one alert", func(t *testing.T) {
		profiles := newProfiles()
		emails := &recordingEmailService{}
		uc := NewCheckBudgetAlertUseCase(overBudget(), profiles, emails, fixedClock{now: testNow}, "")
		emails.onQueue = func() {
			if _, err := uc.Execute(ctx, CheckBudgetAlertInput{UserID: "u1"}); err != nil {
				t.Errorf("nested check: %v", err)
			}
		}

		if _, err := uc.Execute(ctx, CheckBudgetAlertInput{UserID: "u1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(emails.queued) != 1 {
			t.Errorf("queued %d alerts for one period, want 1", len(emails.queued))
		}
	})

	t.Run("claimed period is not queued twice", func(t *testing.T) {
		profiles := newProfiles()
		emails := &recordingEmailService{}
		uc := NewCheckBudgetAlertUseCase(overBudget(), profiles, emails, fixedClock{now: testNow}, "")

		// another instance won the claim after this one loaded the profile
		if claimed, _ := profiles.ClaimAlertPeriod(ctx, "u1", "2024-03"); !claimed {
			t.Fatal("expected first claim to win")
		}
		if claimed, _ := profiles.ClaimAlertPeriod(ctx, "u1", "2024-03"); claimed {
			t.Fatal("expected second claim to lose")
		}

		out, err := uc.Execute(ctx, CheckBudgetAlertInput{UserID: "u1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Queued || len(emails.queued) != 0 {
			t.Error("expected no alert for an already claimed period")
		}
	})

	t.Run("failed enqueue releases the claim", func(t *testing.T) {
		profiles := newProfiles()
		profiles.profiles["u1"].LastAlertPeriod = "2024-02"
		emails := &recordingEmailService{err: errors.New("queue down")}
		uc := NewCheckBudgetAlertUseCase(overBudget(), profiles, emails, fixedClock{now: testNow}, "")

		if _, err := uc.Execute(ctx, CheckBudgetAlertInput{UserID: "u1"}); err == nil {
			t.Fatal("expected the enqueue error")
		}
		if got := profiles.profiles["u1"].LastAlertPeriod; got != "2024-02" {
			t.Errorf("last alert period = %q, want 2024-02", got)
		}

		emails.err = nil
		out, err := uc.Execute(ctx, CheckBudgetAlertInput{UserID: "u1"})
		if err != nil {
			t.Fatalf("retry: %v", err)
		}
		if !out.Queued || len(emails.queued) != 1 {
			t.Error("expected the retry to queue the alert")
		}
	})
}
