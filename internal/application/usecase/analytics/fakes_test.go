package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newExpense(amount float64, category entity.CategoryID, date string) *entity.Expense {
	return &entity.Expense{
		ID:          uuid.New(),
		UserID:      "user-1",
		Amount:      amount,
		Description: string(category) + " on " + date,
		Category:    category,
		Date:        date,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeExpenseRepo struct {
	adapter.ExpenseRepository
	records   []*entity.Expense
	listErr   error
	dateRange *entity.ExpenseDateRange
}

func (r *fakeExpenseRepo) ListAll(_ context.Context, _ string) ([]*entity.Expense, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.records, nil
}

func (r *fakeExpenseRepo) GetDateRange(_ context.Context, _ string) (*entity.ExpenseDateRange, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.dateRange, nil
}

// fakeRecordSource delivers synchronously on Subscribe and on every push.
type fakeRecordSource struct {
	mu           sync.Mutex
	deliver      func([]*entity.Expense)
	initial      []*entity.Expense
	unsubscribed bool
}

func (s *fakeRecordSource) Subscribe(_ context.Context, _ string, deliver func([]*entity.Expense)) (adapter.Unsubscribe, error) {
	s.mu.Lock()
	s.deliver = deliver
	s.mu.Unlock()

	deliver(s.initial)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.deliver = nil
		s.unsubscribed = true
	}, nil
}

func (s *fakeRecordSource) push(records []*entity.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deliver != nil {
		s.deliver(records)
	}
}

func (s *fakeRecordSource) isUnsubscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsubscribed
}
