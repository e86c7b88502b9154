package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/spendwise/backend/internal/domain/entity"
)

func receive(t *testing.T, results <-chan *Result) *Result {
	t.Helper()
	select {
	case r, ok := <-results:
		if !ok {
			t.Fatal("results channel closed early")
		}
		return r
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a result")
	}
	return nil
}

func TestWatchAnalyticsUseCase_Execute(t *testing.T) {
	source := &fakeRecordSource{initial: []*entity.Expense{
		newExpense(100, entity.CategoryFood, "2024-03-05"),
	}}
	uc := NewWatchAnalyticsUseCase(source, fixedClock{now: testNow})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results, err := uc.Execute(ctx, WatchAnalyticsInput{UserID: "user-1", Timeframe: "month"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := receive(t, results)
	if first.ExpenseCount != 1 || first.TotalExpenses != 100 {
		t.Errorf("unexpected initial result: %+v", first.Metrics)
	}

	source.push([]*entity.Expense{
		newExpense(100, entity.CategoryFood, "2024-03-05"),
		newExpense(60, entity.CategoryTransport, "2024-03-06"),
	})
	second := receive(t, results)
	if second.ExpenseCount != 2 || second.TotalExpenses != 160 {
		t.Errorf("unexpected result after change: %+v", second.Metrics)
	}

	t.Run("slow readers only see the latest result", func(t *testing.T) {
		source.push([]*entity.Expense{newExpense(1, entity.CategoryFood, "2024-03-05")})
		source.push([]*entity.Expense{newExpense(2, entity.CategoryFood, "2024-03-05")})
		if latest := receive(t, results); latest.TotalExpenses != 2 {
			t.Errorf("expected latest total 2, got %v", latest.TotalExpenses)
		}
	})

	cancel()
	deadline := time.After(time.Second)
	for open := true; open; {
		select {
		case _, open = <-results:
		case <-deadline:
			t.Fatal("results channel was not closed after cancel")
		}
	}
	if !source.isUnsubscribed() {
		t.Error("expected the subscription to be torn down")
	}
}

func TestWatchAnalyticsUseCase_InvalidTimeframe(t *testing.T) {
	uc := NewWatchAnalyticsUseCase(&fakeRecordSource{}, fixedClock{now: testNow})
	if _, err := uc.Execute(context.Background(), WatchAnalyticsInput{UserID: "user-1", Timeframe: "hour"}); err == nil {
		t.Error("expected an error for an invalid timeframe")
	}
}
