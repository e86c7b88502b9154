package analytics

import (
	"context"
	"log/slog"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
)

// WatchAnalyticsInput represents the input for a live analytics subscription.
type WatchAnalyticsInput struct {
	UserID    string
	Timeframe string
}

// WatchAnalyticsUseCase recomputes analytics each time the record source
// delivers a new expense set for the user.
type WatchAnalyticsUseCase struct {
	source adapter.RecordSource
	clock  adapter.Clock
}

// NewWatchAnalyticsUseCase creates a new WatchAnalyticsUseCase instance.
func NewWatchAnalyticsUseCase(source adapter.RecordSource, clock adapter.Clock) *WatchAnalyticsUseCase {
	return &WatchAnalyticsUseCase{
		source: source,
		clock:  clock,
	}
}

// Execute subscribes to the user's expenses and returns a channel of results.
// The channel holds at most one pending result: a slow reader skips stale
// results and always sees the latest. It is closed when ctx is done.
func (uc *WatchAnalyticsUseCase) Execute(ctx context.Context, input WatchAnalyticsInput) (<-chan *Result, error) {
	tf, err := ParseTimeframe(input.Timeframe)
	if err != nil {
		return nil, err
	}

	results := make(chan *Result, 1)
	unsubscribe, err := uc.source.Subscribe(ctx, input.UserID, func(records []*entity.Expense) {
		publishLatest(results, Aggregate(records, tf, uc.clock.Now()))
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Analytics subscription started", "user_id", input.UserID, "timeframe", tf)

	go func() {
		<-ctx.Done()
		unsubscribe()
		close(results)
		slog.Info("Analytics subscription ended", "user_id", input.UserID)
	}()

	return results, nil
}

// publishLatest replaces any unread result with r. Deliveries are serialized,
// so this goroutine is the only sender.
func publishLatest(results chan *Result, r *Result) {
	select {
	case results <- r:
		return
	default:
	}
	select {
	case <-results:
	default:
	}
	results <- r
}
