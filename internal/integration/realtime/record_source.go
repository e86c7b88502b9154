package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
)

// RecordSource reloads a user's full expense set from the repository each
// time the notifier signals a change for that user.
type RecordSource struct {
	expenseRepo adapter.ExpenseRepository
	notifier    adapter.ChangeNotifier
}

// NewRecordSource creates a new RecordSource instance.
func NewRecordSource(expenseRepo adapter.ExpenseRepository, notifier adapter.ChangeNotifier) *RecordSource {
	return &RecordSource{
		expenseRepo: expenseRepo,
		notifier:    notifier,
	}
}

var _ adapter.RecordSource = (*RecordSource)(nil)

// Subscribe delivers the current set, then a fresh set after every change.
// deliver runs on a single goroutine per subscription and must not call the
// returned Unsubscribe.
func (s *RecordSource) Subscribe(ctx context.Context, userID string, deliver func([]*entity.Expense)) (adapter.Unsubscribe, error) {
	subCtx, cancel := context.WithCancel(ctx)

	// listen before the first load so a change racing the load is not lost
	changes, stopListening, err := s.notifier.Listen(subCtx, userID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("listen for expense changes: %w", err)
	}

	initial, err := s.expenseRepo.ListAll(subCtx, userID)
	if err != nil {
		stopListening()
		cancel()
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		deliver(initial)
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				records, err := s.expenseRepo.ListAll(subCtx, userID)
				if err != nil {
					if subCtx.Err() == nil {
						slog.Warn("Failed to reload expenses", "error", err, "user_id", userID)
					}
					continue
				}
				if subCtx.Err() != nil {
					return
				}
				deliver(records)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			stopListening()
			<-done
		})
	}, nil
}
