package adapter

import (
	"context"

	"github.com/spendwise/backend/internal/domain/entity"
)

// ChangeNotifier fans out "this user's expenses changed" signals.
// Implementations may coalesce signals; a listener only learns that
// something changed, never what.
type ChangeNotifier interface {
	// Publish signals that the expense set of userID changed.
	Publish(ctx context.Context, userID string) error

	// Listen returns a channel that receives a value after each change for userID.
	// The channel is closed once stop is called or ctx is done.
	Listen(ctx context.Context, userID string) (changes <-chan struct{}, stop func(), err error)
}

// Unsubscribe ends a record source subscription. Once it returns, the
// subscription's deliver callback is not called again. Calling it more than once is safe.
type Unsubscribe func()

// RecordSource delivers the complete current expense set of a user, once on
// subscription and again after every change. Deliveries for one subscription
// never overlap.
type RecordSource interface {
	Subscribe(ctx context.Context, userID string, deliver func([]*entity.Expense)) (Unsubscribe, error)
}
