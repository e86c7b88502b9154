package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/spendwise/backend/internal/application/adapter"
)

// PostgresChannel is the LISTEN/NOTIFY channel carrying the changed user id as payload.
const PostgresChannel = "expense_changes"

const (
	pgMinReconnectInterval = 10 * time.Second
	pgMaxReconnectInterval = time.Minute
	pgPingInterval         = 90 * time.Second
)

// PostgresNotifier fans out change signals with LISTEN/NOTIFY. One pq
// listener connection serves the whole process; Run dispatches incoming
// notifications to the local listeners of the user named in the payload.
type PostgresNotifier struct {
	db       *gorm.DB
	listener *pq.Listener
	local    *MemoryNotifier
}

// NewPostgresNotifier opens the dedicated listener connection described by dsn.
func NewPostgresNotifier(db *gorm.DB, dsn string) (*PostgresNotifier, error) {
	listener := pq.NewListener(dsn, pgMinReconnectInterval, pgMaxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Warn("Postgres listener event", "event", ev, "error", err)
		}
	})

	if err := listener.Listen(PostgresChannel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen on %s: %w", PostgresChannel, err)
	}

	return &PostgresNotifier{
		db:       db,
		listener: listener,
		local:    NewMemoryNotifier(),
	}, nil
}

var _ adapter.ChangeNotifier = (*PostgresNotifier)(nil)

// Publish issues pg_notify with userID as payload.
func (n *PostgresNotifier) Publish(ctx context.Context, userID string) error {
	if err := n.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", PostgresChannel, userID).Error; err != nil {
		return fmt.Errorf("notify expense change: %w", err)
	}
	return nil
}

// Listen registers a local listener; notifications reach it while Run is active.
func (n *PostgresNotifier) Listen(ctx context.Context, userID string) (<-chan struct{}, func(), error) {
	return n.local.Listen(ctx, userID)
}

// Run dispatches notifications until ctx is done, then closes the listener.
func (n *PostgresNotifier) Run(ctx context.Context) error {
	slog.Info("Postgres change listener started", "channel", PostgresChannel)

	ticker := time.NewTicker(pgPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Postgres change listener stopped")
			return n.listener.Close()
		case notification := <-n.listener.Notify:
			n.dispatch(notification)
		case <-ticker.C:
			if err := n.listener.Ping(); err != nil {
				slog.Warn("Postgres listener ping failed", "error", err)
			}
		}
	}
}

// dispatch routes one notification. A nil notification follows a reconnect,
// after which signals may have been lost, so every listener is signalled.
func (n *PostgresNotifier) dispatch(notification *pq.Notification) {
	if notification == nil {
		n.local.broadcast()
		return
	}
	if notification.Channel != PostgresChannel || notification.Extra == "" {
		return
	}
	_ = n.local.Publish(context.Background(), notification.Extra)
}

// Ping checks the dedicated listener connection.
func (n *PostgresNotifier) Ping(_ context.Context) error {
	return n.listener.Ping()
}
