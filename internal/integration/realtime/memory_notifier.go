// Package realtime implements expense change notifiers and the record source
// that turns change signals into fresh expense sets.
package realtime

import (
	"context"
	"sync"

	"github.com/spendwise/backend/internal/application/adapter"
)

// MemoryNotifier is an in-process ChangeNotifier. Signals are coalesced per
// listener: a listener that has not drained its channel sees one pending signal.
type MemoryNotifier struct {
	mu        sync.Mutex
	listeners map[string]map[*memoryListener]struct{}
}

type memoryListener struct {
	ch   chan struct{}
	once sync.Once
}

// NewMemoryNotifier creates an empty in-process notifier.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{
		listeners: make(map[string]map[*memoryListener]struct{}),
	}
}

var _ adapter.ChangeNotifier = (*MemoryNotifier)(nil)

// Publish signals every listener of userID.
func (n *MemoryNotifier) Publish(_ context.Context, userID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for l := range n.listeners[userID] {
		signal(l.ch)
	}
	return nil
}

// broadcast signals every listener of every user.
func (n *MemoryNotifier) broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, set := range n.listeners {
		for l := range set {
			signal(l.ch)
		}
	}
}

// Listen registers a listener for userID.
func (n *MemoryNotifier) Listen(ctx context.Context, userID string) (<-chan struct{}, func(), error) {
	l := &memoryListener{ch: make(chan struct{}, 1)}

	n.mu.Lock()
	set, ok := n.listeners[userID]
	if !ok {
		set = make(map[*memoryListener]struct{})
		n.listeners[userID] = set
	}
	set[l] = struct{}{}
	n.mu.Unlock()

	stop := func() {
		l.once.Do(func() {
			n.mu.Lock()
			delete(n.listeners[userID], l)
			if len(n.listeners[userID]) == 0 {
				delete(n.listeners, userID)
			}
			close(l.ch)
			n.mu.Unlock()
		})
	}

	go func() {
		<-ctx.Done()
		stop()
	}()

	return l.ch, stop, nil
}

// ListenerCount returns the number of active listeners for userID.
func (n *MemoryNotifier) ListenerCount(userID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners[userID])
}

// signal performs a non-blocking send; a full buffer already carries a pending signal.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
