package adapter

import "time"

// Clock provides the current instant. Analytics windows and budget periods
// are anchored at Now.
type Clock interface {
	Now() time.Time
}
