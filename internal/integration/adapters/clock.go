package adapters

import (
	"fmt"
	"time"

	"github.com/spendwise/backend/internal/application/adapter"
)

// systemClock implements adapter.Clock with the wall clock in a fixed location.
type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a clock reporting the current time in the named zone.
func NewSystemClock(timezone string) (adapter.Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &systemClock{loc: loc}, nil
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}
