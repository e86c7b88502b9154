package adapter

import (
	"context"

	"github.com/spendwise/backend/internal/domain/entity"
)

// ProfileRepository defines the interface for profile persistence operations.
type ProfileRepository interface {
	// GetByUserID returns domainerror.ErrProfileNotFound when the user has no profile yet.
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)

	// Save inserts the profile of profile.UserID or updates its editable fields.
	// LastAlertPeriod is only written on insert.
	Save(ctx context.Context, profile *entity.Profile) error

	// ClaimAlertPeriod records period as the last alerted month unless it
	// already is. It reports whether this call made the change.
	ClaimAlertPeriod(ctx context.Context, userID, period string) (bool, error)

	// ReleaseAlertPeriod restores previous if period is still the recorded one.
	ReleaseAlertPeriod(ctx context.Context, userID, period, previous string) error
}
