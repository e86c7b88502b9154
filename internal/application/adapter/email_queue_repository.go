package adapter

import (
	"context"
	"time"

	"github.com/spendwise/backend/internal/domain/entity"
)

// EmailQueueRepository persists outbound budget notifications.
//
// Several API instances may share one queue, so workers take jobs with
// ClaimDue rather than reading and updating them separately.
type EmailQueueRepository interface {
	// Enqueue stores a new pending job.
	Enqueue(ctx context.Context, job *entity.EmailJob) error

	// ClaimDue moves up to limit due jobs to processing under token and
	// returns them, oldest schedule first. Jobs claimed by another token are
	// never returned.
	ClaimDue(ctx context.Context, token string, now time.Time, limit int) ([]*entity.EmailJob, error)

	// Save writes back a job claimed under token after delivery was attempted.
	// It reports false and writes nothing once another worker holds the claim.
	Save(ctx context.Context, token string, job *entity.EmailJob) (bool, error)

	// RequeueStale returns jobs claimed before cutoff to pending.
	RequeueStale(ctx context.Context, cutoff time.Time) (int64, error)

	// PurgeSent deletes sent jobs processed before cutoff.
	PurgeSent(ctx context.Context, cutoff time.Time) (int64, error)
}
