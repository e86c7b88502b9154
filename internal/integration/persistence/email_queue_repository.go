package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/persistence/model"
)

type emailQueueRepository struct {
	db *gorm.DB
}

// NewEmailQueueRepository returns the gorm-backed budget alert queue.
func NewEmailQueueRepository(db *gorm.DB) adapter.EmailQueueRepository {
	return &emailQueueRepository{db: db}
}

func (r *emailQueueRepository) jobs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.EmailQueueModel{})
}

// Enqueue stores a new pending job.
func (r *emailQueueRepository) Enqueue(ctx context.Context, job *entity.EmailJob) error {
	if err := r.db.WithContext(ctx).Create(model.EmailQueueModelFromEntity(job)).Error; err != nil {
		return domainerror.NewEmailError(domainerror.ErrCodeEmailQueueFailed, "failed to enqueue email job", err)
	}
	return nil
}

// ClaimDue picks candidate ids, then flips only those still pending. The
// conditional update is what keeps two workers from taking the same row.
func (r *emailQueueRepository) ClaimDue(ctx context.Context, token string, now time.Time, limit int) ([]*entity.EmailJob, error) {
	now = now.UTC()

	var ids []uuid.UUID
	err := r.jobs(ctx).
		Where("status = ? AND scheduled_at <= ?", string(entity.EmailStatusPending), now).
		Order("scheduled_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, domainerror.NewEmailError(domainerror.ErrCodeEmailClaimFailed, "failed to select due email jobs", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	err = r.jobs(ctx).
		Where("id IN ? AND status = ?", ids, string(entity.EmailStatusPending)).
		Updates(map[string]any{
			"status":      string(entity.EmailStatusProcessing),
			"claim_token": token,
			"claimed_at":  now,
		}).Error
	if err != nil {
		return nil, domainerror.NewEmailError(domainerror.ErrCodeEmailClaimFailed, "failed to claim email jobs", err)
	}

	var rows []model.EmailQueueModel
	err = r.db.WithContext(ctx).
		Where("id IN ? AND claim_token = ? AND status = ?", ids, token, string(entity.EmailStatusProcessing)).
		Order("scheduled_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, domainerror.NewEmailError(domainerror.ErrCodeEmailClaimFailed, "failed to load claimed email jobs", err)
	}

	claimed := make([]*entity.EmailJob, len(rows))
	for i := range rows {
		claimed[i] = rows[i].ToEntity()
	}
	return claimed, nil
}

// Save writes the delivery outcome of job, scoped to the claim token so a
// worker that outlived its claim cannot overwrite the new owner's result.
func (r *emailQueueRepository) Save(ctx context.Context, token string, job *entity.EmailJob) (bool, error) {
	row := model.EmailQueueModelFromEntity(job)
	result := r.jobs(ctx).
		Where("id = ? AND claim_token = ?", job.ID, token).
		Updates(map[string]any{
			"status":       row.Status,
			"attempts":     row.Attempts,
			"last_error":   row.LastError,
			"provider_id":  row.ProviderID,
			"claim_token":  row.ClaimToken,
			"claimed_at":   row.ClaimedAt,
			"scheduled_at": row.ScheduledAt,
			"processed_at": row.ProcessedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to save email job %s: %w", job.ID, result.Error)
	}
	return result.RowsAffected == 1, nil
}

// RequeueStale releases claims older than cutoff. Attempts are left alone:
// the abandoned delivery may never have reached the provider.
func (r *emailQueueRepository) RequeueStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.jobs(ctx).
		Where("status = ? AND claimed_at < ?", string(entity.EmailStatusProcessing), cutoff.UTC()).
		Updates(map[string]any{
			"status":      string(entity.EmailStatusPending),
			"claim_token": "",
			"claimed_at":  nil,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to requeue stale email jobs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// PurgeSent deletes sent jobs processed before cutoff.
func (r *emailQueueRepository) PurgeSent(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", string(entity.EmailStatusSent), cutoff.UTC()).
		Delete(&model.EmailQueueModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sent email jobs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
