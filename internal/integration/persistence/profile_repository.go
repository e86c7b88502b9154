package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/persistence/model"
)

// profileRepository implements the adapter.ProfileRepository interface.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance.
func NewProfileRepository(db *gorm.DB) adapter.ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

// GetByUserID retrieves the profile of a user.
func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	var profileModel model.ProfileModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profileModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrProfileNotFound
		}
		return nil, result.Error
	}
	return profileModel.ToEntity(), nil
}

// editableProfileColumns are overwritten when Save hits an existing row.
var editableProfileColumns = []string{
	"display_name",
	"email",
	"currency",
	"monthly_budget",
	"budget_alert",
	"category_budgets",
	"dark_mode",
	"notifications",
	"auto_categories",
	"updated_at",
}

// Save upserts a profile keyed by user id. last_alert_period belongs to
// ClaimAlertPeriod and is left untouched on conflict.
func (r *profileRepository) Save(ctx context.Context, profile *entity.Profile) error {
	profileModel := model.ProfileModelFromEntity(profile)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(editableProfileColumns),
		}).
		Create(profileModel).Error
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// ClaimAlertPeriod sets last_alert_period with a conditional update, so only
// one of several concurrent checks for the same month wins.
func (r *profileRepository) ClaimAlertPeriod(ctx context.Context, userID, period string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("user_id = ? AND (last_alert_period IS NULL OR last_alert_period <> ?)", userID, period).
		Update("last_alert_period", period)
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim alert period: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// ReleaseAlertPeriod undoes a claim whose alert could not be queued.
func (r *profileRepository) ReleaseAlertPeriod(ctx context.Context, userID, period, previous string) error {
	err := r.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("user_id = ? AND last_alert_period = ?", userID, period).
		Update("last_alert_period", previous).Error
	if err != nil {
		return fmt.Errorf("failed to release alert period: %w", err)
	}
	return nil
}
