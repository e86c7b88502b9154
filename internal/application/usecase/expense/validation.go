// Package expense contains expense-related use cases.
package expense

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// MaxDescriptionLength is the maximum allowed length for expense descriptions.
const MaxDescriptionLength = 255

var datePrefixPattern = regexp.MustCompile(`^\d{4}(-\d{2}(-\d{2})?)?$`)

func validateAmount(amount float64) error {
	if !(amount > 0) {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseAmount,
			domainerror.ErrInvalidExpenseAmount.Error(),
			domainerror.ErrInvalidExpenseAmount,
		)
	}
	return nil
}

func normalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", domainerror.NewExpenseError(
			domainerror.ErrCodeMissingExpenseDescription,
			domainerror.ErrMissingExpenseDescription.Error(),
			domainerror.ErrMissingExpenseDescription,
		)
	}
	if len(description) > MaxDescriptionLength {
		return "", domainerror.NewExpenseError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}
	return description, nil
}

func validateCategory(category entity.CategoryID) error {
	if !category.IsValid() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseCategory,
			fmt.Sprintf("category %q is not one of the supported categories", category),
			domainerror.ErrInvalidExpenseCategory,
		)
	}
	return nil
}

// normalizeDate checks a YYYY-MM-DD calendar date and returns it in canonical form.
func normalizeDate(date string) (string, error) {
	t, err := time.Parse(entity.DateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseDate,
			domainerror.ErrInvalidExpenseDate.Error(),
			domainerror.ErrInvalidExpenseDate,
		)
	}
	return t.Format(entity.DateLayout), nil
}

// publishChange tells live subscribers that userID's expenses changed. The
// write already succeeded, so a failed publish is only logged.
func publishChange(ctx context.Context, notifier adapter.ChangeNotifier, userID string) {
	if notifier == nil {
		return
	}
	if err := notifier.Publish(ctx, userID); err != nil {
		slog.Warn("Failed to publish expense change", "user_id", userID, "error", err)
	}
}
