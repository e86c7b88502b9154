package budget

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/application/usecase/profile"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/domain/valueobject"
)

// CheckBudgetAlertInput represents the input for a budget alert check.
type CheckBudgetAlertInput struct {
	UserID string
}

// CheckBudgetAlertOutput reports whether an alert email was queued.
type CheckBudgetAlertOutput struct {
	Queued      bool
	PercentUsed string
}

// CheckBudgetAlertUseCase queues at most one budget alert email per user and
// month once spending reaches the profile's alert threshold.
type CheckBudgetAlertUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	profileRepo  adapter.ProfileRepository
	getProfile   *profile.GetProfileUseCase
	emailService adapter.EmailService
	clock        adapter.Clock
	dashboardURL string
}

// NewCheckBudgetAlertUseCase creates a new CheckBudgetAlertUseCase instance.
func NewCheckBudgetAlertUseCase(
	expenseRepo adapter.ExpenseRepository,
	profileRepo adapter.ProfileRepository,
	emailService adapter.EmailService,
	clock adapter.Clock,
	dashboardURL string,
) *CheckBudgetAlertUseCase {
	return &CheckBudgetAlertUseCase{
		expenseRepo:  expenseRepo,
		profileRepo:  profileRepo,
		getProfile:   profile.NewGetProfileUseCase(profileRepo),
		emailService: emailService,
		clock:        clock,
		dashboardURL: dashboardURL,
	}
}

// Execute checks the current month and queues an alert when one is due.
func (uc *CheckBudgetAlertUseCase) Execute(ctx context.Context, input CheckBudgetAlertInput) (*CheckBudgetAlertOutput, error) {
	p, err := uc.getProfile.Execute(ctx, profile.GetProfileInput{UserID: input.UserID})
	if err != nil {
		return nil, domainerror.NewProfileError(domainerror.ErrCodeBudgetInternalError, "failed to load profile", err)
	}
	prof := p.Profile

	if !prof.Preferences.Notifications || prof.MonthlyBudget <= 0 {
		return &CheckBudgetAlertOutput{}, nil
	}

	spending, err := loadMonthSpending(ctx, uc.expenseRepo, input.UserID, uc.clock.Now())
	if err != nil {
		return nil, domainerror.NewProfileError(domainerror.ErrCodeBudgetInternalError, "failed to load spending", err)
	}

	budget := decimal.NewFromFloat(prof.MonthlyBudget)
	pct := percentUsed(spending.Total, budget)
	out := &CheckBudgetAlertOutput{PercentUsed: pct.StringFixed(1)}

	if pct.LessThan(decimal.NewFromInt(int64(prof.BudgetAlert))) || prof.AlertSentFor(spending.Period) {
		return out, nil
	}
	if prof.Email == "" {
		slog.Warn("Budget alert due but profile has no email", "user_id", input.UserID, "period", spending.Period)
		return out, nil
	}

	claimed, err := uc.profileRepo.ClaimAlertPeriod(ctx, prof.UserID, spending.Period)
	if err != nil {
		return nil, domainerror.NewProfileError(domainerror.ErrCodeBudgetInternalError, "failed to record alert period", err)
	}
	if !claimed {
		return out, nil
	}

	err = uc.emailService.QueueBudgetAlertEmail(ctx, adapter.QueueBudgetAlertInput{
		UserID:       prof.UserID,
		UserEmail:    prof.Email,
		UserName:     prof.DisplayName,
		Period:       spending.Period,
		Spent:        valueobject.NGN.FormatAmount(spending.Total.InexactFloat64()),
		Budget:       valueobject.NGN.FormatAmount(prof.MonthlyBudget),
		PercentUsed:  out.PercentUsed,
		AlertPercent: prof.BudgetAlert,
		DashboardURL: uc.dashboardURL,
	})
	if err != nil {
		if releaseErr := uc.profileRepo.ReleaseAlertPeriod(ctx, prof.UserID, spending.Period, prof.LastAlertPeriod); releaseErr != nil {
			slog.Error("Failed to release alert period", "user_id", input.UserID, "period", spending.Period, "error", releaseErr)
		}
		return nil, err
	}

	slog.Info("Budget alert queued",
		"user_id", input.UserID,
		"period", spending.Period,
		"percent_used", out.PercentUsed,
	)
	out.Queued = true
	return out, nil
}
