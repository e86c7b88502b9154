package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/backend/internal/application/usecase/profile"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/entrypoint/dto"
	"github.com/spendwise/backend/internal/integration/entrypoint/middleware"
)

// ProfileController handles profile endpoints.
type ProfileController struct {
	getUseCase    *profile.GetProfileUseCase
	updateUseCase *profile.UpdateProfileUseCase
}

// NewProfileController creates a new profile controller instance.
func NewProfileController(getUseCase *profile.GetProfileUseCase, updateUseCase *profile.UpdateProfileUseCase) *ProfileController {
	return &ProfileController{
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
	}
}

// Get handles GET /profile requests. The first call creates the default profile.
func (c *ProfileController) Get(ctx *gin.Context) {
	identity, ok := middleware.GetIdentityFromContext(ctx)
	if !ok {
		requireUserID(ctx)
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), profile.GetProfileInput{
		UserID: identity.UserID,
		Email:  identity.Email,
		Name:   identity.Name,
	})
	if err != nil {
		handleProfileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProfileResponse(output.Profile))
}

// Update handles PATCH /profile requests.
func (c *ProfileController) Update(ctx *gin.Context) {
	identity, ok := middleware.GetIdentityFromContext(ctx)
	if !ok {
		requireUserID(ctx)
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeInvalidProfileRequest),
			Details: err.Error(),
		})
		return
	}

	input := profile.UpdateProfileInput{
		UserID:          identity.UserID,
		Email:           identity.Email,
		DisplayName:     req.DisplayName,
		MonthlyBudget:   req.MonthlyBudget,
		BudgetAlert:     req.BudgetAlert,
		CategoryBudgets: req.CategoryBudgets,
	}
	if req.Preferences != nil {
		input.Preferences = &profile.PreferencesInput{
			DarkMode:       req.Preferences.DarkMode,
			Notifications:  req.Preferences.Notifications,
			AutoCategories: req.Preferences.AutoCategories,
		}
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleProfileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProfileResponse(output.Profile))
}

// handleProfileError maps profile and budget errors to HTTP responses.
func handleProfileError(ctx *gin.Context, err error) {
	var prfErr *domainerror.ProfileError
	if errors.As(err, &prfErr) {
		status := getStatusCodeForProfileError(prfErr.Code)
		if status == http.StatusInternalServerError {
			respondInternalError(ctx, err)
			return
		}
		ctx.JSON(status, dto.ErrorResponse{
			Error: prfErr.Message,
			Code:  string(prfErr.Code),
		})
		return
	}

	respondInternalError(ctx, err)
}

// getStatusCodeForProfileError maps profile error codes to HTTP status codes.
func getStatusCodeForProfileError(code domainerror.ProfileErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidBudgetAmount,
		domainerror.ErrCodeInvalidBudgetAlert,
		domainerror.ErrCodeUnknownBudgetCategory,
		domainerror.ErrCodeInvalidProfileRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
