package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/backend/internal/application/usecase/budget"
	"github.com/spendwise/backend/internal/integration/entrypoint/dto"
)

// BudgetController handles budget endpoints.
type BudgetController struct {
	statusUseCase *budget.GetBudgetStatusUseCase
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(statusUseCase *budget.GetBudgetStatusUseCase) *BudgetController {
	return &BudgetController{
		statusUseCase: statusUseCase,
	}
}

// Status handles GET /budget requests.
func (c *BudgetController) Status(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.statusUseCase.Execute(ctx.Request.Context(), budget.GetBudgetStatusInput{UserID: userID})
	if err != nil {
		handleProfileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.BudgetStatusResponse{Data: output})
}
