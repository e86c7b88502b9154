package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/backend/internal/domain/entity"
	"github.com/spendwise/backend/internal/integration/entrypoint/dto"
)

// CategoryController serves the fixed category table.
type CategoryController struct{}

// NewCategoryController creates a new category controller instance.
func NewCategoryController() *CategoryController {
	return &CategoryController{}
}

// List handles GET /categories requests.
func (c *CategoryController) List(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToCategoryListResponse(entity.Categories()))
}
