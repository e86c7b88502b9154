package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/entrypoint/dto"
	"github.com/spendwise/backend/internal/integration/entrypoint/middleware"
)

// requireUserID reads the authenticated user, replying 401 when it is absent.
func requireUserID(ctx *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return "", false
	}
	return userID, true
}

func respondInternalError(ctx *gin.Context, err error) {
	slog.Error("Request failed",
		"error", err,
		"method", ctx.Request.Method,
		"path", ctx.FullPath(),
	)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
