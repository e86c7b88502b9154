package controller

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/backend/internal/application/usecase/analytics"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/entrypoint/dto"
)

const (
	// AnalyticsEvent is the SSE event name carrying an analytics payload.
	AnalyticsEvent = "analytics"
	// HeartbeatEvent keeps idle streams open through proxies.
	HeartbeatEvent = "heartbeat"

	defaultHeartbeatInterval = 25 * time.Second
)

// AnalyticsController handles analytics endpoints.
type AnalyticsController struct {
	getUseCase       *analytics.GetAnalyticsUseCase
	watchUseCase     *analytics.WatchAnalyticsUseCase
	dataRangeUseCase *analytics.GetDataRangeUseCase
	heartbeat        time.Duration
}

// NewAnalyticsController creates a new analytics controller instance.
// A non-positive heartbeat uses the default interval.
func NewAnalyticsController(
	getUseCase *analytics.GetAnalyticsUseCase,
	watchUseCase *analytics.WatchAnalyticsUseCase,
	dataRangeUseCase *analytics.GetDataRangeUseCase,
	heartbeat time.Duration,
) *AnalyticsController {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatInterval
	}
	return &AnalyticsController{
		getUseCase:       getUseCase,
		watchUseCase:     watchUseCase,
		dataRangeUseCase: dataRangeUseCase,
		heartbeat:        heartbeat,
	}
}

// Get handles GET /analytics requests.
func (c *AnalyticsController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), analytics.GetAnalyticsInput{
		UserID:    userID,
		Timeframe: ctx.Query("timeframe"),
	})
	if err != nil {
		c.handleAnalyticsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AnalyticsResponse{Data: dto.ToAnalyticsData(output.Result)})
}

// Stream handles GET /analytics/stream requests. It emits a fresh analytics
// event whenever the user's expenses change, until the client disconnects.
func (c *AnalyticsController) Stream(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	results, err := c.watchUseCase.Execute(ctx.Request.Context(), analytics.WatchAnalyticsInput{
		UserID:    userID,
		Timeframe: ctx.Query("timeframe"),
	})
	if err != nil {
		c.handleAnalyticsError(ctx, err)
		return
	}

	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(c.heartbeat)
	defer heartbeat.Stop()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case result, ok := <-results:
			if !ok {
				return false
			}
			ctx.SSEvent(AnalyticsEvent, dto.ToAnalyticsData(result))
			return true
		case t := <-heartbeat.C:
			ctx.SSEvent(HeartbeatEvent, t.UTC().Format(time.RFC3339))
			return true
		}
	})
}

// DataRange handles GET /analytics/range requests.
func (c *AnalyticsController) DataRange(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.dataRangeUseCase.Execute(ctx.Request.Context(), analytics.GetDataRangeInput{UserID: userID})
	if err != nil {
		c.handleAnalyticsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DataRangeResponse{Data: output})
}

// handleAnalyticsError maps analytics errors to HTTP responses.
func (c *AnalyticsController) handleAnalyticsError(ctx *gin.Context, err error) {
	var anlErr *domainerror.AnalyticsError
	if errors.As(err, &anlErr) && anlErr.Code == domainerror.ErrCodeInvalidTimeframe {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: anlErr.Message,
			Code:  string(anlErr.Code),
		})
		return
	}

	respondInternalError(ctx, err)
}
