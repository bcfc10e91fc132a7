package handler

import (
	"errors"
	"net/http"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// PostAnalysis godoc
// @Summary      Run a full sentiment analysis
// @Description  Fetches coin overview, recent discussion, sentiment advisory, price history, and the optional price alert
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body  domain.AnalysisRequest  true  "Analysis selection"
// @Success      200  {object}  domain.AnalysisReport
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/analysis [post]
func (h *Handler) PostAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.post-analysis")
	defer span.End()

	var req domain.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	span.SetAttributes(
		attribute.String("coin_id", req.CoinID),
		attribute.Int("days", req.Days),
	)

	report, err := h.analysis.Analyze(ctx, req)
	switch {
	case errors.Is(err, service.ErrInvalidWindow):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             err.Error(),
			"supported_windows": domain.SupportedWindows,
		})
		return
	case errors.Is(err, service.ErrUnknownCoin):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
