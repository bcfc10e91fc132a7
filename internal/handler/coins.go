package handler

import (
	"net/http"
	"strconv"

	"cryptopulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetCoins godoc
// @Summary      List all known coins
// @Description  Returns the cached catalog mapping coin ids to symbols
// @Tags         coins
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/coins [get]
func (h *Handler) GetCoins(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-coins")
	defer span.End()

	coins, err := h.market.GetCoins(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"coins": coins, "count": len(coins)})
}

// GetCoin godoc
// @Summary      Get coin overview
// @Description  Returns metadata for one coin; coin is null when the upstream fetch failed
// @Tags         coins
// @Produce      json
// @Param        id  path  string  true  "Coin id (e.g., bitcoin)"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/coins/{id} [get]
func (h *Handler) GetCoin(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-coin")
	defer span.End()

	coinID := c.Param("id")
	span.SetAttributes(attribute.String("coin_id", coinID))

	info := h.market.GetCoinInfo(ctx, coinID)
	if info == nil {
		c.JSON(http.StatusOK, gin.H{
			"coin":    nil,
			"message": "coin information is currently unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"coin": info})
}

// GetChart godoc
// @Summary      Get daily price history
// @Description  Returns daily USD prices for the trailing window; an empty series means no data
// @Tags         coins
// @Produce      json
// @Param        id    path   string  true   "Coin id (e.g., bitcoin)"
// @Param        days  query  int     false  "Window in days (1, 7, 30, 90, 180, 365)"  default(7)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/coins/{id}/chart [get]
func (h *Handler) GetChart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-chart")
	defer span.End()

	coinID := c.Param("id")
	span.SetAttributes(attribute.String("coin_id", coinID))

	days := 7
	if d := c.Query("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = n
	}
	if !domain.ValidWindow(days) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "unsupported window: " + strconv.Itoa(days),
			"supported_windows": domain.SupportedWindows,
		})
		return
	}

	series := h.market.GetChart(ctx, coinID, days)
	c.JSON(http.StatusOK, gin.H{
		"coin_id": coinID,
		"days":    days,
		"series":  series,
	})
}
