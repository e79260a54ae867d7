// internal/handlers/analytics.go
package handlers

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fairprice/fairprice-backend/internal/i18n"
	"github.com/fairprice/fairprice-backend/internal/services"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

const maxWindowDays = 365

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	location         *time.Location
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService, location *time.Location) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		location:         location,
	}
}

// GET /analytics/product/:product_id/market/:market_id
func (h *AnalyticsHandler) ProductMarket(c *gin.Context) {
	productID, marketID, asOf, ok := h.productMarketParams(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.ProductAnalytics(c.Request.Context(), productID, marketID, asOf)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, result)
}

// GET /analytics/product/:product_id/market/:market_id/daily
func (h *AnalyticsHandler) Daily(c *gin.Context) {
	productID, marketID, asOf, ok := h.productMarketParams(c)
	if !ok {
		return
	}

	stats, err := h.analyticsService.DailyStats(c.Request.Context(), productID, marketID, asOf)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"entry_date":   asOf.Format(utils.DateLayout),
		"avg_price":    stats.Average,
		"min_price":    stats.Minimum,
		"max_price":    stats.Maximum,
		"vendor_count": stats.Count,
	})
}

// GET /analytics/product/:product_id/market/:market_id/moving-average?window=
func (h *AnalyticsHandler) MovingAverage(c *gin.Context) {
	productID, marketID, asOf, ok := h.productMarketParams(c)
	if !ok {
		return
	}
	window, ok := intQuery(c, "window", services.DefaultMovingAverageWindow, maxWindowDays)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	movingAverage, err := h.analyticsService.MovingAverage(ctx, productID, marketID, window, asOf)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyProductNotFound)
		return
	}
	today, err := h.analyticsService.DailyStats(ctx, productID, marketID, asOf)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyProductNotFound)
		return
	}

	// Spikes are always measured against the 7-day average.
	spikeBase := movingAverage
	if window != services.DefaultMovingAverageWindow {
		spikeBase, err = h.analyticsService.MovingAverage(ctx, productID, marketID, services.DefaultMovingAverageWindow, asOf)
		if err != nil {
			utils.ServiceErrorResponse(c, err, i18n.KeyProductNotFound)
			return
		}
	}

	utils.SuccessResponse(c, gin.H{
		"as_of":          asOf.Format(utils.DateLayout),
		"window_days":    window,
		"moving_average": movingAverage,
		"today_avg":      today.Average,
		"spike_alert":    services.IsSpike(today.Average, spikeBase, services.SpikeThreshold),
	})
}

// GET /analytics/product/:product_id/market/:market_id/trend?window=
func (h *AnalyticsHandler) Trend(c *gin.Context) {
	productID, marketID, asOf, ok := h.productMarketParams(c)
	if !ok {
		return
	}
	window, ok := intQuery(c, "window", services.DefaultTrendWindow, maxWindowDays)
	if !ok {
		return
	}

	points, err := h.analyticsService.Trend(c.Request.Context(), productID, marketID, window, asOf)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, points)
}

// GET /analytics/product/:product_id/all-markets?city_id=
func (h *AnalyticsHandler) AllMarkets(c *gin.Context) {
	productID, ok := uuidParam(c, "product_id", "product")
	if !ok {
		return
	}
	cityID, ok := optionalUUIDQuery(c, "city_id", "city")
	if !ok {
		return
	}
	asOf, ok := dateQuery(c, "as_of", utils.Today(h.location))
	if !ok {
		return
	}

	rows, err := h.analyticsService.AllMarketsForProduct(c.Request.Context(), productID, cityID, asOf)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, rows)
}

// GET /analytics/fluctuating-products?city_id=&limit=
func (h *AnalyticsHandler) Fluctuating(c *gin.Context) {
	cityID, ok := optionalUUIDQuery(c, "city_id", "city")
	if !ok {
		return
	}
	// Oversized limits are capped by the service.
	limit, ok := intQuery(c, "limit", services.DefaultFluctuatingLimit, math.MaxInt32)
	if !ok {
		return
	}
	asOf, ok := dateQuery(c, "as_of", utils.Today(h.location))
	if !ok {
		return
	}

	ranked, err := h.analyticsService.MostFluctuating(c.Request.Context(), cityID, limit, asOf)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, ranked)
}

func (h *AnalyticsHandler) productMarketParams(c *gin.Context) (uuid.UUID, uuid.UUID, time.Time, bool) {
	productID, ok := uuidParam(c, "product_id", "product")
	if !ok {
		return uuid.Nil, uuid.Nil, time.Time{}, false
	}
	marketID, ok := uuidParam(c, "market_id", "market")
	if !ok {
		return uuid.Nil, uuid.Nil, time.Time{}, false
	}
	asOf, ok := dateQuery(c, "as_of", utils.Today(h.location))
	if !ok {
		return uuid.Nil, uuid.Nil, time.Time{}, false
	}
	return productID, marketID, asOf, true
}

// intQuery reads a positive integer query parameter bounded by max.
func intQuery(c *gin.Context, name string, fallback, max int) (int, bool) {
	value := c.Query(name)
	if value == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > max {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, name), nil)
		return 0, false
	}
	return n, true
}
