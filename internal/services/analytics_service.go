// internal/services/analytics_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairprice/fairprice-backend/internal/models"
	"github.com/fairprice/fairprice-backend/internal/repository"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

const (
	// SpikeThreshold is the fraction above the moving average at which a
	// daily average counts as a spike.
	SpikeThreshold = 0.20

	DefaultMovingAverageWindow = 7
	DefaultTrendWindow         = 30
	VolatilityWindow           = 30
	DefaultFluctuatingLimit    = 5
	MaxFluctuatingLimit        = 50

	UnknownProductName = "Unknown"
)

// AnalyticsStore is the read surface the analytics engine needs.
type AnalyticsStore interface {
	repository.PriceLedger
	repository.ReferenceStore
}

// AnalyticsService computes read-only aggregates over approved price entries.
// Every method takes the reference date explicitly and keeps no state between
// calls.
type AnalyticsService struct {
	store AnalyticsStore
}

// DailyStats aggregates the unit prices of one calendar day. The price fields
// are nil when Count is zero.
type DailyStats struct {
	Average *float64 `json:"avg_price"`
	Minimum *float64 `json:"min_price"`
	Maximum *float64 `json:"max_price"`
	Count   int      `json:"vendor_count"`
}

type TrendPoint struct {
	EntryDate time.Time
	DailyStats
}

func (p TrendPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EntryDate string `json:"entry_date"`
		DailyStats
	}{
		EntryDate:  p.EntryDate.Format(utils.DateLayout),
		DailyStats: p.DailyStats,
	})
}

type MarketStats struct {
	MarketID      uuid.UUID `json:"market_id"`
	MarketName    string    `json:"market_name"`
	Area          string    `json:"area"`
	MovingAverage *float64  `json:"moving_avg_7d"`
	SpikeAlert    bool      `json:"spike_alert"`
	DailyStats
}

type ProductAnalytics struct {
	ProductID     uuid.UUID    `json:"product_id"`
	MarketID      uuid.UUID    `json:"market_id"`
	ProductName   string       `json:"product_name"`
	Unit          string       `json:"unit"`
	AsOf          string       `json:"as_of"`
	Today         DailyStats   `json:"today"`
	MovingAverage *float64     `json:"moving_avg_7d"`
	SpikeAlert    bool         `json:"spike_alert"`
	Trend         []TrendPoint `json:"trend_30d"`
}

type FluctuatingProduct struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	StdDev      float64   `json:"stddev"`
	Mean        float64   `json:"avg_price"`
	SampleCount int       `json:"sample_count"`
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// DailyStats summarizes approved entries for a product at a market on date.
func (s *AnalyticsService) DailyStats(ctx context.Context, productID, marketID uuid.UUID, date time.Time) (DailyStats, error) {
	date = referenceDay(date)
	entries, err := s.approved(ctx, repository.PriceFilter{
		ProductID: &productID,
		MarketID:  &marketID,
		EntryDate: &date,
	})
	if err != nil {
		return DailyStats{}, err
	}
	return summarize(entries), nil
}

// MovingAverage averages approved prices over [asOf-windowDays, asOf). The
// reference day itself is excluded. A nil result means no data in the window.
func (s *AnalyticsService) MovingAverage(ctx context.Context, productID, marketID uuid.UUID, windowDays int, asOf time.Time) (*float64, error) {
	if windowDays <= 0 {
		windowDays = DefaultMovingAverageWindow
	}
	asOf = referenceDay(asOf)
	from := utils.AddDays(asOf, -windowDays)

	entries, err := s.approved(ctx, repository.PriceFilter{
		ProductID: &productID,
		MarketID:  &marketID,
		From:      &from,
		Until:     &asOf,
	})
	if err != nil {
		return nil, err
	}
	return summarize(entries).Average, nil
}

// IsSpike reports whether today exceeds the moving average by more than
// threshold. Missing data never counts as a spike.
func IsSpike(today, movingAverage *float64, threshold float64) bool {
	if today == nil || movingAverage == nil {
		return false
	}
	return *today > *movingAverage*(1+threshold)
}

// Trend returns one point per day with approved entries in
// [asOf-windowDays, asOf], oldest first. Days without data are omitted.
func (s *AnalyticsService) Trend(ctx context.Context, productID, marketID uuid.UUID, windowDays int, asOf time.Time) ([]TrendPoint, error) {
	if windowDays <= 0 {
		windowDays = DefaultTrendWindow
	}
	asOf = referenceDay(asOf)
	from := utils.AddDays(asOf, -windowDays)
	until := utils.AddDays(asOf, 1)

	entries, err := s.approved(ctx, repository.PriceFilter{
		ProductID: &productID,
		MarketID:  &marketID,
		From:      &from,
		Until:     &until,
	})
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]models.PriceEntry)
	for _, entry := range entries {
		key := entry.EntryDate.Format(utils.DateLayout)
		byDate[key] = append(byDate[key], entry)
	}

	points := make([]TrendPoint, 0, len(byDate))
	for _, group := range byDate {
		points = append(points, TrendPoint{EntryDate: group[0].EntryDate, DailyStats: summarize(group)})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].EntryDate.Before(points[j].EntryDate)
	})
	return points, nil
}

// AllMarketsForProduct returns one row per active market, optionally limited
// to a city, whether or not the market has any data for the product.
func (s *AnalyticsService) AllMarketsForProduct(ctx context.Context, productID uuid.UUID, cityID *uuid.UUID, asOf time.Time) ([]MarketStats, error) {
	asOf = referenceDay(asOf)
	day := asOf.Format(utils.DateLayout)

	markets, err := s.store.ListMarkets(ctx, repository.MarketFilter{CityID: cityID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	if len(markets) == 0 {
		return []MarketStats{}, nil
	}

	marketIDs := make([]uuid.UUID, 0, len(markets))
	for _, market := range markets {
		marketIDs = append(marketIDs, market.ID)
	}

	// One scan covers the moving-average window and the reference day for
	// every market; rows are split per market afterwards.
	from := utils.AddDays(asOf, -DefaultMovingAverageWindow)
	until := utils.AddDays(asOf, 1)
	entries, err := s.approved(ctx, repository.PriceFilter{
		ProductID: &productID,
		MarketIDs: marketIDs,
		From:      &from,
		Until:     &until,
	})
	if err != nil {
		return nil, err
	}

	today := make(map[uuid.UUID][]models.PriceEntry)
	window := make(map[uuid.UUID][]models.PriceEntry)
	for _, entry := range entries {
		if entry.EntryDate.Format(utils.DateLayout) == day {
			today[entry.MarketID] = append(today[entry.MarketID], entry)
		} else {
			window[entry.MarketID] = append(window[entry.MarketID], entry)
		}
	}

	rows := make([]MarketStats, 0, len(markets))
	for _, market := range markets {
		stats := summarize(today[market.ID])
		movingAverage := summarize(window[market.ID]).Average
		rows = append(rows, MarketStats{
			MarketID:      market.ID,
			MarketName:    market.Name,
			Area:          market.Area,
			MovingAverage: movingAverage,
			SpikeAlert:    IsSpike(stats.Average, movingAverage, SpikeThreshold),
			DailyStats:    stats,
		})
	}
	return rows, nil
}

// MostFluctuating ranks products by the standard deviation of their approved
// prices over [asOf-30, asOf], highest first. A product with one sample or a
// constant price has deviation 0; a product with no samples is left out.
func (s *AnalyticsService) MostFluctuating(ctx context.Context, cityID *uuid.UUID, limit int, asOf time.Time) ([]FluctuatingProduct, error) {
	if limit <= 0 {
		limit = DefaultFluctuatingLimit
	}
	if limit > MaxFluctuatingLimit {
		limit = MaxFluctuatingLimit
	}
	asOf = referenceDay(asOf)

	from := utils.AddDays(asOf, -VolatilityWindow)
	until := utils.AddDays(asOf, 1)
	filter := repository.PriceFilter{From: &from, Until: &until}

	if cityID != nil {
		// Entries from markets that were later deactivated still count.
		markets, err := s.store.ListMarkets(ctx, repository.MarketFilter{CityID: cityID})
		if err != nil {
			return nil, fmt.Errorf("failed to list markets: %w", err)
		}
		filter.MarketIDs = make([]uuid.UUID, 0, len(markets))
		for _, market := range markets {
			filter.MarketIDs = append(filter.MarketIDs, market.ID)
		}
	}

	entries, err := s.approved(ctx, filter)
	if err != nil {
		return nil, err
	}

	samples := make(map[uuid.UUID][]float64)
	for _, entry := range entries {
		samples[entry.ProductID] = append(samples[entry.ProductID], entry.PricePerUnit.InexactFloat64())
	}

	ranked := make([]FluctuatingProduct, 0, len(samples))
	for productID, prices := range samples {
		mean, stddev := meanStdDev(prices)
		ranked = append(ranked, FluctuatingProduct{
			ProductID:   productID,
			StdDev:      stddev,
			Mean:        mean,
			SampleCount: len(prices),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].StdDev != ranked[j].StdDev {
			return ranked[i].StdDev > ranked[j].StdDev
		}
		return ranked[i].ProductID.String() < ranked[j].ProductID.String()
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	for i := range ranked {
		product, err := s.lookupProduct(ctx, ranked[i].ProductID)
		if err != nil {
			return nil, err
		}
		ranked[i].ProductName = product.Name
	}
	return ranked, nil
}

// ProductAnalytics bundles the reference-day stats, moving average, spike
// flag and trend for one product at one market.
func (s *AnalyticsService) ProductAnalytics(ctx context.Context, productID, marketID uuid.UUID, asOf time.Time) (*ProductAnalytics, error) {
	asOf = referenceDay(asOf)
	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	today, err := s.DailyStats(ctx, productID, marketID, asOf)
	if err != nil {
		return nil, err
	}
	movingAverage, err := s.MovingAverage(ctx, productID, marketID, DefaultMovingAverageWindow, asOf)
	if err != nil {
		return nil, err
	}
	trend, err := s.Trend(ctx, productID, marketID, DefaultTrendWindow, asOf)
	if err != nil {
		return nil, err
	}

	return &ProductAnalytics{
		ProductID:     productID,
		MarketID:      marketID,
		ProductName:   product.Name,
		Unit:          product.Unit,
		AsOf:          asOf.Format(utils.DateLayout),
		Today:         today,
		MovingAverage: movingAverage,
		SpikeAlert:    IsSpike(today.Average, movingAverage, SpikeThreshold),
		Trend:         trend,
	}, nil
}

// referenceDay reduces t to its calendar day in t's own location, as UTC
// midnight, so every window boundary is a whole day.
func referenceDay(t time.Time) time.Time {
	return utils.DateOf(t, t.Location())
}

func (s *AnalyticsService) approved(ctx context.Context, filter repository.PriceFilter) ([]models.PriceEntry, error) {
	status := models.PriceStatusApproved
	filter.Status = &status
	filter.Limit, filter.Offset = 0, 0

	entries, err := s.store.FindPrices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved prices: %w", err)
	}
	return entries, nil
}

// lookupProduct returns display fields for a product. A missing product
// yields placeholder values instead of an error.
func (s *AnalyticsService) lookupProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return &models.Product{Name: UnknownProductName, Unit: models.DefaultUnit}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product.Unit == "" {
		product.Unit = models.DefaultUnit
	}
	return product, nil
}

func summarize(entries []models.PriceEntry) DailyStats {
	if len(entries) == 0 {
		return DailyStats{}
	}

	sum := decimal.Zero
	minimum := entries[0].PricePerUnit
	maximum := entries[0].PricePerUnit
	for _, entry := range entries {
		sum = sum.Add(entry.PricePerUnit)
		minimum = decimal.Min(minimum, entry.PricePerUnit)
		maximum = decimal.Max(maximum, entry.PricePerUnit)
	}
	average := sum.Div(decimal.NewFromInt(int64(len(entries))))

	return DailyStats{
		Average: floatPtr(average),
		Minimum: floatPtr(minimum),
		Maximum: floatPtr(maximum),
		Count:   len(entries),
	}
}

// meanStdDev returns the mean and sample standard deviation of values.
func meanStdDev(values []float64) (float64, float64) {
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if len(values) < 2 {
		return mean, 0
	}

	var squares float64
	for _, v := range values {
		squares += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(squares / (n - 1))
}

func floatPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}
