package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairprice/fairprice-backend/internal/models"
)

func float(v float64) *float64 { return &v }

func TestDailyStatsNoData(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store)

	stats, err := svc.DailyStats(context.Background(), f.onion.ID, f.dadar.ID, asOf)
	require.NoError(t, err)
	assert.Equal(t, DailyStats{}, stats)
	assert.Nil(t, stats.Average)
	assert.Nil(t, stats.Minimum)
	assert.Nil(t, stats.Maximum)
	assert.Zero(t, stats.Count)
}

func TestDailyStatsOnlyApproved(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store)

	f.addPrice(t, f.onion, f.dadar, "30.00", 0, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.dadar, "40.50", 0, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.dadar, "500", 0, models.PriceStatusPending)
	f.addPrice(t, f.onion, f.dadar, "1", 0, models.PriceStatusRejected)
	f.addPrice(t, f.onion, f.dadar, "99", 1, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.vashi, "99", 0, models.PriceStatusApproved)

	stats, err := svc.DailyStats(context.Background(), f.onion.ID, f.dadar.ID, asOf)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 35.25, *stats.Average, 1e-9)
	assert.InDelta(t, 30.0, *stats.Minimum, 1e-9)
	assert.InDelta(t, 40.5, *stats.Maximum, 1e-9)
}

func TestMovingAverageExcludesReferenceDay(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store)
	ctx := context.Background()

	ma, err := svc.MovingAverage(ctx, f.onion.ID, f.dadar.ID, 7, asOf)
	require.NoError(t, err)
	assert.Nil(t, ma)

	f.addPrice(t, f.onion, f.dadar, "1000", 0, models.PriceStatusApproved)
	ma, err = svc.MovingAverage(ctx, f.onion.ID, f.dadar.ID, 7, asOf)
	require.NoError(t, err)
	assert.Nil(t, ma)

	f.addPrice(t, f.onion, f.dadar, "20", 7, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.dadar, "40", 1, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.dadar, "9999", 8, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.dadar, "9999", 3, models.PriceStatusPending)

	ma, err = svc.MovingAverage(ctx, f.onion.ID, f.dadar.ID, 7, asOf)
	require.NoError(t, err)
	require.NotNil(t, ma)
	assert.InDelta(t, 30.0, *ma, 1e-9)

	// zero window falls back to seven days
	ma, err = svc.MovingAverage(ctx, f.onion.ID, f.dadar.ID, 0, asOf)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, *ma, 1e-9)
}

func TestIsSpike(t *testing.T) {
	assert.True(t, IsSpike(float(100), float(80), SpikeThreshold))
	assert.False(t, IsSpike(float(95), float(80), SpikeThreshold))
	assert.False(t, IsSpike(float(96), float(80), SpikeThreshold))
	assert.False(t, IsSpike(float(100), nil, SpikeThreshold))
	assert.False(t, IsSpike(nil, float(80), SpikeThreshold))
	assert.False(t, IsSpike(nil, nil, SpikeThreshold))
}

func TestTrendIsSparseAndAscending(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store)

	f.addPrice(t, f.onion, f.dadar, "20", 3, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.dadar, "30", 3, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.dadar, "10", 30, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.dadar, "99", 31, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.dadar, "99", 10, models.PriceStatusPending)

	points, err := svc.Trend(context.Background(), f.onion.ID, f.dadar.ID, 30, asOf)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "2026-09-18", points[0].EntryDate.Format("2006-01-02"))
	assert.Equal(t, 1, points[0].Count)
	assert.InDelta(t, 10.0, *points[0].Average, 1e-9)

	assert.Equal(t, "2026-10-15", points[1].EntryDate.Format("2006-01-02"))
	assert.Equal(t, 2, points[1].Count)
	assert.InDelta(t, 25.0, *points[1].Average, 1e-9)
	assert.InDelta(t, 20.0, *points[1].Minimum, 1e-9)
	assert.InDelta(t, 30.0, *points[1].Maximum, 1e-9)
}

func TestTrendIncludesReferenceDay(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store)

	f.addPrice(t, f.onion, f.dadar, "20", 0, models.PriceStatusApproved)

	points, err := svc.Trend(context.Background(), f.onion.ID, f.dadar.ID, 0, asOf)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.True(t, points[0].EntryDate.Equal(asOf))

	raw, err := json.Marshal(points[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"entry_date":"2026-10-18","avg_price":20,"min_price":20,"max_price":20,"vendor_count":1}`, string(raw))
}

func TestAllMarketsForProduct(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store)
	ctx := context.Background()

	for d := 1; d <= 7; d++ {
		f.addPrice(t, f.onion, f.dadar, "100", d, models.PriceStatusApproved)
	}
	f.addPrice(t, f.onion, f.dadar, "130", 0, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.closed, "10", 0, models.PriceStatusApproved)

	rows, err := svc.AllMarketsForProduct(ctx, f.onion.ID, &f.city.ID, asOf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byMarket := map[uuid.UUID]MarketStats{}
	for _, row := range rows {
		byMarket[row.MarketID] = row
	}

	dadar := byMarket[f.dadar.ID]
	assert.Equal(t, "Dadar Market", dadar.MarketName)
	assert.Equal(t, "Dadar", dadar.Area)
	assert.Equal(t, 1, dadar.Count)
	assert.InDelta(t, 130.0, *dadar.Average, 1e-9)
	assert.InDelta(t, 100.0, *dadar.MovingAverage, 1e-9)
	assert.True(t, dadar.SpikeAlert)

	vashi, ok := byMarket[f.vashi.ID]
	require.True(t, ok)
	assert.Zero(t, vashi.Count)
	assert.Nil(t, vashi.Average)
	assert.Nil(t, vashi.MovingAverage)
	assert.False(t, vashi.SpikeAlert)

	rows, err = svc.AllMarketsForProduct(ctx, f.onion.ID, nil, asOf)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	unknownCity := uuid.New()
	rows, err = svc.AllMarketsForProduct(ctx, f.onion.ID, &unknownCity, asOf)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAnalyticsReferenceTimeWithinDay(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store)
	ctx := context.Background()

	for d := 1; d <= 7; d++ {
		f.addPrice(t, f.onion, f.dadar, "100", d, models.PriceStatusApproved)
	}
	f.addPrice(t, f.onion, f.dadar, "130", 0, models.PriceStatusApproved)

	references := map[string]time.Time{
		"utc morning":  asOf.Add(10 * time.Hour),
		"ist midnight": time.Date(2026, 10, 18, 0, 0, 0, 0, time.FixedZone("IST", 19800)),
	}
	for name, ref := range references {
		t.Run(name, func(t *testing.T) {
			today, err := svc.DailyStats(ctx, f.onion.ID, f.dadar.ID, ref)
			require.NoError(t, err)
			assert.Equal(t, 1, today.Count)

			movingAverage, err := svc.MovingAverage(ctx, f.onion.ID, f.dadar.ID, 7, ref)
			require.NoError(t, err)
			require.NotNil(t, movingAverage)
			assert.InDelta(t, 100.0, *movingAverage, 1e-9)

			rows, err := svc.AllMarketsForProduct(ctx, f.onion.ID, &f.city.ID, ref)
			require.NoError(t, err)
			var dadar MarketStats
			for _, row := range rows {
				if row.MarketID == f.dadar.ID {
					dadar = row
				}
			}
			assert.Equal(t, today.Count, dadar.Count)
			require.NotNil(t, dadar.MovingAverage)
			assert.InDelta(t, *movingAverage, *dadar.MovingAverage, 1e-9)
			assert.True(t, dadar.SpikeAlert)

			bundle, err := svc.ProductAnalytics(ctx, f.onion.ID, f.dadar.ID, ref)
			require.NoError(t, err)
			assert.Equal(t, "2026-10-18", bundle.AsOf)
			assert.True(t, bundle.SpikeAlert)
			assert.Len(t, bundle.Trend, 8)
		})
	}
}

func TestMostFluctuating(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store)
	ctx := context.Background()

	f.addPrice(t, f.onion, f.dadar, "10", 1, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.dadar, "20", 2, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.vashi, "30", 30, models.PriceStatusApproved)
	f.addPrice(t, f.onion, f.vashi, "500", 31, models.PriceStatusApproved)

	f.addPrice(t, f.tomato, f.pune, "40", 0, models.PriceStatusApproved)

	pendingOnly := models.Product{Name: "Garlic", IsActive: true}
	require.NoError(t, f.store.CreateProduct(ctx, &pendingOnly))
	f.addPrice(t, pendingOnly, f.dadar, "10", 1, models.PriceStatusPending)
	f.addPrice(t, pendingOnly, f.dadar, "90", 2, models.PriceStatusRejected)

	ranked, err := svc.MostFluctuating(ctx, nil, 0, asOf)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, f.onion.ID, ranked[0].ProductID)
	assert.Equal(t, "Onion", ranked[0].ProductName)
	assert.InDelta(t, 10.0, ranked[0].StdDev, 1e-9)
	assert.InDelta(t, 20.0, ranked[0].Mean, 1e-9)
	assert.Equal(t, 3, ranked[0].SampleCount)

	assert.Equal(t, f.tomato.ID, ranked[1].ProductID)
	assert.Zero(t, ranked[1].StdDev)
	assert.Equal(t, 1, ranked[1].SampleCount)

	ranked, err = svc.MostFluctuating(ctx, nil, 1, asOf)
	require.NoError(t, err)
	assert.Len(t, ranked, 1)

	ranked, err = svc.MostFluctuating(ctx, &f.city.ID, 5, asOf)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, f.onion.ID, ranked[0].ProductID)
}

func TestMostFluctuatingCountsInactiveMarketsInCity(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store)

	f.addPrice(t, f.tomato, f.closed, "10", 1, models.PriceStatusApproved)
	f.addPrice(t, f.tomato, f.closed, "14", 2, models.PriceStatusApproved)

	ranked, err := svc.MostFluctuating(context.Background(), &f.city.ID, 5, asOf)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, f.tomato.ID, ranked[0].ProductID)
}

func TestMostFluctuatingUnknownProduct(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store)

	ghost := models.Product{BaseModel: models.BaseModel{ID: uuid.New()}}
	f.addPrice(t, ghost, f.dadar, "10", 1, models.PriceStatusApproved)

	ranked, err := svc.MostFluctuating(context.Background(), nil, 5, asOf)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, UnknownProductName, ranked[0].ProductName)
}

func TestProductAnalytics(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store)
	ctx := context.Background()

	for d := 1; d <= 7; d++ {
		f.addPrice(t, f.onion, f.dadar, "100", d, models.PriceStatusApproved)
	}
	f.addPrice(t, f.onion, f.dadar, "130", 0, models.PriceStatusApproved)

	result, err := svc.ProductAnalytics(ctx, f.onion.ID, f.dadar.ID, asOf)
	require.NoError(t, err)
	assert.Equal(t, "Onion", result.ProductName)
	assert.Equal(t, "kg", result.Unit)
	assert.Equal(t, "2026-10-18", result.AsOf)
	assert.InDelta(t, 130.0, *result.Today.Average, 1e-9)
	assert.InDelta(t, 100.0, *result.MovingAverage, 1e-9)
	assert.True(t, result.SpikeAlert)
	assert.Len(t, result.Trend, 8)

	result, err = svc.ProductAnalytics(ctx, uuid.New(), f.dadar.ID, asOf)
	require.NoError(t, err)
	assert.Equal(t, UnknownProductName, result.ProductName)
	assert.Equal(t, models.DefaultUnit, result.Unit)
	assert.Zero(t, result.Today.Count)
	assert.Empty(t, result.Trend)
	assert.False(t, result.SpikeAlert)
}
