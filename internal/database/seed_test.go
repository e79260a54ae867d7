package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairprice/fairprice-backend/internal/models"
	"github.com/fairprice/fairprice-backend/internal/repository"
)

func TestSeedMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	require.NoError(t, Seed(ctx, store, today))

	markets, err := store.ListMarkets(ctx, repository.MarketFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, markets, 6)

	products, err := store.ListProducts(ctx, repository.ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, products, len(seedProducts))

	approved := models.PriceStatusApproved
	count, err := store.CountPrices(ctx, repository.PriceFilter{Status: &approved})
	require.NoError(t, err)
	assert.EqualValues(t, seedHistoryDays*len(seedProducts)*2*3, count)

	pending := models.PriceStatusPending
	count, err = store.CountPrices(ctx, repository.PriceFilter{Status: &pending, EntryDate: &today})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	admin, err := store.GetUserByEmail(ctx, "admin@fairprice.in")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, admin.CheckPassword("admin123"))

	vendor, err := store.GetUserByEmail(ctx, "vendor1@fairprice.in")
	require.NoError(t, err)
	require.NotNil(t, vendor.VendorProfile)

	// second run is a no-op
	require.NoError(t, Seed(ctx, store, today))
	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5)
}
