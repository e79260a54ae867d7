package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fairprice/fairprice-backend/internal/models"
	"github.com/fairprice/fairprice-backend/internal/repository"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

var asOf = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store    *repository.MemoryStore
	city     models.City
	dadar    models.Market
	vashi    models.Market
	closed   models.Market
	pune     models.Market
	onion    models.Product
	tomato   models.Product
	vendor   Actor
	admin    Actor
	consumer Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()

	f := &fixture{
		store:    store,
		vendor:   Actor{UserID: uuid.New(), Role: models.RoleVendor},
		admin:    Actor{UserID: uuid.New(), Role: models.RoleAdmin},
		consumer: Actor{UserID: uuid.New(), Role: models.RoleConsumer},
	}

	f.city = models.City{Name: "Mumbai", State: "Maharashtra", IsActive: true}
	require.NoError(t, store.CreateCity(ctx, &f.city))
	otherCity := models.City{Name: "Pune", State: "Maharashtra", IsActive: true}
	require.NoError(t, store.CreateCity(ctx, &otherCity))

	f.dadar = models.Market{Name: "Dadar Market", Area: "Dadar", CityID: f.city.ID, IsActive: true}
	f.vashi = models.Market{Name: "Vashi APMC", Area: "Vashi", CityID: f.city.ID, IsActive: true}
	f.closed = models.Market{Name: "Old Market", Area: "Fort", CityID: f.city.ID}
	f.pune = models.Market{Name: "Market Yard", Area: "Gultekdi", CityID: otherCity.ID, IsActive: true}
	for _, m := range []*models.Market{&f.dadar, &f.vashi, &f.closed, &f.pune} {
		require.NoError(t, store.CreateMarket(ctx, m))
	}

	category := models.ProductCategory{Name: "Vegetables"}
	require.NoError(t, store.CreateCategory(ctx, &category))
	f.onion = models.Product{Name: "Onion", CategoryID: category.ID, Unit: "kg", IsActive: true}
	f.tomato = models.Product{Name: "Tomato", CategoryID: category.ID, Unit: "kg", IsActive: true}
	require.NoError(t, store.CreateProduct(ctx, &f.onion))
	require.NoError(t, store.CreateProduct(ctx, &f.tomato))

	return f
}

// addPrice records an entry directly in the ledger with the given status.
func (f *fixture) addPrice(t *testing.T, product models.Product, market models.Market, price string, daysBefore int, status models.PriceStatus) models.PriceEntry {
	t.Helper()
	entry := models.PriceEntry{
		VendorID:     f.vendor.UserID,
		ProductID:    product.ID,
		MarketID:     market.ID,
		PricePerUnit: decimal.RequireFromString(price),
		EntryDate:    utils.AddDays(asOf, -daysBefore),
		Status:       status,
	}
	require.NoError(t, f.store.InsertPrice(context.Background(), &entry))
	return entry
}

func fixedClock() func() time.Time {
	return func() time.Time { return asOf.Add(10 * time.Hour) }
}
