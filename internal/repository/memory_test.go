package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairprice/fairprice-backend/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(sqlDateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newEntry(vendor, product, market uuid.UUID, price string, date string) *models.PriceEntry {
	return &models.PriceEntry{
		VendorID:     vendor,
		ProductID:    product,
		MarketID:     market,
		PricePerUnit: decimal.RequireFromString(price),
		EntryDate:    day(date),
	}
}

func TestInsertPriceDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	entry := newEntry(uuid.New(), uuid.New(), uuid.New(), "40.00", "2026-10-01")
	entry.EntryDate = entry.EntryDate.Add(15 * time.Hour)
	require.NoError(t, store.InsertPrice(ctx, entry))

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, models.PriceStatusPending, entry.Status)
	assert.Equal(t, day("2026-10-01"), entry.EntryDate)

	got, err := store.GetPrice(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, got.PricePerUnit.Equal(decimal.NewFromInt(40)))
	assert.Nil(t, got.ReviewedBy)
}

func TestInsertPriceRejectsBadPrices(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, price := range []string{"0", "-1", "100000", "1.005"} {
		err := store.InsertPrice(ctx, newEntry(uuid.New(), uuid.New(), uuid.New(), price, "2026-10-01"))
		assert.ErrorIs(t, err, models.ErrValidation, price)
	}

	count, err := store.CountPrices(ctx, PriceFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetPriceMissing(t *testing.T) {
	_, err := NewMemoryStore().GetPrice(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFindPricesFilters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	vendor, product, marketA, marketB := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	for _, e := range []*models.PriceEntry{
		newEntry(vendor, product, marketA, "10", "2026-10-01"),
		newEntry(vendor, product, marketA, "11", "2026-10-05"),
		newEntry(vendor, product, marketB, "12", "2026-10-08"),
		newEntry(uuid.New(), uuid.New(), marketA, "13", "2026-10-08"),
	} {
		require.NoError(t, store.InsertPrice(ctx, e))
	}

	from, until := day("2026-10-01"), day("2026-10-08")
	found, err := store.FindPrices(ctx, PriceFilter{ProductID: &product, From: &from, Until: &until})
	require.NoError(t, err)
	require.Len(t, found, 2)
	// newest first
	assert.Equal(t, "11", found[0].PricePerUnit.String())
	assert.Equal(t, "10", found[1].PricePerUnit.String())

	date := day("2026-10-08")
	found, err = store.FindPrices(ctx, PriceFilter{EntryDate: &date})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = store.FindPrices(ctx, PriceFilter{MarketIDs: []uuid.UUID{marketB}})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = store.FindPrices(ctx, PriceFilter{MarketIDs: []uuid.UUID{}})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = store.FindPrices(ctx, PriceFilter{VendorID: &vendor, Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "11", found[0].PricePerUnit.String())

	count, err := store.CountPrices(ctx, PriceFilter{MarketID: &marketA})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestUpdatePriceOnlyPendingOwned(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	vendor := uuid.New()
	entry := newEntry(vendor, uuid.New(), uuid.New(), "40.00", "2026-10-01")
	require.NoError(t, store.InsertPrice(ctx, entry))

	_, err := store.UpdatePrice(ctx, entry.ID, uuid.New(), decimal.NewFromInt(45))
	assert.ErrorIs(t, err, models.ErrNotFoundOrNotEditable)

	_, err = store.UpdatePrice(ctx, entry.ID, vendor, decimal.Zero)
	assert.ErrorIs(t, err, models.ErrValidation)

	updated, err := store.UpdatePrice(ctx, entry.ID, vendor, decimal.RequireFromString("45.50"))
	require.NoError(t, err)
	assert.Equal(t, "45.5", updated.PricePerUnit.String())

	_, err = store.ReviewPrice(ctx, entry.ID, models.Review{
		Status:     models.PriceStatusApproved,
		ReviewerID: uuid.New(),
		ReviewedAt: time.Now(),
	})
	require.NoError(t, err)

	_, err = store.UpdatePrice(ctx, entry.ID, vendor, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, models.ErrNotFoundOrNotEditable)
}

func TestReviewPriceSetsReviewFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	entry := newEntry(uuid.New(), uuid.New(), uuid.New(), "40.00", "2026-10-01")
	require.NoError(t, store.InsertPrice(ctx, entry))

	reviewer := uuid.New()
	at := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)
	reviewed, err := store.ReviewPrice(ctx, entry.ID, models.Review{
		Status:     models.PriceStatusRejected,
		AdminNote:  "too high",
		ReviewerID: reviewer,
		ReviewedAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PriceStatusRejected, reviewed.Status)
	assert.Equal(t, "too high", reviewed.AdminNote)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, reviewer, *reviewed.ReviewedBy)
	assert.Equal(t, at, *reviewed.ReviewedAt)

	_, err = store.ReviewPrice(ctx, uuid.New(), models.Review{Status: models.PriceStatusApproved})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReviewPriceExpectedStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	entry := newEntry(uuid.New(), uuid.New(), uuid.New(), "40.00", "2026-10-01")
	require.NoError(t, store.InsertPrice(ctx, entry))

	pending := models.PriceStatusPending
	_, err := store.ReviewPrice(ctx, entry.ID, models.Review{Status: models.PriceStatusApproved, ExpectedStatus: &pending})
	require.NoError(t, err)

	_, err = store.ReviewPrice(ctx, entry.ID, models.Review{Status: models.PriceStatusRejected, ExpectedStatus: &pending})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	got, err := store.GetPrice(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PriceStatusApproved, got.Status)

	// Without a guard the ledger overwrites any status.
	reviewed, err := store.ReviewPrice(ctx, entry.ID, models.Review{Status: models.PriceStatusRejected})
	require.NoError(t, err)
	assert.Equal(t, models.PriceStatusRejected, reviewed.Status)

	_, err = store.ReviewPrice(ctx, uuid.New(), models.Review{Status: models.PriceStatusApproved, ExpectedStatus: &pending})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReferenceAndUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	city := &models.City{Name: "Mumbai", State: "Maharashtra", IsActive: true}
	require.NoError(t, store.CreateCity(ctx, city))
	assert.ErrorIs(t, store.CreateCity(ctx, &models.City{Name: "mumbai"}), models.ErrAlreadyExists)

	require.NoError(t, store.CreateMarket(ctx, &models.Market{Name: "Dadar", CityID: city.ID, IsActive: true}))
	require.NoError(t, store.CreateMarket(ctx, &models.Market{Name: "Closed", CityID: city.ID}))

	markets, err := store.ListMarkets(ctx, MarketFilter{CityID: &city.ID, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, "Dadar", markets[0].Name)

	product := &models.Product{Name: "Onion"}
	require.NoError(t, store.CreateProduct(ctx, product))
	assert.Equal(t, models.DefaultUnit, product.Unit)

	user := &models.User{FullName: "Asha", Email: "asha@example.com", Role: models.RoleVendor, IsActive: true}
	require.NoError(t, store.CreateUser(ctx, user))
	assert.ErrorIs(t, store.CreateUser(ctx, &models.User{Email: "ASHA@example.com"}), models.ErrAlreadyExists)

	require.NoError(t, store.CreateVendorProfile(ctx, &models.VendorProfile{UserID: user.ID, MarketID: markets[0].ID}))
	got, err := store.GetUserByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, got.VendorProfile)
	assert.Equal(t, markets[0].ID, got.VendorProfile.MarketID)

	require.NoError(t, store.SetUserActive(ctx, user.ID, false))
	got, err = store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.ErrorIs(t, store.SetUserActive(ctx, uuid.New(), true), models.ErrNotFound)
}
