// Package repository defines the storage contracts the services depend on and
// provides a gorm-backed and an in-memory implementation of them.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairprice/fairprice-backend/internal/models"
)

// PriceFilter selects price entries. Nil fields do not constrain the result.
// From is inclusive and Until is exclusive; both are calendar dates.
type PriceFilter struct {
	ProductID *uuid.UUID
	MarketID  *uuid.UUID
	VendorID  *uuid.UUID
	Status    *models.PriceStatus
	EntryDate *time.Time
	From      *time.Time
	Until     *time.Time

	// MarketIDs restricts entries to a set of markets. A non-nil empty slice
	// matches nothing.
	MarketIDs []uuid.UUID

	// Paging; zero Limit returns every match.
	Limit  int
	Offset int
}

// PriceLedger stores price entries and their review state. Results of Find
// are ordered newest first by creation time.
type PriceLedger interface {
	InsertPrice(ctx context.Context, entry *models.PriceEntry) error
	GetPrice(ctx context.Context, id uuid.UUID) (*models.PriceEntry, error)
	FindPrices(ctx context.Context, filter PriceFilter) ([]models.PriceEntry, error)
	CountPrices(ctx context.Context, filter PriceFilter) (int64, error)

	// UpdatePrice changes the unit price of a pending entry owned by vendorID.
	// It returns models.ErrNotFoundOrNotEditable otherwise.
	UpdatePrice(ctx context.Context, id, vendorID uuid.UUID, price decimal.Decimal) (*models.PriceEntry, error)

	// ReviewPrice writes the review field set of an entry in one update,
	// whatever its current status unless review.ExpectedStatus is set. A
	// guarded review of an entry in another status returns
	// models.ErrInvalidTransition.
	ReviewPrice(ctx context.Context, id uuid.UUID, review models.Review) (*models.PriceEntry, error)
}

type MarketFilter struct {
	CityID     *uuid.UUID
	ActiveOnly bool
}

type ProductFilter struct {
	CategoryID *uuid.UUID
	ActiveOnly bool
}

// ReferenceStore holds cities, markets, categories and products.
type ReferenceStore interface {
	CreateCity(ctx context.Context, city *models.City) error
	GetCity(ctx context.Context, id uuid.UUID) (*models.City, error)
	ListCities(ctx context.Context, activeOnly bool) ([]models.City, error)

	CreateMarket(ctx context.Context, market *models.Market) error
	GetMarket(ctx context.Context, id uuid.UUID) (*models.Market, error)
	ListMarkets(ctx context.Context, filter MarketFilter) ([]models.Market, error)

	CreateCategory(ctx context.Context, category *models.ProductCategory) error
	GetCategory(ctx context.Context, id uuid.UUID) (*models.ProductCategory, error)
	ListCategories(ctx context.Context) ([]models.ProductCategory, error)

	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) error
	CreateVendorProfile(ctx context.Context, profile *models.VendorProfile) error
}

type AuditStore interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Store bundles every contract so one backend can be passed around.
type Store interface {
	PriceLedger
	ReferenceStore
	UserStore
	AuditStore
}
