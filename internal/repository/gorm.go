package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fairprice/fairprice-backend/internal/models"
)

const sqlDateLayout = "2006-01-02"

// GormStore persists through gorm. The *gorm.DB is expected to be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying handle for migrations and transactions.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ErrAlreadyExists
	}
	return err
}

// Price ledger

func (s *GormStore) InsertPrice(ctx context.Context, entry *models.PriceEntry) error {
	if err := models.ValidatePrice(entry.PricePerUnit); err != nil {
		return err
	}
	if entry.Status == "" {
		entry.Status = models.PriceStatusPending
	}
	entry.EntryDate = calendarDate(entry.EntryDate)

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to insert price entry: %w", translate(err))
	}
	return nil
}

func (s *GormStore) GetPrice(ctx context.Context, id uuid.UUID) (*models.PriceEntry, error) {
	var entry models.PriceEntry
	err := s.db.WithContext(ctx).
		Preload("Product").Preload("Market").
		First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (s *GormStore) FindPrices(ctx context.Context, filter PriceFilter) ([]models.PriceEntry, error) {
	if filter.MarketIDs != nil && len(filter.MarketIDs) == 0 {
		return []models.PriceEntry{}, nil
	}

	query := applyPriceFilter(s.db.WithContext(ctx).Model(&models.PriceEntry{}), filter).
		Preload("Product").Preload("Market").
		Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var entries []models.PriceEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to query price entries: %w", err)
	}
	return entries, nil
}

func (s *GormStore) CountPrices(ctx context.Context, filter PriceFilter) (int64, error) {
	if filter.MarketIDs != nil && len(filter.MarketIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := applyPriceFilter(s.db.WithContext(ctx).Model(&models.PriceEntry{}), filter).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count price entries: %w", err)
	}
	return count, nil
}

func (s *GormStore) UpdatePrice(ctx context.Context, id, vendorID uuid.UUID, price decimal.Decimal) (*models.PriceEntry, error) {
	if err := models.ValidatePrice(price); err != nil {
		return nil, err
	}

	// The ownership and status guard is part of the statement so a concurrent
	// review cannot slip in between a read and the write.
	result := s.db.WithContext(ctx).Model(&models.PriceEntry{}).
		Where("id = ? AND vendor_id = ? AND status = ?", id, vendorID, models.PriceStatusPending).
		Updates(map[string]interface{}{
			"price_per_unit": price,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update price entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrNotFoundOrNotEditable
	}
	return s.GetPrice(ctx, id)
}

func (s *GormStore) ReviewPrice(ctx context.Context, id uuid.UUID, review models.Review) (*models.PriceEntry, error) {
	query := s.db.WithContext(ctx).Model(&models.PriceEntry{}).Where("id = ?", id)
	if review.ExpectedStatus != nil {
		query = query.Where("status = ?", *review.ExpectedStatus)
	}
	result := query.Updates(map[string]interface{}{
		"status":      review.Status,
		"admin_note":  review.AdminNote,
		"reviewed_by": review.ReviewerID,
		"reviewed_at": review.ReviewedAt,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to review price entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if review.ExpectedStatus == nil {
			return nil, models.ErrNotFound
		}
		current, err := s.GetPrice(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, current.Status, review.Status)
	}
	return s.GetPrice(ctx, id)
}

func applyPriceFilter(query *gorm.DB, f PriceFilter) *gorm.DB {
	if f.ProductID != nil {
		query = query.Where("product_id = ?", *f.ProductID)
	}
	if f.MarketID != nil {
		query = query.Where("market_id = ?", *f.MarketID)
	}
	if f.VendorID != nil {
		query = query.Where("vendor_id = ?", *f.VendorID)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	// Dates are bound as plain strings so the comparison happens on the date
	// column itself, independent of the session time zone.
	if f.EntryDate != nil {
		query = query.Where("entry_date = ?", f.EntryDate.Format(sqlDateLayout))
	}
	if f.From != nil {
		query = query.Where("entry_date >= ?", f.From.Format(sqlDateLayout))
	}
	if f.Until != nil {
		query = query.Where("entry_date < ?", f.Until.Format(sqlDateLayout))
	}
	if len(f.MarketIDs) > 0 {
		query = query.Where("market_id IN ?", f.MarketIDs)
	}
	return query
}

// Reference data

func (s *GormStore) CreateCity(ctx context.Context, city *models.City) error {
	return translate(s.db.WithContext(ctx).Create(city).Error)
}

func (s *GormStore) GetCity(ctx context.Context, id uuid.UUID) (*models.City, error) {
	var city models.City
	if err := s.db.WithContext(ctx).First(&city, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &city, nil
}

func (s *GormStore) ListCities(ctx context.Context, activeOnly bool) ([]models.City, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var cities []models.City
	if err := query.Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

func (s *GormStore) CreateMarket(ctx context.Context, market *models.Market) error {
	return translate(s.db.WithContext(ctx).Create(market).Error)
}

func (s *GormStore) GetMarket(ctx context.Context, id uuid.UUID) (*models.Market, error) {
	var market models.Market
	if err := s.db.WithContext(ctx).Preload("City").First(&market, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &market, nil
}

func (s *GormStore) ListMarkets(ctx context.Context, filter MarketFilter) ([]models.Market, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.CityID != nil {
		query = query.Where("city_id = ?", *filter.CityID)
	}
	var markets []models.Market
	if err := query.Find(&markets).Error; err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	return markets, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, category *models.ProductCategory) error {
	return translate(s.db.WithContext(ctx).Create(category).Error)
}

func (s *GormStore) GetCategory(ctx context.Context, id uuid.UUID) (*models.ProductCategory, error) {
	var category models.ProductCategory
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *GormStore) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	var categories []models.ProductCategory
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.Unit == "" {
		product.Unit = models.DefaultUnit
	}
	return translate(s.db.WithContext(ctx).Create(product).Error)
}

func (s *GormStore) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *GormStore) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Users

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Omit("VendorProfile").Create(user).Error)
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("VendorProfile").First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("VendorProfile").
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Preload("VendorProfile").Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *GormStore) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateVendorProfile(ctx context.Context, profile *models.VendorProfile) error {
	return translate(s.db.WithContext(ctx).Create(profile).Error)
}

// Audit

func (s *GormStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(log).Error
}

var _ Store = (*GormStore)(nil)
