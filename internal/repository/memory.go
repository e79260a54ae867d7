package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairprice/fairprice-backend/internal/models"
)

// MemoryStore keeps everything in process. It backs local demo runs
// (DB_DRIVER=memory) and the service tests.
type MemoryStore struct {
	mu sync.RWMutex

	prices     []*models.PriceEntry
	priceIndex map[uuid.UUID]*models.PriceEntry

	cities     map[uuid.UUID]*models.City
	markets    map[uuid.UUID]*models.Market
	categories map[uuid.UUID]*models.ProductCategory
	products   map[uuid.UUID]*models.Product

	users          map[uuid.UUID]*models.User
	vendorProfiles map[uuid.UUID]*models.VendorProfile

	auditLogs []models.AuditLog

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		priceIndex:     make(map[uuid.UUID]*models.PriceEntry),
		cities:         make(map[uuid.UUID]*models.City),
		markets:        make(map[uuid.UUID]*models.Market),
		categories:     make(map[uuid.UUID]*models.ProductCategory),
		products:       make(map[uuid.UUID]*models.Product),
		users:          make(map[uuid.UUID]*models.User),
		vendorProfiles: make(map[uuid.UUID]*models.VendorProfile),
		now:            time.Now,
	}
}

func (s *MemoryStore) stamp(base *models.BaseModel) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	now := s.now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

// Price ledger

func (s *MemoryStore) InsertPrice(_ context.Context, entry *models.PriceEntry) error {
	if err := models.ValidatePrice(entry.PricePerUnit); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.priceIndex[entry.ID]; exists && entry.ID != uuid.Nil {
		return models.ErrAlreadyExists
	}
	s.stamp(&entry.BaseModel)
	if entry.Status == "" {
		entry.Status = models.PriceStatusPending
	}
	entry.EntryDate = calendarDate(entry.EntryDate)

	stored := *entry
	s.prices = append(s.prices, &stored)
	s.priceIndex[stored.ID] = &stored
	return nil
}

func (s *MemoryStore) GetPrice(_ context.Context, id uuid.UUID) (*models.PriceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.priceIndex[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return s.withRelations(*entry), nil
}

func (s *MemoryStore) FindPrices(_ context.Context, filter PriceFilter) ([]models.PriceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchPrices(filter)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []models.PriceEntry{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	out := make([]models.PriceEntry, 0, len(matched))
	for _, entry := range matched {
		out = append(out, *s.withRelations(*entry))
	}
	return out, nil
}

func (s *MemoryStore) CountPrices(_ context.Context, filter PriceFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.matchPrices(filter))), nil
}

func (s *MemoryStore) UpdatePrice(_ context.Context, id, vendorID uuid.UUID, price decimal.Decimal) (*models.PriceEntry, error) {
	if err := models.ValidatePrice(price); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.priceIndex[id]
	if !ok || entry.VendorID != vendorID || entry.Status != models.PriceStatusPending {
		return nil, models.ErrNotFoundOrNotEditable
	}
	entry.PricePerUnit = price
	entry.UpdatedAt = s.now()
	return s.withRelations(*entry), nil
}

func (s *MemoryStore) ReviewPrice(_ context.Context, id uuid.UUID, review models.Review) (*models.PriceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.priceIndex[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if review.ExpectedStatus != nil && entry.Status != *review.ExpectedStatus {
		return nil, fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, entry.Status, review.Status)
	}
	reviewer := review.ReviewerID
	reviewedAt := review.ReviewedAt
	entry.Status = review.Status
	entry.AdminNote = review.AdminNote
	entry.ReviewedBy = &reviewer
	entry.ReviewedAt = &reviewedAt
	entry.UpdatedAt = s.now()
	return s.withRelations(*entry), nil
}

// matchPrices returns matching entries newest first. Callers hold the lock.
func (s *MemoryStore) matchPrices(f PriceFilter) []*models.PriceEntry {
	var marketSet map[uuid.UUID]struct{}
	if f.MarketIDs != nil {
		marketSet = make(map[uuid.UUID]struct{}, len(f.MarketIDs))
		for _, id := range f.MarketIDs {
			marketSet[id] = struct{}{}
		}
	}

	matched := make([]*models.PriceEntry, 0)
	for i := len(s.prices) - 1; i >= 0; i-- {
		e := s.prices[i]
		if f.ProductID != nil && e.ProductID != *f.ProductID {
			continue
		}
		if f.MarketID != nil && e.MarketID != *f.MarketID {
			continue
		}
		if f.VendorID != nil && e.VendorID != *f.VendorID {
			continue
		}
		if f.Status != nil && e.Status != *f.Status {
			continue
		}
		if f.EntryDate != nil && !e.EntryDate.Equal(calendarDate(*f.EntryDate)) {
			continue
		}
		if f.From != nil && e.EntryDate.Before(calendarDate(*f.From)) {
			continue
		}
		if f.Until != nil && !e.EntryDate.Before(calendarDate(*f.Until)) {
			continue
		}
		if marketSet != nil {
			if _, ok := marketSet[e.MarketID]; !ok {
				continue
			}
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (s *MemoryStore) withRelations(entry models.PriceEntry) *models.PriceEntry {
	if p, ok := s.products[entry.ProductID]; ok {
		product := *p
		entry.Product = &product
	}
	if m, ok := s.markets[entry.MarketID]; ok {
		market := *m
		entry.Market = &market
	}
	return &entry
}

// Reference data

func (s *MemoryStore) CreateCity(_ context.Context, city *models.City) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.cities {
		if strings.EqualFold(existing.Name, city.Name) {
			return models.ErrAlreadyExists
		}
	}
	s.stamp(&city.BaseModel)
	stored := *city
	s.cities[stored.ID] = &stored
	return nil
}

func (s *MemoryStore) GetCity(_ context.Context, id uuid.UUID) (*models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	city, ok := s.cities[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *city
	return &out, nil
}

func (s *MemoryStore) ListCities(_ context.Context, activeOnly bool) ([]models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.City, 0, len(s.cities))
	for _, city := range s.cities {
		if activeOnly && !city.IsActive {
			continue
		}
		out = append(out, *city)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateMarket(_ context.Context, market *models.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&market.BaseModel)
	stored := *market
	s.markets[stored.ID] = &stored
	return nil
}

func (s *MemoryStore) GetMarket(_ context.Context, id uuid.UUID) (*models.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	market, ok := s.markets[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *market
	return &out, nil
}

func (s *MemoryStore) ListMarkets(_ context.Context, filter MarketFilter) ([]models.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Market, 0, len(s.markets))
	for _, market := range s.markets {
		if filter.ActiveOnly && !market.IsActive {
			continue
		}
		if filter.CityID != nil && market.CityID != *filter.CityID {
			continue
		}
		out = append(out, *market)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateCategory(_ context.Context, category *models.ProductCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return models.ErrAlreadyExists
		}
	}
	s.stamp(&category.BaseModel)
	stored := *category
	s.categories[stored.ID] = &stored
	return nil
}

func (s *MemoryStore) GetCategory(_ context.Context, id uuid.UUID) (*models.ProductCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *category
	return &out, nil
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]models.ProductCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ProductCategory, 0, len(s.categories))
	for _, category := range s.categories {
		out = append(out, *category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&product.BaseModel)
	if product.Unit == "" {
		product.Unit = models.DefaultUnit
	}
	stored := *product
	s.products[stored.ID] = &stored
	return nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *product
	return &out, nil
}

func (s *MemoryStore) ListProducts(_ context.Context, filter ProductFilter) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		if filter.ActiveOnly && !product.IsActive {
			continue
		}
		if filter.CategoryID != nil && product.CategoryID != *filter.CategoryID {
			continue
		}
		out = append(out, *product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Users

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return models.ErrAlreadyExists
		}
	}
	s.stamp(&user.BaseModel)
	stored := *user
	stored.VendorProfile = nil
	s.users[stored.ID] = &stored
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return s.userWithProfile(*user), nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return s.userWithProfile(*user), nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, *s.userWithProfile(*user))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) SetUserActive(_ context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	user.IsActive = active
	user.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) CreateVendorProfile(_ context.Context, profile *models.VendorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vendorProfiles[profile.UserID]; exists {
		return models.ErrAlreadyExists
	}
	s.stamp(&profile.BaseModel)
	stored := *profile
	s.vendorProfiles[stored.UserID] = &stored
	return nil
}

func (s *MemoryStore) userWithProfile(user models.User) *models.User {
	if profile, ok := s.vendorProfiles[user.ID]; ok {
		p := *profile
		user.VendorProfile = &p
	}
	return &user
}

// Audit

func (s *MemoryStore) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&log.BaseModel)
	s.auditLogs = append(s.auditLogs, *log)
	return nil
}

// AuditLogs returns a copy of the recorded audit trail.
func (s *MemoryStore) AuditLogs() []models.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.AuditLog(nil), s.auditLogs...)
}

// calendarDate drops the clock part of t, keeping its calendar day.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var _ Store = (*MemoryStore)(nil)
