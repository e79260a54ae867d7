// internal/services/market_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fairprice/fairprice-backend/internal/models"
	"github.com/fairprice/fairprice-backend/internal/repository"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

// MarketService manages the reference data prices are reported against.
type MarketService struct {
	store repository.ReferenceStore
}

type CreateCityRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	State string `json:"state" validate:"required,min=2,max=100"`
}

type CreateMarketRequest struct {
	Name    string    `json:"name" validate:"required,min=2,max=150"`
	Area    string    `json:"area" validate:"required,max=100"`
	CityID  uuid.UUID `json:"city_id" validate:"required"`
	Address string    `json:"address,omitempty"`
}

type CreateCategoryRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	NameLocal string `json:"name_local,omitempty" validate:"max=100"`
}

type CreateProductRequest struct {
	Name       string    `json:"name" validate:"required,min=2,max=150"`
	NameLocal  string    `json:"name_local,omitempty" validate:"max=150"`
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
	Unit       string    `json:"unit,omitempty" validate:"max=30"`
}

func NewMarketService(store repository.ReferenceStore) *MarketService {
	return &MarketService{store: store}
}

func (s *MarketService) ListCities(ctx context.Context) ([]models.City, error) {
	return s.store.ListCities(ctx, true)
}

func (s *MarketService) CreateCity(ctx context.Context, actor Actor, req *CreateCityRequest) (*models.City, error) {
	if !models.CanReview(actor.Role) {
		return nil, models.ErrUnauthorized
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	city := &models.City{
		Name:     strings.TrimSpace(req.Name),
		State:    strings.TrimSpace(req.State),
		IsActive: true,
	}
	if err := s.store.CreateCity(ctx, city); err != nil {
		return nil, err
	}
	return city, nil
}

func (s *MarketService) ListMarkets(ctx context.Context, cityID *uuid.UUID) ([]models.Market, error) {
	return s.store.ListMarkets(ctx, repository.MarketFilter{CityID: cityID, ActiveOnly: true})
}

func (s *MarketService) GetMarket(ctx context.Context, id uuid.UUID) (*models.Market, error) {
	return s.store.GetMarket(ctx, id)
}

func (s *MarketService) CreateMarket(ctx context.Context, actor Actor, req *CreateMarketRequest) (*models.Market, error) {
	if !models.CanReview(actor.Role) {
		return nil, models.ErrUnauthorized
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.store.GetCity(ctx, req.CityID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewValidationError("city_id", "unknown city")
		}
		return nil, fmt.Errorf("failed to load city: %w", err)
	}

	market := &models.Market{
		Name:     strings.TrimSpace(req.Name),
		Area:     strings.TrimSpace(req.Area),
		CityID:   req.CityID,
		Address:  req.Address,
		IsActive: true,
	}
	if err := s.store.CreateMarket(ctx, market); err != nil {
		return nil, err
	}
	return market, nil
}

func (s *MarketService) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	return s.store.ListCategories(ctx)
}

func (s *MarketService) CreateCategory(ctx context.Context, actor Actor, req *CreateCategoryRequest) (*models.ProductCategory, error) {
	if !models.CanReview(actor.Role) {
		return nil, models.ErrUnauthorized
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category := &models.ProductCategory{
		Name:      strings.TrimSpace(req.Name),
		NameLocal: strings.TrimSpace(req.NameLocal),
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *MarketService) ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	return s.store.ListProducts(ctx, repository.ProductFilter{CategoryID: categoryID, ActiveOnly: true})
}

func (s *MarketService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *MarketService) CreateProduct(ctx context.Context, actor Actor, req *CreateProductRequest) (*models.Product, error) {
	if !models.CanReview(actor.Role) {
		return nil, models.ErrUnauthorized
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.store.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewValidationError("category_id", "unknown category")
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = models.DefaultUnit
	}
	product := &models.Product{
		Name:       strings.TrimSpace(req.Name),
		NameLocal:  strings.TrimSpace(req.NameLocal),
		CategoryID: req.CategoryID,
		Unit:       unit,
		IsActive:   true,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
