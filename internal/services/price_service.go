// internal/services/price_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fairprice/fairprice-backend/internal/models"
	"github.com/fairprice/fairprice-backend/internal/repository"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

type PriceStore interface {
	repository.PriceLedger
	repository.ReferenceStore
}

type PriceServiceOptions struct {
	// Location decides which calendar day "today" is.
	Location *time.Location
	// AllowReReview lets admins overwrite an earlier decision.
	AllowReReview bool
	Now           func() time.Time
}

// PriceService runs the submission and review workflow on top of the ledger.
type PriceService struct {
	store PriceStore
	opts  PriceServiceOptions
}

type SubmitPriceRequest struct {
	ProductID    uuid.UUID       `json:"product_id" validate:"required"`
	MarketID     uuid.UUID       `json:"market_id" validate:"required"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	EntryDate    string          `json:"entry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdatePriceRequest struct {
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

type ReviewPriceRequest struct {
	Status    models.PriceStatus `json:"status" validate:"required,review_status"`
	AdminNote string             `json:"admin_note,omitempty" validate:"max=1000"`
}

type PriceSearchParams struct {
	utils.PaginationParams
	ProductID *uuid.UUID
	MarketID  *uuid.UUID
	VendorID  *uuid.UUID
	Status    *models.PriceStatus
	EntryDate *time.Time
}

func NewPriceService(store PriceStore, opts PriceServiceOptions) *PriceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PriceService{store: store, opts: opts}
}

// Today is the current calendar day in the configured location.
func (s *PriceService) Today() time.Time {
	return utils.DateOf(s.opts.Now(), s.opts.Location)
}

func (s *PriceService) Submit(ctx context.Context, actor Actor, req *SubmitPriceRequest) (*models.PriceEntry, error) {
	if !models.CanSubmit(actor.Role) {
		return nil, models.ErrUnauthorized
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := models.ValidatePrice(req.PricePerUnit); err != nil {
		return nil, err
	}

	entryDate := s.Today()
	if req.EntryDate != "" {
		parsed, err := utils.ParseDate(req.EntryDate)
		if err != nil {
			return nil, models.NewValidationError("entry_date", "must be a date in YYYY-MM-DD format")
		}
		entryDate = parsed
	}

	if err := s.requireActiveReference(ctx, req.ProductID, req.MarketID); err != nil {
		return nil, err
	}

	entry := &models.PriceEntry{
		VendorID:     actor.UserID,
		ProductID:    req.ProductID,
		MarketID:     req.MarketID,
		PricePerUnit: req.PricePerUnit,
		EntryDate:    entryDate,
		Status:       models.PriceStatusPending,
	}
	if err := s.store.InsertPrice(ctx, entry); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"price_entry_id": entry.ID,
		"vendor_id":      actor.UserID,
		"product_id":     entry.ProductID,
		"market_id":      entry.MarketID,
	}).Info("Price submitted")

	return entry, nil
}

// MySubmissions lists the caller's own entries, newest first.
func (s *PriceService) MySubmissions(ctx context.Context, actor Actor) ([]models.PriceEntry, error) {
	if !models.CanSubmit(actor.Role) {
		return nil, models.ErrUnauthorized
	}
	entries, err := s.store.FindPrices(ctx, repository.PriceFilter{VendorID: &actor.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	return entries, nil
}

// UpdateSubmission changes the price of a pending entry the caller owns.
func (s *PriceService) UpdateSubmission(ctx context.Context, actor Actor, id uuid.UUID, req *UpdatePriceRequest) (*models.PriceEntry, error) {
	if !models.CanSubmit(actor.Role) {
		return nil, models.ErrUnauthorized
	}
	if err := models.ValidatePrice(req.PricePerUnit); err != nil {
		return nil, err
	}

	entry, err := s.store.UpdatePrice(ctx, id, actor.UserID, req.PricePerUnit)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"price_entry_id": id,
		"vendor_id":      actor.UserID,
	}).Info("Price submission updated")

	return entry, nil
}

// Review records an admin decision. Unless re-review is enabled only pending
// entries can be decided.
func (s *PriceService) Review(ctx context.Context, actor Actor, id uuid.UUID, req *ReviewPriceRequest) (*models.PriceEntry, error) {
	if !models.CanReview(actor.Role) {
		return nil, models.ErrUnauthorized
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	review := models.Review{
		Status:     req.Status,
		AdminNote:  req.AdminNote,
		ReviewerID: actor.UserID,
		ReviewedAt: s.opts.Now().UTC(),
	}
	if !s.opts.AllowReReview {
		if !models.CanTransition(models.PriceStatusPending, req.Status) {
			return nil, fmt.Errorf("%w: pending to %s", models.ErrInvalidTransition, req.Status)
		}
		// The store applies the decision only if the entry is still pending.
		pending := models.PriceStatusPending
		review.ExpectedStatus = &pending
	}

	entry, err := s.store.ReviewPrice(ctx, id, review)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"price_entry_id": id,
		"admin_id":       actor.UserID,
		"status":         req.Status,
	}).Info("Price entry reviewed")

	return entry, nil
}

// ListSubmissions is the admin moderation queue.
func (s *PriceService) ListSubmissions(ctx context.Context, actor Actor, params PriceSearchParams) ([]models.PriceEntry, int64, error) {
	if !models.CanReview(actor.Role) {
		return nil, 0, models.ErrUnauthorized
	}

	filter := repository.PriceFilter{
		ProductID: params.ProductID,
		MarketID:  params.MarketID,
		VendorID:  params.VendorID,
		Status:    params.Status,
		EntryDate: params.EntryDate,
	}

	total, err := s.store.CountPrices(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	if params.Limit > 0 {
		filter.Limit = params.Limit
		filter.Offset = params.Offset()
	}
	entries, err := s.store.FindPrices(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load submissions: %w", err)
	}
	return entries, total, nil
}

func (s *PriceService) requireActiveReference(ctx context.Context, productID, marketID uuid.UUID) error {
	product, err := s.store.GetProduct(ctx, productID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !product.IsActive) {
		return models.NewValidationError("product_id", "unknown or inactive product")
	}
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}

	market, err := s.store.GetMarket(ctx, marketID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !market.IsActive) {
		return models.NewValidationError("market_id", "unknown or inactive market")
	}
	if err != nil {
		return fmt.Errorf("failed to load market: %w", err)
	}
	return nil
}
