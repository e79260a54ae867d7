// internal/models/price_entry.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	MaxPricePerUnit = decimal.NewFromInt(99999)
	priceScale      = int32(2)
)

// PriceEntry is one vendor-reported price for a product at a market on a
// calendar day. EntryDate is always stored as UTC midnight of that day.
type PriceEntry struct {
	BaseModel
	VendorID     uuid.UUID       `json:"vendor_id" gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	MarketID     uuid.UUID       `json:"market_id" gorm:"type:uuid;not null;index"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" gorm:"type:decimal(10,2);not null"`
	EntryDate    time.Time       `json:"entry_date" gorm:"type:date;not null;index"`
	Status       PriceStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	AdminNote    string          `json:"admin_note,omitempty" gorm:"type:text"`
	ReviewedBy   *uuid.UUID      `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewedAt   *time.Time      `json:"reviewed_at,omitempty"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Market  *Market  `json:"market,omitempty" gorm:"foreignKey:MarketID"`
}

// Review is the field set written by an admin decision. It is applied to a
// price entry as a single update. When ExpectedStatus is set the update only
// applies to an entry still in that status.
type Review struct {
	Status         PriceStatus
	AdminNote      string
	ReviewerID     uuid.UUID
	ReviewedAt     time.Time
	ExpectedStatus *PriceStatus
}

// ValidatePrice checks the bounds of a unit price: strictly positive, at
// most 99999 and no more than two decimal places.
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return NewValidationError("price_per_unit", "must be greater than 0")
	}
	if price.GreaterThan(MaxPricePerUnit) {
		return NewValidationError("price_per_unit", "must be at most 99999")
	}
	if !price.Equal(price.Truncate(priceScale)) {
		return NewValidationError("price_per_unit", "must have at most 2 decimal places")
	}
	return nil
}
