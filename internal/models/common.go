// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns the identifier client side so every store hands back
// the same id it persisted.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleConsumer Role = "consumer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleConsumer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// CanSubmit reports whether the role may submit or edit price entries.
func CanSubmit(r Role) bool {
	return r == RoleVendor
}

// CanReview reports whether the role may approve or reject price entries.
func CanReview(r Role) bool {
	return r == RoleAdmin
}

type PriceStatus string

const (
	PriceStatusPending  PriceStatus = "pending"
	PriceStatusApproved PriceStatus = "approved"
	PriceStatusRejected PriceStatus = "rejected"
)

func (s PriceStatus) Valid() bool {
	switch s {
	case PriceStatusPending, PriceStatusApproved, PriceStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further workflow transition leaves s.
func (s PriceStatus) Terminal() bool {
	return s == PriceStatusApproved || s == PriceStatusRejected
}

// CanTransition reports whether the review workflow allows moving an entry
// from one status to another. Only pending entries can be decided, and only
// into approved or rejected.
func CanTransition(from, to PriceStatus) bool {
	return from == PriceStatusPending && to.Terminal()
}
