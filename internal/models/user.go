// internal/models/user.go
package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	FullName     string `json:"full_name" gorm:"size:100;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;size:150;not null"`
	Phone        string `json:"phone,omitempty" gorm:"size:20"`
	PasswordHash string `json:"-" gorm:"size:255;not null"`
	Role         Role   `json:"role" gorm:"type:varchar(20);not null;default:'consumer';index"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	VendorProfile *VendorProfile `json:"vendor_profile,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// VendorProfile ties a vendor account to the market they trade in.
type VendorProfile struct {
	BaseModel
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	MarketID    uuid.UUID `json:"market_id" gorm:"type:uuid;not null;index"`
	ShopName    string    `json:"shop_name,omitempty" gorm:"size:150"`
	Description string    `json:"description,omitempty" gorm:"type:text"`

	Market *Market `json:"market,omitempty" gorm:"foreignKey:MarketID"`
}
