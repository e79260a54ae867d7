// internal/models/market.go
package models

import (
	"github.com/google/uuid"
)

const DefaultUnit = "kg"

type City struct {
	BaseModel
	Name     string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	State    string `json:"state" gorm:"size:100;not null"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}

type Market struct {
	BaseModel
	Name     string    `json:"name" gorm:"size:150;not null"`
	Area     string    `json:"area" gorm:"size:100;not null"`
	CityID   uuid.UUID `json:"city_id" gorm:"type:uuid;not null;index"`
	Address  string    `json:"address,omitempty" gorm:"type:text"`
	IsActive bool      `json:"is_active" gorm:"default:true;index"`

	City *City `json:"city,omitempty" gorm:"foreignKey:CityID"`
}

type ProductCategory struct {
	BaseModel
	Name      string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	NameLocal string `json:"name_local,omitempty" gorm:"size:100"`
}

type Product struct {
	BaseModel
	Name       string    `json:"name" gorm:"size:150;not null"`
	NameLocal  string    `json:"name_local,omitempty" gorm:"size:150"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:uuid;not null;index"`
	Unit       string    `json:"unit" gorm:"size:30;not null;default:'kg'"`
	IsActive   bool      `json:"is_active" gorm:"default:true;index"`

	Category *ProductCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
