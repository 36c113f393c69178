package model

import (
	"time"

	"gorm.io/datatypes"
)

// CatalogSettings is a single-row configuration record. Percent columns are
// clamped to [0,100] on both the write and the read path.
type CatalogSettings struct {
	ID                    uint              `gorm:"primarykey" json:"id"`
	GlobalDiscountPercent float64           `gorm:"default:0" json:"global_discount_percent"`
	PriceStepSize         float64           `gorm:"default:0" json:"price_step_size"`
	PriceStepPerCurrency  datatypes.JSONMap `json:"price_step_per_currency,omitempty"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

func (CatalogSettings) TableName() string {
	return "catalog_settings"
}

type CategoryDiscount struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	CategoryID uint    `gorm:"not null;uniqueIndex" json:"category_id"`
	Percent    float64 `gorm:"not null" json:"percent"`
}

func (CategoryDiscount) TableName() string {
	return "category_discounts"
}

type BrandDiscount struct {
	ID      uint    `gorm:"primarykey" json:"id"`
	BrandID uint    `gorm:"not null;uniqueIndex" json:"brand_id"`
	Percent float64 `gorm:"not null" json:"percent"`
}

func (BrandDiscount) TableName() string {
	return "brand_discounts"
}
