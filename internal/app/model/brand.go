package model

import (
	"time"

	"gorm.io/gorm"
)

type Brand struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Published bool           `gorm:"default:true" json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Translations []BrandTranslation `gorm:"foreignKey:BrandID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
}

func (Brand) TableName() string {
	return "brands"
}

// Name returns the localized brand name, falling back to the first translation.
func (b Brand) Name(locale string) string {
	for _, tr := range b.Translations {
		if tr.Locale == locale && tr.Name != "" {
			return tr.Name
		}
	}
	for _, tr := range b.Translations {
		if tr.Name != "" {
			return tr.Name
		}
	}
	return ""
}

type BrandTranslation struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	BrandID uint   `gorm:"not null;index" json:"brand_id"`
	Locale  string `gorm:"type:varchar(8);not null" json:"locale"`
	Name    string `gorm:"not null" json:"name"`
}

func (BrandTranslation) TableName() string {
	return "brand_translations"
}
