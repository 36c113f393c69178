package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ParentID  *uint          `gorm:"index" json:"parent_id,omitempty"` // nil means root
	Published bool           `gorm:"default:true" json:"published"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Parent       *Category             `gorm:"foreignKey:ParentID" json:"-"`
	Translations []CategoryTranslation `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// Title returns the localized title, falling back to the first translation.
func (c Category) Title(locale string) string {
	for _, tr := range c.Translations {
		if tr.Locale == locale && tr.Title != "" {
			return tr.Title
		}
	}
	for _, tr := range c.Translations {
		if tr.Title != "" {
			return tr.Title
		}
	}
	return ""
}

type CategoryTranslation struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	CategoryID uint   `gorm:"not null;index" json:"category_id"`
	Locale     string `gorm:"type:varchar(8);not null;index" json:"locale"`
	Title      string `gorm:"not null" json:"title"`
	Slug       string `gorm:"not null;index" json:"slug"`
}

func (CategoryTranslation) TableName() string {
	return "category_translations"
}
