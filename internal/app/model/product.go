package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	CategoryID       uint           `gorm:"not null;index" json:"category_id"`
	BrandID          *uint          `gorm:"index" json:"brand_id,omitempty"`
	DiscountPercent  float64        `gorm:"default:0" json:"discount_percent"` // 0 means no product-level override
	Featured         bool           `gorm:"default:false;index" json:"featured"`
	MinOrderQuantity int            `gorm:"default:1" json:"min_order_quantity"`
	OrderIncrement   int            `gorm:"default:1" json:"order_increment"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category        Category             `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ExtraCategories []Category           `gorm:"many2many:product_categories" json:"extra_categories,omitempty"`
	Brand           *Brand               `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Translations    []ProductTranslation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	Variants        []Variant            `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Labels          []ProductLabel       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"labels,omitempty"`
	Images          []ProductImage       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

type ProductTranslation struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	ProductID      uint   `gorm:"not null;index" json:"product_id"`
	Locale         string `gorm:"type:varchar(8);not null;index" json:"locale"`
	Title          string `gorm:"not null" json:"title"`
	Subtitle       string `json:"subtitle"`
	Slug           string `gorm:"not null;index" json:"slug"`
	Description    string `gorm:"type:text" json:"description"`
	SEOTitle       string `json:"seo_title"`
	SEODescription string `json:"seo_description"`
}

func (ProductTranslation) TableName() string {
	return "product_translations"
}

// ProductLabel is a badge rendered on a product card, either author-set or
// synthesized (out of stock).
type ProductLabel struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Text      string `gorm:"not null" json:"text"`
	Position  string `gorm:"type:varchar(20);default:'top-left'" json:"position"`
	Color     string `gorm:"type:varchar(20)" json:"color"`
}

func (ProductLabel) TableName() string {
	return "product_labels"
}

type ProductImage struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
