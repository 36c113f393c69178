package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Variant struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	ProductID      uint           `gorm:"not null;index" json:"product_id"`
	SKU            string         `gorm:"not null;index" json:"sku"`
	Price          float64        `gorm:"not null" json:"price"`
	CompareAtPrice *float64       `json:"compare_at_price,omitempty"`
	StockQuantity  int            `gorm:"default:0" json:"stock_quantity"`
	ImageURL       string         `json:"image_url"` // may hold several URLs, comma-joined
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	Attributes     datatypes.JSON `json:"attributes,omitempty"` // free-form key/value blob, pre-dating typed options
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Options []VariantOption `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Variant) TableName() string {
	return "variants"
}

// VariantOption assigns one option to a variant in one of two historical
// shapes. Legacy rows carry AttributeKey/RawValue directly; current rows
// reference a typed AttributeValue and leave the raw pair empty.
type VariantOption struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	VariantID        uint   `gorm:"not null;index" json:"variant_id"`
	AttributeKey     string `gorm:"type:varchar(50)" json:"attribute_key,omitempty"`
	RawValue         string `json:"raw_value,omitempty"`
	AttributeValueID *uint  `gorm:"index" json:"attribute_value_id,omitempty"`

	AttributeValue *AttributeValue `gorm:"foreignKey:AttributeValueID" json:"attribute_value,omitempty"`
}

func (VariantOption) TableName() string {
	return "variant_options"
}

// IsTyped reports whether the option uses the current typed-attribute shape.
func (o VariantOption) IsTyped() bool {
	return o.AttributeValueID != nil && o.AttributeValue != nil
}
