package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// AttributeCodeColor is the attribute code the color aggregator recognizes.
const AttributeCodeColor = "color"

type Attribute struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Code string `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name string `json:"name"`
}

func (Attribute) TableName() string {
	return "attributes"
}

type AttributeValue struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	AttributeID uint           `gorm:"not null;index" json:"attribute_id"`
	Value       string         `gorm:"not null" json:"value"`
	SwatchURL   string         `json:"swatch_url"`
	HexColors   datatypes.JSON `json:"hex_colors,omitempty"` // JSON array of hex strings

	Attribute    Attribute                   `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
	Translations []AttributeValueTranslation `gorm:"foreignKey:AttributeValueID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
}

func (AttributeValue) TableName() string {
	return "attribute_values"
}

// HexList decodes the stored hex color array. Malformed or empty payloads
// yield nil.
func (v AttributeValue) HexList() []string {
	if len(v.HexColors) == 0 {
		return nil
	}
	var hex []string
	if err := json.Unmarshal(v.HexColors, &hex); err != nil {
		return nil
	}
	return hex
}

// Label returns the display label for the given locale, falling back to the
// first available translation and then the raw value.
func (v AttributeValue) Label(locale string) string {
	for _, tr := range v.Translations {
		if tr.Locale == locale && tr.Label != "" {
			return tr.Label
		}
	}
	for _, tr := range v.Translations {
		if tr.Label != "" {
			return tr.Label
		}
	}
	return v.Value
}

type AttributeValueTranslation struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	AttributeValueID uint   `gorm:"not null;index" json:"attribute_value_id"`
	Locale           string `gorm:"type:varchar(8);not null" json:"locale"`
	Label            string `gorm:"not null" json:"label"`
}

func (AttributeValueTranslation) TableName() string {
	return "attribute_value_translations"
}
