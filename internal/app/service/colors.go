package service

import (
	"encoding/json"
	"strings"

	"github.com/evermart/catalog-backend/internal/app/model"
)

// ColorInfo is one entry of a product's aggregated color facet.
type ColorInfo struct {
	Name      string   `json:"name"`
	ImageURL  string   `json:"image,omitempty"`
	HexColors []string `json:"hex_colors,omitempty"`
}

func normalizeColorName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// colorFromOption extracts a color from one variant option, handling both the
// typed-attribute shape and the legacy key/value shape.
func colorFromOption(option model.VariantOption, locale string) (ColorInfo, bool) {
	if option.IsTyped() {
		value := option.AttributeValue
		if value.Attribute.Code != model.AttributeCodeColor {
			return ColorInfo{}, false
		}
		return ColorInfo{
			Name:      value.Label(locale),
			ImageURL:  value.SwatchURL,
			HexColors: value.HexList(),
		}, true
	}
	if strings.EqualFold(option.AttributeKey, model.AttributeCodeColor) && option.RawValue != "" {
		return ColorInfo{Name: option.RawValue}, true
	}
	return ColorInfo{}, false
}

// variantBlobColor reads the variant's free-form attributes blob, the oldest
// storage shape, used only when the variant exposes no color option at all.
func variantBlobColor(variant model.Variant) (ColorInfo, bool) {
	if len(variant.Attributes) == 0 {
		return ColorInfo{}, false
	}
	var attrs map[string]string
	if err := json.Unmarshal(variant.Attributes, &attrs); err != nil {
		return ColorInfo{}, false
	}
	if name := strings.TrimSpace(attrs[model.AttributeCodeColor]); name != "" {
		return ColorInfo{Name: name}, true
	}
	return ColorInfo{}, false
}

// CollectColors builds the deduplicated color list of a product across all of
// its variants, in first-encountered order. Names are deduplicated after
// lower-casing and trimming; a duplicate may fill a missing swatch or hex
// list on the entry that is already present but never displaces it.
//
// catalogValues (typed color values from the attribute catalog) participate
// in a second pass that can enrich existing entries but must not introduce a
// color no variant carries.
func CollectColors(product *model.Product, catalogValues []model.AttributeValue, locale string) []ColorInfo {
	var colors []ColorInfo
	index := map[string]int{}

	add := func(color ColorInfo) {
		key := normalizeColorName(color.Name)
		if key == "" {
			return
		}
		if at, ok := index[key]; ok {
			if colors[at].ImageURL == "" && color.ImageURL != "" {
				colors[at].ImageURL = color.ImageURL
			}
			if len(colors[at].HexColors) == 0 && len(color.HexColors) > 0 {
				colors[at].HexColors = color.HexColors
			}
			return
		}
		index[key] = len(colors)
		colors = append(colors, color)
	}

	for _, variant := range product.Variants {
		found := false
		for _, option := range variant.Options {
			if color, ok := colorFromOption(option, locale); ok {
				add(color)
				found = true
			}
		}
		if !found {
			if color, ok := variantBlobColor(variant); ok {
				add(color)
			}
		}
	}

	for _, value := range catalogValues {
		at, ok := index[normalizeColorName(value.Label(locale))]
		if !ok {
			continue
		}
		if colors[at].ImageURL == "" {
			colors[at].ImageURL = value.SwatchURL
		}
		if len(colors[at].HexColors) == 0 {
			colors[at].HexColors = value.HexList()
		}
	}

	return colors
}
