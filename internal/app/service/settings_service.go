package service

import (
	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/internal/app/repository"
	"github.com/evermart/catalog-backend/pkg/logger"
)

// SettingsInput is the admin-facing update payload for catalog-wide pricing
// configuration.
type SettingsInput struct {
	GlobalDiscountPercent float64                  `json:"global_discount_percent"`
	PriceStepSize         float64                  `json:"price_step_size"`
	PriceStepPerCurrency  map[string]float64       `json:"price_step_per_currency,omitempty"`
	CategoryDiscounts     []model.CategoryDiscount `json:"category_discounts"`
	BrandDiscounts        []model.BrandDiscount    `json:"brand_discounts"`
}

// SettingsView is the read shape returned by the admin endpoint.
type SettingsView struct {
	GlobalDiscountPercent float64                  `json:"global_discount_percent"`
	PriceStepSize         float64                  `json:"price_step_size"`
	PriceStepPerCurrency  map[string]float64       `json:"price_step_per_currency,omitempty"`
	CategoryDiscounts     []model.CategoryDiscount `json:"category_discounts"`
	BrandDiscounts        []model.BrandDiscount    `json:"brand_discounts"`
}

type SettingsService interface {
	// Snapshot loads the discount configuration for one request's worth of
	// price resolution, clamping every percentage on the way out.
	Snapshot() (DiscountSnapshot, error)
	GetSettings() (SettingsView, error)
	UpdateSettings(input SettingsInput) (SettingsView, error)
	// PriceHints returns the configured slider step size plus any per-currency
	// overrides.
	PriceHints() (float64, map[string]float64, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) Snapshot() (DiscountSnapshot, error) {
	settings, categoryDiscounts, brandDiscounts, err := s.settingsRepo.Load()
	if err != nil {
		return DiscountSnapshot{}, err
	}

	snapshot := DiscountSnapshot{
		Global:   ClampPercent(settings.GlobalDiscountPercent),
		Category: make(map[uint]float64, len(categoryDiscounts)),
		Brand:    make(map[uint]float64, len(brandDiscounts)),
	}
	for _, discount := range categoryDiscounts {
		snapshot.Category[discount.CategoryID] = ClampPercent(discount.Percent)
	}
	for _, discount := range brandDiscounts {
		snapshot.Brand[discount.BrandID] = ClampPercent(discount.Percent)
	}
	return snapshot, nil
}

func (s *settingsService) GetSettings() (SettingsView, error) {
	settings, categoryDiscounts, brandDiscounts, err := s.settingsRepo.Load()
	if err != nil {
		return SettingsView{}, err
	}
	return SettingsView{
		GlobalDiscountPercent: ClampPercent(settings.GlobalDiscountPercent),
		PriceStepSize:         settings.PriceStepSize,
		PriceStepPerCurrency:  stepMap(settings),
		CategoryDiscounts:     clampCategoryDiscounts(categoryDiscounts),
		BrandDiscounts:        clampBrandDiscounts(brandDiscounts),
	}, nil
}

func (s *settingsService) UpdateSettings(input SettingsInput) (SettingsView, error) {
	settings, _, _, err := s.settingsRepo.Load()
	if err != nil {
		return SettingsView{}, err
	}

	settings.GlobalDiscountPercent = ClampPercent(input.GlobalDiscountPercent)
	settings.PriceStepSize = input.PriceStepSize
	if input.PriceStepPerCurrency != nil {
		perCurrency := make(map[string]interface{}, len(input.PriceStepPerCurrency))
		for currency, step := range input.PriceStepPerCurrency {
			perCurrency[currency] = step
		}
		settings.PriceStepPerCurrency = perCurrency
	}

	if err := s.settingsRepo.Save(&settings); err != nil {
		return SettingsView{}, err
	}
	if err := s.settingsRepo.ReplaceCategoryDiscounts(clampCategoryDiscounts(input.CategoryDiscounts)); err != nil {
		logger.Error("Failed to replace category discounts", err, nil)
		return SettingsView{}, err
	}
	if err := s.settingsRepo.ReplaceBrandDiscounts(clampBrandDiscounts(input.BrandDiscounts)); err != nil {
		logger.Error("Failed to replace brand discounts", err, nil)
		return SettingsView{}, err
	}

	logger.Info("Catalog settings updated", map[string]interface{}{
		"global_discount":    settings.GlobalDiscountPercent,
		"category_discounts": len(input.CategoryDiscounts),
		"brand_discounts":    len(input.BrandDiscounts),
	})
	return s.GetSettings()
}

func (s *settingsService) PriceHints() (float64, map[string]float64, error) {
	settings, _, _, err := s.settingsRepo.Load()
	if err != nil {
		return 0, nil, err
	}
	return settings.PriceStepSize, stepMap(settings), nil
}

func stepMap(settings model.CatalogSettings) map[string]float64 {
	if len(settings.PriceStepPerCurrency) == 0 {
		return nil
	}
	steps := make(map[string]float64, len(settings.PriceStepPerCurrency))
	for currency, raw := range settings.PriceStepPerCurrency {
		if step, ok := raw.(float64); ok {
			steps[currency] = step
		}
	}
	return steps
}

func clampCategoryDiscounts(discounts []model.CategoryDiscount) []model.CategoryDiscount {
	clamped := make([]model.CategoryDiscount, len(discounts))
	for i, discount := range discounts {
		discount.Percent = ClampPercent(discount.Percent)
		clamped[i] = discount
	}
	return clamped
}

func clampBrandDiscounts(discounts []model.BrandDiscount) []model.BrandDiscount {
	clamped := make([]model.BrandDiscount, len(discounts))
	for i, discount := range discounts {
		discount.Percent = ClampPercent(discount.Percent)
		clamped[i] = discount
	}
	return clamped
}
