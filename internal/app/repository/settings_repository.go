package repository

import (
	"errors"

	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Load returns the settings row plus all scoped discount rows. A missing
	// settings row yields zero-valued settings, not an error.
	Load() (model.CatalogSettings, []model.CategoryDiscount, []model.BrandDiscount, error)
	Save(settings *model.CatalogSettings) error
	ReplaceCategoryDiscounts(discounts []model.CategoryDiscount) error
	ReplaceBrandDiscounts(discounts []model.BrandDiscount) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Load() (model.CatalogSettings, []model.CategoryDiscount, []model.BrandDiscount, error) {
	var settings model.CatalogSettings
	err := r.db.First(&settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to load catalog settings", err, nil)
		return model.CatalogSettings{}, nil, nil, err
	}

	var categoryDiscounts []model.CategoryDiscount
	if err := r.db.Find(&categoryDiscounts).Error; err != nil {
		logger.Error("Failed to load category discounts", err, nil)
		return model.CatalogSettings{}, nil, nil, err
	}

	var brandDiscounts []model.BrandDiscount
	if err := r.db.Find(&brandDiscounts).Error; err != nil {
		logger.Error("Failed to load brand discounts", err, nil)
		return model.CatalogSettings{}, nil, nil, err
	}

	return settings, categoryDiscounts, brandDiscounts, nil
}

func (r *settingsRepository) Save(settings *model.CatalogSettings) error {
	if err := r.db.Save(settings).Error; err != nil {
		logger.Error("Failed to save catalog settings", err, nil)
		return err
	}
	return nil
}

func (r *settingsRepository) ReplaceCategoryDiscounts(discounts []model.CategoryDiscount) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.CategoryDiscount{}).Error; err != nil {
			return err
		}
		if len(discounts) == 0 {
			return nil
		}
		return tx.Create(&discounts).Error
	})
}

func (r *settingsRepository) ReplaceBrandDiscounts(discounts []model.BrandDiscount) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.BrandDiscount{}).Error; err != nil {
			return err
		}
		if len(discounts) == 0 {
			return nil
		}
		return tx.Create(&discounts).Error
	})
}
