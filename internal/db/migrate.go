package db

import (
	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Category{},
		&model.CategoryTranslation{},
		&model.Brand{},
		&model.BrandTranslation{},
		&model.Attribute{},
		&model.AttributeValue{},
		&model.AttributeValueTranslation{},
		&model.Product{},
		&model.ProductTranslation{},
		&model.ProductLabel{},
		&model.ProductImage{},
		&model.Variant{},
		&model.VariantOption{},
		&model.Order{},
		&model.OrderItem{},
		&model.CatalogSettings{},
		&model.CategoryDiscount{},
		&model.BrandDiscount{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedSettings(); err != nil {
		logger.Error("Failed to seed catalog settings", err)
		return err
	}

	if err := seedColorAttribute(); err != nil {
		logger.Error("Failed to seed color attribute", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedSettings guarantees the single settings row exists so the discount
// snapshot load never falls over on a fresh database.
func seedSettings() error {
	var count int64
	if err := DB.Model(&model.CatalogSettings{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Catalog settings already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	settings := model.CatalogSettings{
		GlobalDiscountPercent: 0,
		PriceStepSize:         1000,
	}
	if err := DB.Create(&settings).Error; err != nil {
		return err
	}

	logger.Info("Catalog settings seeded", map[string]interface{}{
		"settings_id": settings.ID,
	})
	return nil
}

// seedColorAttribute creates the color attribute typed options reference.
func seedColorAttribute() error {
	var count int64
	if err := DB.Model(&model.Attribute{}).Where("code = ?", model.AttributeCodeColor).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Color attribute already seeded, skipping...", nil)
		return nil
	}

	attribute := model.Attribute{Code: model.AttributeCodeColor, Name: "Color"}
	if err := DB.Create(&attribute).Error; err != nil {
		return err
	}

	logger.Info("Color attribute seeded", map[string]interface{}{
		"attribute_id": attribute.ID,
	})
	return nil
}
