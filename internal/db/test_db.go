package db

import (
	"fmt"
	"log"

	"github.com/evermart/catalog-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// Run migrations
	err = db.AutoMigrate(
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
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"order_items", "orders",
		"variant_options", "variants",
		"product_labels", "product_images", "product_translations", "product_categories", "products",
		"attribute_value_translations", "attribute_values", "attributes",
		"brand_translations", "brands",
		"category_translations", "categories",
		"brand_discounts", "category_discounts", "catalog_settings",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
