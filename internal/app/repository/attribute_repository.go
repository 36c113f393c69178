package repository

import (
	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

type AttributeRepository interface {
	// FindColorValues returns every typed value of the color attribute with
	// its translations, for the color aggregator's enrichment pass.
	FindColorValues() ([]model.AttributeValue, error)
	CreateValue(value *model.AttributeValue) error
}

type attributeRepository struct {
	db *gorm.DB
}

func NewAttributeRepository(db *gorm.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

func (r *attributeRepository) FindColorValues() ([]model.AttributeValue, error) {
	var values []model.AttributeValue
	err := r.db.
		Preload("Translations").
		Preload("Attribute").
		Joins("JOIN attributes ON attributes.id = attribute_values.attribute_id").
		Where("attributes.code = ?", model.AttributeCodeColor).
		Find(&values).Error
	if err != nil {
		logger.Error("Failed to load color attribute values", err, nil)
		return nil, err
	}
	return values, nil
}

func (r *attributeRepository) CreateValue(value *model.AttributeValue) error {
	if err := r.db.Create(value).Error; err != nil {
		logger.Error("Failed to create attribute value", err, map[string]interface{}{
			"attribute_id": value.AttributeID,
		})
		return err
	}
	return nil
}
