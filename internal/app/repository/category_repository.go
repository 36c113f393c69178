package repository

import (
	"errors"

	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindByID(id uint) (*model.Category, error)
	// FindIDBySlug resolves a localized category slug to the category id,
	// restricted to published, non-deleted categories. When the slug is
	// absent for the locale, any translation row carrying the slug matches.
	FindIDBySlug(slug, locale string) (uint, error)
	// FindChildIDs returns the ids of all published direct children of the
	// given parents in one query.
	FindChildIDs(parentIDs []uint) ([]uint, error)
	FindByIDs(ids []uint) ([]model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"parent_id": category.ParentID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.Preload("Translations").First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) findTranslationBySlug(query *gorm.DB) (*model.CategoryTranslation, error) {
	var translation model.CategoryTranslation
	err := query.
		Joins("JOIN categories ON categories.id = category_translations.category_id AND categories.deleted_at IS NULL AND categories.published = ?", true).
		First(&translation).Error
	if err != nil {
		return nil, err
	}
	return &translation, nil
}

func (r *categoryRepository) FindIDBySlug(slug, locale string) (uint, error) {
	logger.Debug("Resolving category slug", map[string]interface{}{
		"slug":   slug,
		"locale": locale,
	})

	translation, err := r.findTranslationBySlug(
		r.db.Where("category_translations.slug = ? AND category_translations.locale = ?", slug, locale),
	)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Locale-agnostic fallback
		translation, err = r.findTranslationBySlug(
			r.db.Where("category_translations.slug = ?", slug),
		)
	}
	if err != nil {
		return 0, err
	}
	return translation.CategoryID, nil
}

func (r *categoryRepository) FindChildIDs(parentIDs []uint) ([]uint, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var ids []uint
	err := r.db.Model(&model.Category{}).
		Where("parent_id IN ? AND published = ?", parentIDs, true).
		Pluck("id", &ids).Error
	if err != nil {
		logger.Error("Failed to fetch category children", err, map[string]interface{}{
			"parent_count": len(parentIDs),
		})
		return nil, err
	}
	return ids, nil
}

func (r *categoryRepository) FindByIDs(ids []uint) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var categories []model.Category
	err := r.db.Preload("Translations").Where("id IN ?", ids).Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
