package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
)

// minActivePriceExpr orders products by the cheapest active variant.
const minActivePriceExpr = "(SELECT MIN(pv.price) FROM variants pv WHERE pv.product_id = products.id AND pv.deleted_at IS NULL AND pv.is_active = true)"

// ProductFilter is the compiled listing predicate consumed by the fetch and
// count queries. A nil IDs slice means no explicit id constraint; a non-nil
// slice restricts the result to exactly that set (bestseller mode).
type ProductFilter struct {
	Search        string
	CategoryIDs   []uint
	MinPrice      *float64
	MaxPrice      *float64
	CreatedAfter  *time.Time
	FeaturedOnly  bool
	IDs           []uint
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

// PriceBounds holds the price floor/ceiling over active variants.
type PriceBounds struct {
	Min float64
	Max float64
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	Count(filter ProductFilter) (int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug, locale string) (*model.Product, error)
	VariantProductIDs(variantIDs []uint) (map[uint]uint, error)
	PriceBounds(categoryIDs []uint) (PriceBounds, error)
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"category_id": product.CategoryID,
		"brand_id":    product.BrandID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"category_id": product.CategoryID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) baseQuery(includeDetail bool) *gorm.DB {
	query := r.db.Model(&model.Product{}).
		Preload("Translations").
		Preload("Labels").
		Preload("Images").
		Preload("Variants").
		Preload("Category.Translations").
		Preload("Brand.Translations")
	if includeDetail {
		query = query.
			Preload("Variants.Options").
			Preload("Variants.Options.AttributeValue").
			Preload("Variants.Options.AttributeValue.Attribute").
			Preload("Variants.Options.AttributeValue.Translations")
	}
	return query
}

// applyFilter translates the compiled predicate into SQL. Search and category
// conditions are OR-groups internally and combine with everything else by AND.
func (r *productRepository) applyFilter(query *gorm.DB, filter ProductFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			`(EXISTS (SELECT 1 FROM product_translations pt WHERE pt.product_id = products.id AND (LOWER(pt.title) LIKE ? OR LOWER(pt.subtitle) LIKE ?))
			OR EXISTS (SELECT 1 FROM variants sv WHERE sv.product_id = products.id AND sv.deleted_at IS NULL AND LOWER(sv.sku) LIKE ?))`,
			like, like, like,
		)
	}

	if len(filter.CategoryIDs) > 0 {
		query = query.Where(
			`(products.category_id IN ? OR EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = products.id AND pc.category_id IN ?))`,
			filter.CategoryIDs, filter.CategoryIDs,
		)
	}

	if filter.MinPrice != nil || filter.MaxPrice != nil {
		cond := "EXISTS (SELECT 1 FROM variants pv WHERE pv.product_id = products.id AND pv.deleted_at IS NULL AND pv.is_active = true"
		args := []interface{}{}
		if filter.MinPrice != nil {
			cond += " AND pv.price >= ?"
			args = append(args, *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			cond += " AND pv.price <= ?"
			args = append(args, *filter.MaxPrice)
		}
		cond += ")"
		query = query.Where(cond, args...)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("products.created_at >= ?", *filter.CreatedAfter)
	}

	if filter.FeaturedOnly {
		query = query.Where("products.featured = ?", true)
	}

	if filter.IDs != nil {
		query = query.Where("products.id IN ?", filter.IDs)
	}

	return query
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"search":       filter.Search,
		"category_ids": len(filter.CategoryIDs),
		"id_set":       len(filter.IDs),
		"sort_by":      filter.SortBy,
		"ascending":    filter.SortAscending,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
	})

	query := r.applyFilter(r.baseQuery(false), filter)

	switch filter.SortBy {
	case ProductSortPrice:
		direction := "DESC"
		if filter.SortAscending {
			direction = "ASC"
		}
		query = query.Order(minActivePriceExpr + " " + direction)
		query = query.Order("products.created_at DESC")
	case ProductSortCreatedAt:
		fallthrough
	default:
		query = query.Order("products.created_at DESC")
		query = query.Order("products.id DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

// Count returns the full filtered count, independent of limit and offset.
func (r *productRepository) Count(filter ProductFilter) (int64, error) {
	query := r.applyFilter(r.db.Model(&model.Product{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return 0, err
	}
	return total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.baseQuery(true).First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

// FindBySlug resolves a localized slug to a fully loaded product. When the
// slug is absent for the requested locale, any translation row carrying the
// slug matches.
func (r *productRepository) FindBySlug(slug, locale string) (*model.Product, error) {
	var translation model.ProductTranslation
	err := r.db.Where("slug = ? AND locale = ?", slug, locale).First(&translation).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		err = r.db.Where("slug = ?", slug).First(&translation).Error
		if err != nil {
			return nil, err
		}
	}
	return r.FindByID(translation.ProductID)
}

// VariantProductIDs batch-resolves variant ids to their owning product ids.
func (r *productRepository) VariantProductIDs(variantIDs []uint) (map[uint]uint, error) {
	if len(variantIDs) == 0 {
		return map[uint]uint{}, nil
	}

	var variants []model.Variant
	err := r.db.Select("id", "product_id").Where("id IN ?", variantIDs).Find(&variants).Error
	if err != nil {
		logger.Error("Failed to resolve variant product ids", err, map[string]interface{}{
			"variant_count": len(variantIDs),
		})
		return nil, err
	}

	result := make(map[uint]uint, len(variants))
	for _, variant := range variants {
		result[variant.ID] = variant.ProductID
	}
	return result, nil
}

// PriceBounds scans active variant prices, optionally scoped to a category
// id set (primary or secondary assignment).
func (r *productRepository) PriceBounds(categoryIDs []uint) (PriceBounds, error) {
	query := r.db.Model(&model.Variant{}).
		Select("COALESCE(MIN(variants.price), 0) AS min, COALESCE(MAX(variants.price), 0) AS max").
		Joins("JOIN products ON products.id = variants.product_id AND products.deleted_at IS NULL").
		Where("variants.is_active = ?", true)

	if len(categoryIDs) > 0 {
		query = query.Where(
			`(products.category_id IN ? OR EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = products.id AND pc.category_id IN ?))`,
			categoryIDs, categoryIDs,
		)
	}

	var bounds PriceBounds
	if err := query.Scan(&bounds).Error; err != nil {
		logger.Error("Failed to scan price bounds", err, map[string]interface{}{
			"category_ids": len(categoryIDs),
		})
		return PriceBounds{}, err
	}
	return bounds, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}
