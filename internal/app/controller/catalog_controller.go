package controller

import (
	goerrors "errors"
	"net/http"
	"strconv"

	"github.com/evermart/catalog-backend/internal/app/service"
	"github.com/evermart/catalog-backend/internal/errors"
	"github.com/evermart/catalog-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// localeFromQuery reads the lang parameter, keeping locale as an alias.
func localeFromQuery(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return lang
	}
	return c.Query("locale")
}

// ListProducts returns a filtered, sorted product page
// GET /api/v1/products
func (ctrl *CatalogController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.ListOptions{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		Locale:       localeFromQuery(c),
		ListOnly:     c.Query("list_only") == "true",
	}

	switch filter := c.Query("filter"); filter {
	case "", service.ListFilterNew, service.ListFilterFeatured, service.ListFilterBestseller:
		opts.Filter = filter
	default:
		log.Warn("Invalid list filter", map[string]interface{}{
			"filter": filter,
		})
		errors.BadRequest(c, errors.CatalogInvalidFilter, "Unknown filter: "+filter)
		return
	}

	switch sort := c.Query("sort"); sort {
	case "", "created_at":
		opts.Sort = "created_at"
	case "price":
		opts.Sort = "price"
		opts.SortAscending = c.DefaultQuery("order", "asc") == "asc"
	default:
		log.Warn("Invalid sort key", map[string]interface{}{
			"sort": sort,
		})
		errors.BadRequest(c, errors.CatalogInvalidSort, "Unknown sort key: "+sort)
		return
	}

	if raw := c.Query("min_price"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidRange, "Invalid min_price")
			return
		}
		opts.MinPrice = &value
	}
	if raw := c.Query("max_price"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidRange, "Invalid max_price")
			return
		}
		opts.MaxPrice = &value
	}

	if raw := c.Query("page"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			errors.BadRequest(c, errors.ValidationInvalidRange, "Invalid page")
			return
		}
		opts.Page = value
	}
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 || value > 100 {
			errors.BadRequest(c, errors.ValidationInvalidRange, "Invalid limit")
			return
		}
		opts.Limit = value
	}

	listing, err := ctrl.catalogService.ListProducts(opts)
	if err != nil {
		log.Error("Failed to list products", err, map[string]interface{}{
			"category": opts.CategorySlug,
			"filter":   opts.Filter,
		})
		errors.InternalError(c, "Failed to fetch products")
		return
	}

	log.Info("Products listed", map[string]interface{}{
		"count": len(listing.Products),
		"total": listing.Meta.Total,
	})

	c.JSON(http.StatusOK, gin.H{
		"products": listing.Products,
		"meta":     listing.Meta,
	})
}

// GetProductDetail returns a single product with variants and colors
// GET /api/v1/products/:slug
func (ctrl *CatalogController) GetProductDetail(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	slug := c.Param("slug")
	locale := localeFromQuery(c)

	product, err := ctrl.catalogService.GetProductDetail(slug, locale)
	if err != nil {
		if goerrors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found", map[string]interface{}{
				"slug": slug,
			})
			errors.NotFound(c, errors.CatalogProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"slug": slug,
		})
		errors.InternalError(c, "Failed to fetch product")
		return
	}

	log.Info("Product fetched", map[string]interface{}{
		"product_id": product.ID,
		"slug":       slug,
	})

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetPriceRange returns the rounded price bounds for the slider UI
// GET /api/v1/products/price-range
func (ctrl *CatalogController) GetPriceRange(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categorySlug := c.Query("category")
	locale := localeFromQuery(c)

	priceRange, err := ctrl.catalogService.GetPriceRange(categorySlug, locale)
	if err != nil {
		log.Error("Failed to fetch price range", err, map[string]interface{}{
			"category": categorySlug,
		})
		errors.InternalError(c, "Failed to fetch price range")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"price_range": priceRange,
	})
}
