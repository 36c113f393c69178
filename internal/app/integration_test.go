package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evermart/catalog-backend/internal/app/controller"
	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/internal/app/repository"
	"github.com/evermart/catalog-backend/internal/app/service"
	"github.com/evermart/catalog-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	// Setup database
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	// Setup repositories
	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	settingsRepo := repository.NewSettingsRepository(testDB)
	attributeRepo := repository.NewAttributeRepository(testDB)

	// Setup services
	categoryService := service.NewCategoryService(categoryRepo)
	bestsellerService := service.NewBestsellerService(orderRepo, productRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	catalogService := service.NewCatalogService(
		productRepo,
		attributeRepo,
		categoryService,
		bestsellerService,
		settingsService,
		24,
	)

	// Setup controllers
	catalogController := controller.NewCatalogController(catalogService)
	settingsController := controller.NewSettingsController(settingsService)

	// Setup router
	router := gin.New()

	products := router.Group("/api/v1/products")
	{
		products.GET("", catalogController.ListProducts)
		products.GET("/price-range", catalogController.GetPriceRange)
		products.GET("/:slug", catalogController.GetProductDetail)
	}

	settings := router.Group("/api/v1/settings")
	{
		settings.GET("/discounts", settingsController.GetDiscounts)
		settings.PUT("/discounts", settingsController.UpdateDiscounts)
	}

	return &TestServer{
		Router: router,
		DB:     testDB,
	}
}

func seedCatalog(t *testing.T, testDB *gorm.DB) (*model.Category, *model.Product) {
	category := &model.Category{
		Published: true,
		Translations: []model.CategoryTranslation{
			{Locale: "en", Title: "Shoes", Slug: "shoes"},
		},
	}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		CategoryID: category.ID,
		Translations: []model.ProductTranslation{
			{Locale: "en", Title: "Leather Boot", Slug: "leather-boot"},
		},
		Variants: []model.Variant{
			{SKU: "LB-1", Price: 2500, StockQuantity: 4, IsActive: true},
		},
	}
	require.NoError(t, testDB.Create(product).Error)
	return category, product
}

func TestCatalogBrowsingJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	_, product := seedCatalog(t, ts.DB)

	// 1. Apply a global discount through the admin endpoint
	t.Log("Step 1: Configure discounts")
	settingsBody, _ := json.Marshal(map[string]interface{}{
		"global_discount_percent": 10,
		"price_step_size":         1000,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/discounts", bytes.NewReader(settingsBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// 2. Browse the category listing
	t.Log("Step 2: List products by category")
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products?category=shoes", nil)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Products []struct {
			ID         uint    `json:"id"`
			Slug       string  `json:"slug"`
			Price      float64 `json:"price"`
			FinalPrice float64 `json:"final_price"`
		} `json:"products"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Products, 1)
	assert.Equal(t, int64(1), listResp.Meta.Total)
	assert.Equal(t, "leather-boot", listResp.Products[0].Slug)
	assert.Equal(t, 2500.0, listResp.Products[0].Price)
	assert.Equal(t, 2250.0, listResp.Products[0].FinalPrice)

	// 3. Open the product detail page
	t.Log("Step 3: Product detail")
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/leather-boot", nil)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var detailResp struct {
		Product struct {
			ID       uint `json:"id"`
			Variants []struct {
				SKU string `json:"sku"`
			} `json:"variants"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detailResp))
	assert.Equal(t, product.ID, detailResp.Product.ID)
	require.Len(t, detailResp.Product.Variants, 1)
	assert.Equal(t, "LB-1", detailResp.Product.Variants[0].SKU)

	// 4. Fetch the price slider bounds
	t.Log("Step 4: Price range")
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/price-range?category=shoes", nil)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var rangeResp struct {
		PriceRange struct {
			Min  float64 `json:"min"`
			Max  float64 `json:"max"`
			Step float64 `json:"step"`
		} `json:"price_range"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rangeResp))
	assert.Equal(t, 2000.0, rangeResp.PriceRange.Min)
	assert.Equal(t, 3000.0, rangeResp.PriceRange.Max)
	assert.Equal(t, 1000.0, rangeResp.PriceRange.Step)
}

func TestLangParameterSelectsLocale(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	_, product := seedCatalog(t, ts.DB)
	require.NoError(t, ts.DB.Create(&model.ProductTranslation{
		ProductID: product.ID,
		Locale:    "de",
		Title:     "Lederstiefel",
		Slug:      "lederstiefel",
	}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?lang=de", nil)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Products []struct {
			Title string `json:"title"`
			Slug  string `json:"slug"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Products, 1)
	assert.Equal(t, "Lederstiefel", listResp.Products[0].Title)
	assert.Equal(t, "lederstiefel", listResp.Products[0].Slug)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/lederstiefel?lang=de", nil)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var detailResp struct {
		Product struct {
			Title string `json:"title"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detailResp))
	assert.Equal(t, "Lederstiefel", detailResp.Product.Title)
}

func TestUnknownCategoryRendersEmptyPage(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	seedCatalog(t, ts.DB)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=does-not-exist", nil)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Products []json.RawMessage `json:"products"`
		Meta     struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Empty(t, listResp.Products)
	assert.Equal(t, int64(0), listResp.Meta.Total)
}

func TestUnknownProductReturns404(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/missing-product", nil)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var errResp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "CATALOG_PRODUCT_NOT_FOUND", errResp.Error)
}

func TestInvalidFilterReturns400(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?filter=trending", nil)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
