package service

import (
	"testing"

	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/internal/app/repository"
	"github.com/evermart/catalog-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBestsellerServiceTest(t *testing.T) (BestsellerService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	return NewBestsellerService(orderRepo, productRepo), testDB
}

func createProductWithVariants(t *testing.T, testDB *gorm.DB, categoryID uint, slug string, prices ...float64) *model.Product {
	product := &model.Product{
		CategoryID: categoryID,
		Translations: []model.ProductTranslation{
			{Locale: "en", Title: slug, Slug: slug},
		},
	}
	for i, price := range prices {
		product.Variants = append(product.Variants, model.Variant{
			SKU:           slug + "-" + string(rune('a'+i)),
			Price:         price,
			StockQuantity: 10,
			IsActive:      true,
		})
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func createOrder(t *testing.T, testDB *gorm.DB, lines map[uint]int) {
	order := &model.Order{Status: model.OrderStatusDelivered}
	for variantID, quantity := range lines {
		id := variantID
		order.Items = append(order.Items, model.OrderItem{
			VariantID: &id,
			Quantity:  quantity,
			Price:     100,
		})
		order.Total += float64(quantity) * 100
	}
	require.NoError(t, testDB.Create(order).Error)
}

func TestBestsellerService_Rank_RollsVariantsUpToProducts(t *testing.T) {
	bestsellerService, testDB := setupBestsellerServiceTest(t)
	defer db.CleanupTestDB(testDB)

	category := createCategory(t, testDB, nil, "Shoes", "shoes")
	sneaker := createProductWithVariants(t, testDB, category.ID, "sneaker", 100, 120)
	boot := createProductWithVariants(t, testDB, category.ID, "boot", 200)
	sandal := createProductWithVariants(t, testDB, category.ID, "sandal", 50)

	// sneaker sells 3+4=7 across two variants, boot 5, sandal 1.
	createOrder(t, testDB, map[uint]int{
		sneaker.Variants[0].ID: 3,
		boot.Variants[0].ID:    5,
	})
	createOrder(t, testDB, map[uint]int{
		sneaker.Variants[1].ID: 4,
		sandal.Variants[0].ID:  1,
	})

	ranked, err := bestsellerService.Rank()
	require.NoError(t, err)
	assert.Equal(t, []uint{sneaker.ID, boot.ID, sandal.ID}, ranked)
}

func TestBestsellerService_Rank_EmptyWithoutSales(t *testing.T) {
	bestsellerService, testDB := setupBestsellerServiceTest(t)
	defer db.CleanupTestDB(testDB)

	category := createCategory(t, testDB, nil, "Shoes", "shoes")
	createProductWithVariants(t, testDB, category.ID, "sneaker", 100)

	ranked, err := bestsellerService.Rank()
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestBestsellerService_Rank_SkipsOrphanedVariants(t *testing.T) {
	bestsellerService, testDB := setupBestsellerServiceTest(t)
	defer db.CleanupTestDB(testDB)

	category := createCategory(t, testDB, nil, "Shoes", "shoes")
	boot := createProductWithVariants(t, testDB, category.ID, "boot", 200)

	// An order line pointing at a variant that no longer exists.
	ghost := uint(9999)
	order := &model.Order{
		Status: model.OrderStatusDelivered,
		Items: []model.OrderItem{
			{VariantID: &ghost, Quantity: 50, Price: 10},
			{VariantID: &boot.Variants[0].ID, Quantity: 2, Price: 200},
		},
	}
	require.NoError(t, testDB.Create(order).Error)

	ranked, err := bestsellerService.Rank()
	require.NoError(t, err)
	assert.Equal(t, []uint{boot.ID}, ranked)
}
