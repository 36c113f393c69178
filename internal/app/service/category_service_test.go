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

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	categoryRepo := repository.NewCategoryRepository(testDB)
	return NewCategoryService(categoryRepo), testDB
}

func createCategory(t *testing.T, testDB *gorm.DB, parentID *uint, title, slug string) *model.Category {
	category := &model.Category{
		ParentID:  parentID,
		Published: true,
		Translations: []model.CategoryTranslation{
			{Locale: "en", Title: title, Slug: slug},
		},
	}
	require.NoError(t, testDB.Create(category).Error)
	return category
}

func TestCategoryService_ExpandBySlug(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)
	defer db.CleanupTestDB(testDB)

	electronics := createCategory(t, testDB, nil, "Electronics", "electronics")
	phones := createCategory(t, testDB, &electronics.ID, "Phones", "phones")
	smartphones := createCategory(t, testDB, &phones.ID, "Smartphones", "smartphones")
	createCategory(t, testDB, &electronics.ID, "Laptops", "laptops")
	createCategory(t, testDB, nil, "Furniture", "furniture")

	ids, err := categoryService.ExpandBySlug("electronics", "en")
	require.NoError(t, err)
	assert.Len(t, ids, 4)
	assert.Contains(t, ids, electronics.ID)
	assert.Contains(t, ids, phones.ID)
	assert.Contains(t, ids, smartphones.ID)

	// A leaf expands to just itself.
	ids, err = categoryService.ExpandBySlug("smartphones", "en")
	require.NoError(t, err)
	assert.Equal(t, []uint{smartphones.ID}, ids)
}

func TestCategoryService_ExpandBySlug_Unresolvable(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)
	defer db.CleanupTestDB(testDB)

	ids, err := categoryService.ExpandBySlug("no-such-category", "en")
	assert.NoError(t, err)
	assert.Nil(t, ids)
}

func TestCategoryService_ExpandBySlug_UnpublishedHidden(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)
	defer db.CleanupTestDB(testDB)

	hidden := &model.Category{
		Published: false,
		Translations: []model.CategoryTranslation{
			{Locale: "en", Title: "Archive", Slug: "archive"},
		},
	}
	require.NoError(t, testDB.Create(hidden).Error)
	// Published=false is a zero value; Create relies on the column default,
	// so force it explicitly.
	require.NoError(t, testDB.Model(hidden).Update("published", false).Error)

	ids, err := categoryService.ExpandBySlug("archive", "en")
	assert.NoError(t, err)
	assert.Nil(t, ids)
}

func TestCategoryService_ExpandByID_CycleGuard(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)
	defer db.CleanupTestDB(testDB)

	a := createCategory(t, testDB, nil, "A", "a")
	b := createCategory(t, testDB, &a.ID, "B", "b")
	// Corrupt the tree into a cycle; expansion must still terminate.
	require.NoError(t, testDB.Model(a).Update("parent_id", b.ID).Error)

	ids, err := categoryService.ExpandByID(a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, ids)
}

func TestCategoryService_ExpandBySlug_LocaleFallback(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)
	defer db.CleanupTestDB(testDB)

	category := &model.Category{
		Published: true,
		Translations: []model.CategoryTranslation{
			{Locale: "de", Title: "Elektronik", Slug: "elektronik"},
		},
	}
	require.NoError(t, testDB.Create(category).Error)

	// The slug only exists under another locale; the lookup still resolves.
	ids, err := categoryService.ExpandBySlug("elektronik", "en")
	require.NoError(t, err)
	assert.Equal(t, []uint{category.ID}, ids)
}
