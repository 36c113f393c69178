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

func setupSettingsServiceTest(t *testing.T) (SettingsService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	settingsRepo := repository.NewSettingsRepository(testDB)
	return NewSettingsService(settingsRepo), testDB
}

func TestSettingsService_Snapshot_EmptyDatabase(t *testing.T) {
	settingsService, testDB := setupSettingsServiceTest(t)
	defer db.CleanupTestDB(testDB)

	snapshot, err := settingsService.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 0.0, snapshot.Global)
	assert.Empty(t, snapshot.Category)
	assert.Empty(t, snapshot.Brand)
}

func TestSettingsService_UpdateAndSnapshot(t *testing.T) {
	settingsService, testDB := setupSettingsServiceTest(t)
	defer db.CleanupTestDB(testDB)

	view, err := settingsService.UpdateSettings(SettingsInput{
		GlobalDiscountPercent: 5,
		PriceStepSize:         1000,
		CategoryDiscounts: []model.CategoryDiscount{
			{CategoryID: 10, Percent: 20},
		},
		BrandDiscounts: []model.BrandDiscount{
			{BrandID: 7, Percent: 15},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, view.GlobalDiscountPercent)
	assert.Len(t, view.CategoryDiscounts, 1)
	assert.Len(t, view.BrandDiscounts, 1)

	snapshot, err := settingsService.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 5.0, snapshot.Global)
	assert.Equal(t, 20.0, snapshot.Category[10])
	assert.Equal(t, 15.0, snapshot.Brand[7])
}

func TestSettingsService_UpdateSettings_ClampsOnWrite(t *testing.T) {
	settingsService, testDB := setupSettingsServiceTest(t)
	defer db.CleanupTestDB(testDB)

	view, err := settingsService.UpdateSettings(SettingsInput{
		GlobalDiscountPercent: 180,
		CategoryDiscounts: []model.CategoryDiscount{
			{CategoryID: 1, Percent: -30},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, view.GlobalDiscountPercent)
	assert.Equal(t, 0.0, view.CategoryDiscounts[0].Percent)
}

func TestSettingsService_Snapshot_ClampsOnRead(t *testing.T) {
	settingsService, testDB := setupSettingsServiceTest(t)
	defer db.CleanupTestDB(testDB)

	// A row written before clamping existed.
	require.NoError(t, testDB.Create(&model.CatalogSettings{GlobalDiscountPercent: 140}).Error)
	require.NoError(t, testDB.Create(&model.CategoryDiscount{CategoryID: 3, Percent: 120}).Error)

	snapshot, err := settingsService.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 100.0, snapshot.Global)
	assert.Equal(t, 100.0, snapshot.Category[3])
}

func TestSettingsService_UpdateSettings_ReplacesDiscountRows(t *testing.T) {
	settingsService, testDB := setupSettingsServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := settingsService.UpdateSettings(SettingsInput{
		CategoryDiscounts: []model.CategoryDiscount{
			{CategoryID: 1, Percent: 10},
			{CategoryID: 2, Percent: 20},
		},
	})
	require.NoError(t, err)

	// A second update fully replaces the previous rows.
	view, err := settingsService.UpdateSettings(SettingsInput{
		CategoryDiscounts: []model.CategoryDiscount{
			{CategoryID: 3, Percent: 30},
		},
	})
	require.NoError(t, err)
	require.Len(t, view.CategoryDiscounts, 1)
	assert.Equal(t, uint(3), view.CategoryDiscounts[0].CategoryID)

	var count int64
	require.NoError(t, testDB.Model(&model.CategoryDiscount{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettingsService_PriceHints(t *testing.T) {
	settingsService, testDB := setupSettingsServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := settingsService.UpdateSettings(SettingsInput{
		PriceStepSize: 500,
		PriceStepPerCurrency: map[string]float64{
			"USD": 10,
			"JPY": 1000,
		},
	})
	require.NoError(t, err)

	step, perCurrency, err := settingsService.PriceHints()
	require.NoError(t, err)
	assert.Equal(t, 500.0, step)
	assert.Equal(t, 10.0, perCurrency["USD"])
	assert.Equal(t, 1000.0, perCurrency["JPY"])
}
