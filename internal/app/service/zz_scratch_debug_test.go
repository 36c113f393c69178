package service

import (
	"fmt"
	"testing"

	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/internal/app/repository"
	"github.com/evermart/catalog-backend/internal/db"
	"github.com/stretchr/testify/require"
)

func TestZZScratchJSONMapRoundTrip(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := repository.NewSettingsRepository(testDB)
	settings, _, _, err := repo.Load()
	require.NoError(t, err)
	settings.PriceStepSize = 500
	settings.PriceStepPerCurrency = map[string]interface{}{"USD": 10.0}
	require.NoError(t, repo.Save(&settings))

	loaded, _, _, err := repo.Load()
	require.NoError(t, err)
	fmt.Printf("SCRATCH loaded: step=%v map=%#v\n", loaded.PriceStepSize, loaded.PriceStepPerCurrency)

	var raw string
	testDB.Raw("SELECT COALESCE(CAST(price_step_per_currency AS TEXT),'<null>') FROM catalog_settings").Scan(&raw)
	fmt.Printf("SCRATCH raw column: %q\n", raw)

	var s2 model.CatalogSettings
	require.NoError(t, testDB.First(&s2).Error)
	fmt.Printf("SCRATCH refetch: %#v\n", s2.PriceStepPerCurrency)
}
