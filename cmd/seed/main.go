package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/evermart/catalog-backend/config"
	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/internal/app/repository"
	"github.com/evermart/catalog-backend/internal/db"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Expected sheet layout, one row per variant:
// title | subtitle | slug | description | category_slug | sku | price | stock | color | image_url | featured
const expectedColumns = 11

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath, categoryRepo, cfg.Catalog.DefaultLocale)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d (skipped rows: %d)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			fmt.Printf("Failed to import product %q: %v\n", products[i].Translations[0].Slug, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", imported)
}

func readProductsFromXLSX(filePath string, categoryRepo repository.CategoryRepository, locale string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	productIndex := make(map[string]int) // slug -> index into products
	categoryCache := make(map[string]uint)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < expectedColumns {
			skipped++
			continue
		}

		title := strings.TrimSpace(row[0])
		subtitle := strings.TrimSpace(row[1])
		slug := strings.TrimSpace(row[2])
		description := strings.TrimSpace(row[3])
		categorySlug := strings.TrimSpace(row[4])
		sku := strings.TrimSpace(row[5])
		priceStr := strings.TrimSpace(row[6])
		stockStr := strings.TrimSpace(row[7])
		color := strings.TrimSpace(row[8])
		imageURL := strings.TrimSpace(row[9])
		featuredStr := strings.TrimSpace(row[10])

		if title == "" || slug == "" || sku == "" || categorySlug == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}
		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			stock = 0
		}

		variant := model.Variant{
			SKU:           sku,
			Price:         price,
			StockQuantity: stock,
			ImageURL:      imageURL,
			IsActive:      true,
		}
		if color != "" {
			variant.Options = []model.VariantOption{{
				AttributeKey: model.AttributeCodeColor,
				RawValue:     color,
			}}
		}

		if at, seen := productIndex[slug]; seen {
			products[at].Variants = append(products[at].Variants, variant)
			continue
		}

		categoryID, err := resolveCategory(categoryRepo, categoryCache, categorySlug, locale)
		if err != nil {
			return nil, 0, err
		}

		product := model.Product{
			CategoryID: categoryID,
			Featured:   strings.EqualFold(featuredStr, "true") || featuredStr == "1",
			Translations: []model.ProductTranslation{{
				Locale:      locale,
				Title:       title,
				Subtitle:    subtitle,
				Slug:        slug,
				Description: description,
			}},
			Variants: []model.Variant{variant},
		}
		productIndex[slug] = len(products)
		products = append(products, product)
	}

	return products, skipped, nil
}

// resolveCategory finds a category by slug, creating a published root category
// on first sight of an unknown slug.
func resolveCategory(categoryRepo repository.CategoryRepository, cache map[string]uint, slug, locale string) (uint, error) {
	if id, ok := cache[slug]; ok {
		return id, nil
	}

	id, err := categoryRepo.FindIDBySlug(slug, locale)
	if err == nil {
		cache[slug] = id
		return id, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to resolve category %q: %w", slug, err)
	}

	category := model.Category{
		Published: true,
		Translations: []model.CategoryTranslation{{
			Locale: locale,
			Title:  titleFromSlug(slug),
			Slug:   slug,
		}},
	}
	if err := categoryRepo.Create(&category); err != nil {
		return 0, fmt.Errorf("failed to create category %q: %w", slug, err)
	}

	fmt.Printf("Created category: %s\n", slug)
	cache[slug] = category.ID
	return category.ID, nil
}

func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
