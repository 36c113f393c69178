package service

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/internal/app/repository"
	"github.com/evermart/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

const (
	ListFilterNew        = "new"
	ListFilterFeatured   = "featured"
	ListFilterBestseller = "bestseller"

	// DefaultLocale is used when a request carries no locale and as the
	// translation fallback chain's second step.
	DefaultLocale = "en"

	// newWindow is how far back a product's creation date may lie for the
	// "new" filter.
	newWindow = 30 * 24 * time.Hour

	priceRoundingUnit = 1000.0
)

// outOfStockText holds the localized badge text per supported locale, and
// doubles as the recognition set for deduplicating author-set labels.
var outOfStockText = map[string]string{
	"en": "Out of Stock",
	"de": "Ausverkauft",
	"es": "Agotado",
	"fr": "Épuisé",
	"ru": "Нет в наличии",
}

// ListOptions is the raw listing request after controller-side parsing.
type ListOptions struct {
	CategorySlug  string
	Search        string
	Filter        string
	MinPrice      *float64
	MaxPrice      *float64
	Sort          string
	SortAscending bool
	Page          int
	Limit         int
	Locale        string
	// ListOnly requests the minimal grid projection: no per-variant rows.
	ListOnly bool
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type LabelView struct {
	Text     string `json:"text"`
	Position string `json:"position"`
	Color    string `json:"color,omitempty"`
}

type BrandView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type VariantView struct {
	ID             uint     `json:"id"`
	SKU            string   `json:"sku"`
	Price          float64  `json:"price"`
	FinalPrice     float64  `json:"final_price"`
	CompareAtPrice *float64 `json:"compare_at_price,omitempty"`
	StockQuantity  int      `json:"stock_quantity"`
	IsActive       bool     `json:"is_active"`
	Images         []string `json:"images,omitempty"`
}

// ProductView is the serialized product card. Colors and Variants are filled
// only in detail mode.
type ProductView struct {
	ID               uint          `json:"id"`
	Title            string        `json:"title"`
	Subtitle         string        `json:"subtitle,omitempty"`
	Slug             string        `json:"slug"`
	Description      string        `json:"description,omitempty"`
	CategoryID       uint          `json:"category_id"`
	CategoryTitle    string        `json:"category_title,omitempty"`
	Brand            *BrandView    `json:"brand,omitempty"`
	Price            float64       `json:"price"`
	FinalPrice       float64       `json:"final_price"`
	DiscountPercent  float64       `json:"discount_percent,omitempty"`
	InStock          bool          `json:"in_stock"`
	Featured         bool          `json:"featured"`
	MinOrderQuantity int           `json:"min_order_quantity"`
	OrderIncrement   int           `json:"order_increment"`
	Images           []string      `json:"images"`
	Labels           []LabelView   `json:"labels,omitempty"`
	Colors           []ColorInfo   `json:"colors,omitempty"`
	Variants         []VariantView `json:"variants,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

type ProductListing struct {
	Products []ProductView `json:"products"`
	Meta     PageMeta      `json:"meta"`
}

type PriceRange struct {
	Min          float64            `json:"min"`
	Max          float64            `json:"max"`
	Step         float64            `json:"step,omitempty"`
	StepCurrency map[string]float64 `json:"step_per_currency,omitempty"`
}

type CatalogService interface {
	ListProducts(opts ListOptions) (ProductListing, error)
	GetProductDetail(slug, locale string) (ProductView, error)
	GetPriceRange(categorySlug, locale string) (PriceRange, error)
}

type catalogService struct {
	productRepo   repository.ProductRepository
	attributeRepo repository.AttributeRepository
	categories    CategoryService
	bestsellers   BestsellerService
	settings      SettingsService
	defaultLimit  int
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	attributeRepo repository.AttributeRepository,
	categories CategoryService,
	bestsellers BestsellerService,
	settings SettingsService,
	defaultLimit int,
) CatalogService {
	if defaultLimit <= 0 {
		defaultLimit = 24
	}
	return &catalogService{
		productRepo:   productRepo,
		attributeRepo: attributeRepo,
		categories:    categories,
		bestsellers:   bestsellers,
		settings:      settings,
		defaultLimit:  defaultLimit,
	}
}

func (s *catalogService) ListProducts(opts ListOptions) (ProductListing, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = s.defaultLimit
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}

	logger.Debug("Listing products", map[string]interface{}{
		"category_slug": opts.CategorySlug,
		"search":        opts.Search,
		"filter":        opts.Filter,
		"sort":          opts.Sort,
		"page":          opts.Page,
		"limit":         opts.Limit,
	})

	var categoryIDs []uint
	if opts.CategorySlug != "" {
		ids, err := s.categories.ExpandBySlug(opts.CategorySlug, opts.Locale)
		if err != nil {
			return ProductListing{}, err
		}
		if len(ids) == 0 {
			return s.emptyListing(opts), nil
		}
		categoryIDs = ids
	}

	filter := s.compileFilter(opts, categoryIDs, time.Now())

	var (
		products []model.Product
		total    int64
		err      error
	)
	if opts.Filter == ListFilterBestseller {
		products, total, err = s.fetchBestsellers(filter, opts)
	} else {
		products, total, err = s.fetchPage(filter, opts)
	}
	if err != nil {
		return ProductListing{}, err
	}
	if total == 0 {
		return s.emptyListing(opts), nil
	}

	snapshot, err := s.settings.Snapshot()
	if err != nil {
		return ProductListing{}, err
	}

	views := make([]ProductView, 0, len(products))
	for i := range products {
		view := s.buildView(&products[i], snapshot, nil, opts.Locale, false)
		if !opts.ListOnly {
			view.Variants = variantViews(&products[i], view.DiscountPercent)
		}
		views = append(views, view)
	}

	return ProductListing{
		Products: views,
		Meta:     buildMeta(total, opts.Page, opts.Limit),
	}, nil
}

func (s *catalogService) GetProductDetail(slug, locale string) (ProductView, error) {
	if locale == "" {
		locale = DefaultLocale
	}

	product, err := s.productRepo.FindBySlug(slug, locale)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductView{}, ErrProductNotFound
		}
		return ProductView{}, err
	}

	snapshot, err := s.settings.Snapshot()
	if err != nil {
		return ProductView{}, err
	}

	colorValues, err := s.attributeRepo.FindColorValues()
	if err != nil {
		logger.Warn("Color catalog unavailable, skipping enrichment", map[string]interface{}{
			"error": err.Error(),
		})
		colorValues = nil
	}

	return s.buildView(product, snapshot, colorValues, locale, true), nil
}

func (s *catalogService) GetPriceRange(categorySlug, locale string) (PriceRange, error) {
	if locale == "" {
		locale = DefaultLocale
	}

	step, stepPerCurrency, err := s.settings.PriceHints()
	if err != nil {
		return PriceRange{}, err
	}

	var categoryIDs []uint
	if categorySlug != "" {
		ids, err := s.categories.ExpandBySlug(categorySlug, locale)
		if err != nil {
			return PriceRange{}, err
		}
		if len(ids) == 0 {
			return PriceRange{Step: step, StepCurrency: stepPerCurrency}, nil
		}
		categoryIDs = ids
	}

	bounds, err := s.productRepo.PriceBounds(categoryIDs)
	if err != nil {
		return PriceRange{}, err
	}

	return PriceRange{
		Min:          math.Floor(bounds.Min/priceRoundingUnit) * priceRoundingUnit,
		Max:          math.Ceil(bounds.Max/priceRoundingUnit) * priceRoundingUnit,
		Step:         step,
		StepCurrency: stepPerCurrency,
	}, nil
}

// compileFilter translates the request options into the repository predicate.
func (s *catalogService) compileFilter(opts ListOptions, categoryIDs []uint, now time.Time) repository.ProductFilter {
	filter := repository.ProductFilter{
		Search:      opts.Search,
		CategoryIDs: categoryIDs,
		MinPrice:    opts.MinPrice,
		MaxPrice:    opts.MaxPrice,
	}

	switch opts.Filter {
	case ListFilterNew:
		cutoff := now.Add(-newWindow)
		filter.CreatedAfter = &cutoff
	case ListFilterFeatured:
		filter.FeaturedOnly = true
	}

	switch opts.Sort {
	case string(repository.ProductSortPrice):
		filter.SortBy = repository.ProductSortPrice
		filter.SortAscending = opts.SortAscending
	default:
		filter.SortBy = repository.ProductSortCreatedAt
	}

	return filter
}

func (s *catalogService) fetchPage(filter repository.ProductFilter, opts ListOptions) ([]model.Product, int64, error) {
	total, err := s.productRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	filter.Limit = opts.Limit
	filter.Offset = (opts.Page - 1) * opts.Limit
	products, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// fetchBestsellers pages through the sales ranking rather than a SQL order.
// The count honors every other predicate so meta.total matches what paging
// can actually reach.
func (s *catalogService) fetchBestsellers(filter repository.ProductFilter, opts ListOptions) ([]model.Product, int64, error) {
	ranked, err := s.bestsellers.Rank()
	if err != nil {
		return nil, 0, err
	}
	if len(ranked) == 0 {
		return nil, 0, nil
	}

	countFilter := filter
	countFilter.IDs = ranked
	total, err := s.productRepo.Count(countFilter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	offset := (opts.Page - 1) * opts.Limit
	if offset >= len(ranked) {
		return nil, total, nil
	}
	end := offset + opts.Limit
	if end > len(ranked) {
		end = len(ranked)
	}

	pageFilter := filter
	pageFilter.IDs = ranked[offset:end]
	products, err := s.productRepo.FindWithFilter(pageFilter)
	if err != nil {
		return nil, 0, err
	}

	// SQL returns the page in arbitrary order; restore the sales ranking.
	position := make(map[uint]int, end-offset)
	for i, id := range ranked[offset:end] {
		position[id] = i
	}
	sort.SliceStable(products, func(i, j int) bool {
		return position[products[i].ID] < position[products[j].ID]
	})

	return products, total, nil
}

func (s *catalogService) emptyListing(opts ListOptions) ProductListing {
	return ProductListing{
		Products: []ProductView{},
		Meta:     buildMeta(0, opts.Page, opts.Limit),
	}
}

func buildMeta(total int64, page, limit int) PageMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

func (s *catalogService) buildView(product *model.Product, snapshot DiscountSnapshot, colorValues []model.AttributeValue, locale string, detail bool) ProductView {
	translation := pickProductTranslation(product, locale)
	discount := ResolveDiscount(product, snapshot)
	price := lowestActivePrice(product)

	view := ProductView{
		ID:               product.ID,
		Title:            translation.Title,
		Subtitle:         translation.Subtitle,
		Slug:             translation.Slug,
		CategoryID:       product.CategoryID,
		CategoryTitle:    product.Category.Title(locale),
		Price:            price,
		FinalPrice:       EffectivePrice(price, discount),
		DiscountPercent:  discount,
		InStock:          hasStock(product, detail),
		Featured:         product.Featured,
		MinOrderQuantity: product.MinOrderQuantity,
		OrderIncrement:   product.OrderIncrement,
		Images:           mainImageURLs(product),
		Labels:           buildLabels(product, locale, detail),
		CreatedAt:        product.CreatedAt,
	}

	if product.Brand != nil {
		view.Brand = &BrandView{
			ID:   product.Brand.ID,
			Name: product.Brand.Name(locale),
		}
	}

	if detail {
		view.Description = translation.Description
		view.Colors = CollectColors(product, colorValues, locale)
		view.Variants = variantViews(product, discount)
	}

	return view
}

func variantViews(product *model.Product, discount float64) []VariantView {
	views := make([]VariantView, 0, len(product.Variants))
	for _, variant := range product.Variants {
		views = append(views, VariantView{
			ID:             variant.ID,
			SKU:            variant.SKU,
			Price:          variant.Price,
			FinalPrice:     EffectivePrice(variant.Price, discount),
			CompareAtPrice: variant.CompareAtPrice,
			StockQuantity:  variant.StockQuantity,
			IsActive:       variant.IsActive,
			Images:         splitImageList(variant.ImageURL),
		})
	}
	return views
}

// buildLabels passes author-set labels through and synthesizes the localized
// out-of-stock badge when stock warrants it. The synthesized badge goes
// top-left unless an author label already sits there, then top-right. An
// author label that already reads as the out-of-stock text suppresses the
// synthesized one.
func buildLabels(product *model.Product, locale string, detail bool) []LabelView {
	labels := make([]LabelView, 0, len(product.Labels)+1)
	topLeftTaken := false
	hasStockLabel := false

	for _, label := range product.Labels {
		position := label.Position
		if position == "" {
			position = "top-left"
		}
		if position == "top-left" {
			topLeftTaken = true
		}
		if isOutOfStockText(label.Text) {
			hasStockLabel = true
		}
		labels = append(labels, LabelView{
			Text:     label.Text,
			Position: position,
			Color:    label.Color,
		})
	}

	if !hasStockLabel && shouldFlagOutOfStock(product, detail) {
		position := "top-left"
		if topLeftTaken {
			position = "top-right"
		}
		text, ok := outOfStockText[locale]
		if !ok {
			text = outOfStockText[DefaultLocale]
		}
		labels = append(labels, LabelView{Text: text, Position: position})
	}

	if len(labels) == 0 {
		return nil
	}
	return labels
}

func isOutOfStockText(text string) bool {
	for _, localized := range outOfStockText {
		if strings.EqualFold(strings.TrimSpace(text), localized) {
			return true
		}
	}
	return false
}

// shouldFlagOutOfStock checks stock depletion. Detail pages flag only when
// every variant is empty; listing cards go by the cheapest active variant,
// which is the one the card's price represents.
func shouldFlagOutOfStock(product *model.Product, detail bool) bool {
	if len(product.Variants) == 0 {
		return false
	}
	if detail {
		for _, variant := range product.Variants {
			if variant.StockQuantity > 0 {
				return false
			}
		}
		return true
	}
	cheapest := cheapestActiveVariant(product)
	if cheapest == nil {
		return true
	}
	return cheapest.StockQuantity <= 0
}

// hasStock mirrors the label rule: listing cards go by the cheapest active
// variant, detail pages by any variant.
func hasStock(product *model.Product, detail bool) bool {
	if len(product.Variants) == 0 {
		return false
	}
	if detail {
		for _, variant := range product.Variants {
			if variant.StockQuantity > 0 {
				return true
			}
		}
		return false
	}
	cheapest := cheapestActiveVariant(product)
	return cheapest != nil && cheapest.StockQuantity > 0
}

func cheapestActiveVariant(product *model.Product) *model.Variant {
	var cheapest *model.Variant
	for i := range product.Variants {
		variant := &product.Variants[i]
		if !variant.IsActive {
			continue
		}
		if cheapest == nil || variant.Price < cheapest.Price {
			cheapest = variant
		}
	}
	return cheapest
}

func lowestActivePrice(product *model.Product) float64 {
	if cheapest := cheapestActiveVariant(product); cheapest != nil {
		return cheapest.Price
	}
	return 0
}

// mainImageURLs returns the product gallery minus any image a variant claims
// as its own, so listing thumbnails never show a single color's shot.
func mainImageURLs(product *model.Product) []string {
	variantOwned := map[string]bool{}
	for _, variant := range product.Variants {
		for _, url := range splitImageList(variant.ImageURL) {
			variantOwned[url] = true
		}
	}

	images := make([]model.ProductImage, len(product.Images))
	copy(images, product.Images)
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].SortOrder != images[j].SortOrder {
			return images[i].SortOrder < images[j].SortOrder
		}
		return images[i].ID < images[j].ID
	})

	urls := make([]string, 0, len(images))
	for _, image := range images {
		if variantOwned[image.URL] {
			continue
		}
		urls = append(urls, image.URL)
	}
	return urls
}

func splitImageList(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		if url := strings.TrimSpace(part); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

func pickProductTranslation(product *model.Product, locale string) model.ProductTranslation {
	var fallback *model.ProductTranslation
	for i := range product.Translations {
		translation := &product.Translations[i]
		if translation.Locale == locale {
			return *translation
		}
		if translation.Locale == DefaultLocale && fallback == nil {
			fallback = translation
		}
	}
	if fallback != nil {
		return *fallback
	}
	if len(product.Translations) > 0 {
		return product.Translations[0]
	}
	return model.ProductTranslation{}
}
