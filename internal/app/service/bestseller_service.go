package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/evermart/catalog-backend/internal/app/repository"
	"github.com/evermart/catalog-backend/pkg/cache"
	"github.com/evermart/catalog-backend/pkg/logger"
)

const (
	// bestsellerCandidateLimit caps the variant-level candidate set before the
	// product rollup. Sales history beyond the cap never surfaces.
	bestsellerCandidateLimit = 200

	bestsellerCacheKey = "catalog:bestsellers:v1"
	bestsellerCacheTTL = 15 * time.Minute
)

type BestsellerService interface {
	// Rank returns product ids ordered by total units sold, descending.
	// Products tied on quantity keep their first-seen order.
	Rank() ([]uint, error)
	// Refresh recomputes the ranking and rewrites the cache entry.
	Refresh() error
}

type bestsellerService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewBestsellerService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) BestsellerService {
	return &bestsellerService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func (s *bestsellerService) Rank() ([]uint, error) {
	if cache.GetClient() != nil {
		var ranked []uint
		err := cache.GetJSON(context.Background(), bestsellerCacheKey, &ranked)
		if err == nil {
			logger.Debug("Bestseller ranking served from cache", map[string]interface{}{
				"product_count": len(ranked),
			})
			return ranked, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn("Bestseller cache read failed, recomputing", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	ranked, err := s.compute()
	if err != nil {
		return nil, err
	}
	if cache.GetClient() != nil {
		if err := cache.SetJSON(context.Background(), bestsellerCacheKey, ranked, bestsellerCacheTTL); err != nil {
			logger.Warn("Failed to cache bestseller ranking", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return ranked, nil
}

func (s *bestsellerService) Refresh() error {
	ranked, err := s.compute()
	if err != nil {
		return err
	}
	if cache.GetClient() == nil {
		return nil
	}
	return cache.SetJSON(context.Background(), bestsellerCacheKey, ranked, bestsellerCacheTTL)
}

func (s *bestsellerService) compute() ([]uint, error) {
	sales, err := s.orderRepo.TopSellingVariants(bestsellerCandidateLimit)
	if err != nil {
		logger.Error("Failed to rank bestsellers", err)
		return nil, err
	}
	if len(sales) == 0 {
		return nil, nil
	}

	variantIDs := make([]uint, 0, len(sales))
	for _, sale := range sales {
		variantIDs = append(variantIDs, sale.VariantID)
	}

	productOf, err := s.productRepo.VariantProductIDs(variantIDs)
	if err != nil {
		return nil, err
	}

	// Roll variant quantities up to product level, keeping first-seen order
	// so the stable sort below leaves ties deterministic.
	totals := make(map[uint]int)
	ranked := make([]uint, 0, len(sales))
	for _, sale := range sales {
		productID, ok := productOf[sale.VariantID]
		if !ok {
			continue
		}
		if _, seen := totals[productID]; !seen {
			ranked = append(ranked, productID)
		}
		totals[productID] += sale.TotalQuantity
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return totals[ranked[i]] > totals[ranked[j]]
	})

	logger.Info("Bestseller ranking computed", map[string]interface{}{
		"variant_count": len(sales),
		"product_count": len(ranked),
	})
	return ranked, nil
}
