package service

import (
	"errors"

	"github.com/evermart/catalog-backend/internal/app/repository"
	"github.com/evermart/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryService interface {
	// ExpandBySlug resolves a localized slug and returns that category id
	// together with every transitive descendant id. A nil result with a nil
	// error means the slug did not resolve; callers render an empty page
	// rather than an error.
	ExpandBySlug(slug, locale string) ([]uint, error)
	// ExpandByID returns the reflexive-transitive closure of the parent/child
	// relation starting at id.
	ExpandByID(id uint) ([]uint, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ExpandBySlug(slug, locale string) ([]uint, error) {
	id, err := s.categoryRepo.FindIDBySlug(slug, locale)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Category slug did not resolve", map[string]interface{}{
				"slug":   slug,
				"locale": locale,
			})
			return nil, nil
		}
		logger.Error("Failed to resolve category slug", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return s.ExpandByID(id)
}

// ExpandByID walks the category tree breadth-first, fetching each frontier
// level's children in a single query. The visited set guards against an
// accidental cycle in otherwise-acyclic data.
func (s *categoryService) ExpandByID(id uint) ([]uint, error) {
	ids := []uint{id}
	visited := map[uint]bool{id: true}
	frontier := []uint{id}

	for len(frontier) > 0 {
		children, err := s.categoryRepo.FindChildIDs(frontier)
		if err != nil {
			logger.Error("Failed to expand category children", err, map[string]interface{}{
				"category_id": id,
			})
			return nil, err
		}

		next := make([]uint, 0, len(children))
		for _, child := range children {
			if visited[child] {
				continue
			}
			visited[child] = true
			ids = append(ids, child)
			next = append(next, child)
		}
		frontier = next
	}

	logger.Debug("Category expanded", map[string]interface{}{
		"category_id": id,
		"total_ids":   len(ids),
	})
	return ids, nil
}
