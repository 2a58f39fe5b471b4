package services

import (
	"context"
	"fmt"
	"time"

	"easyserve/internal/cache"
	"easyserve/internal/models"
	"easyserve/internal/repositories"
)

const (
	categoryListCacheKey = "categories:all"
	categoryCacheTTL     = 10 * time.Minute
)

type CategoryService struct {
	CategoryRepo *repositories.CategoryRepository
	Cache        *cache.Cache
}

func categoryCacheKey(id int) string {
	return fmt.Sprintf("categories:%d", id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	created, err := s.CategoryRepo.CreateCategory(ctx, category)
	if err != nil {
		return models.Category{}, err
	}
	s.Cache.Delete(ctx, categoryListCacheKey)
	return created, nil
}

func (s *CategoryService) GetCategoryByID(ctx context.Context, id int) (models.Category, error) {
	var category models.Category
	ok, err := s.Cache.GetJSON(ctx, categoryCacheKey(id), &category)
	if err == nil && ok {
		return category, nil
	}

	category, err = s.CategoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	s.Cache.SetJSON(ctx, categoryCacheKey(id), category, categoryCacheTTL)
	return category, nil
}

func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	ok, err := s.Cache.GetJSON(ctx, categoryListCacheKey, &categories)
	if err == nil && ok {
		return categories, nil
	}

	categories, err = s.CategoryRepo.GetAllCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.Cache.SetJSON(ctx, categoryListCacheKey, categories, categoryCacheTTL)
	return categories, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	updated, err := s.CategoryRepo.UpdateCategory(ctx, category)
	if err != nil {
		return models.Category{}, err
	}
	s.Cache.Delete(ctx, categoryListCacheKey, categoryCacheKey(category.ID))
	return updated, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int) error {
	if err := s.CategoryRepo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.Cache.Delete(ctx, categoryListCacheKey, categoryCacheKey(id))
	return nil
}
