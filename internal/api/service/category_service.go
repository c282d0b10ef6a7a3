package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error)
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error) {
	categories, total, err := s.categoryRepo.Search(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *dto.FromModelToCategoryResponse(&categories[i]))
	}

	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return dto.FromModelToCategoryResponse(category), nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.categoryRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
