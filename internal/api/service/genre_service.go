package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error)
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.GenreResponse, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error) {
	genres, total, err := s.genreRepo.Search(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GenreResponse, 0, len(genres))
	for i := range genres {
		responses = append(responses, *dto.FromModelToGenreResponse(&genres[i]))
	}

	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *genreService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.GenreResponse, error) {
	genre := &models.Genre{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return dto.FromModelToGenreResponse(genre), nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.genreRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
