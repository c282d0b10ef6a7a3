package service

import (
	"context"
	"errors"
	"fmt"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedResponse, error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i]))
	}

	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	return dto.FromModelToTitleResponse(title), nil
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	if errs := ValidateYear(req.Year); errs != nil {
		return nil, errs
	}

	genres, errs := s.resolveGenres(ctx, req.Genres)
	if errs != nil {
		return nil, errs
	}

	title := &models.Title{
		Name:        req.Name,
		Description: req.Description,
		Year:        req.Year,
		Genres:      genres,
	}

	if req.Category != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, req.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, FieldErrors{"category": {fmt.Sprintf("unknown category %q", req.Category)}}
			}
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	// year bounds hold on every write, not just creation
	if errs := ValidateYear(title.Year); errs != nil {
		return nil, errs
	}

	if req.Category != nil {
		if *req.Category == "" {
			title.CategoryID = nil
		} else {
			category, err := s.categoryRepo.GetBySlug(ctx, *req.Category)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, FieldErrors{"category": {fmt.Sprintf("unknown category %q", *req.Category)}}
				}
				return nil, err
			}
			title.CategoryID = &category.ID
		}
	}

	if req.Genres != nil {
		genres, errs := s.resolveGenres(ctx, *req.Genres)
		if errs != nil {
			return nil, errs
		}
		// field update and genre swap commit together or not at all
		if err := s.titleRepo.UpdateWithGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	} else if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

// resolveGenres maps genre slugs to records, rejecting empty lists and
// unknown slugs with field-keyed errors.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, FieldErrors{"genres": {"must not be empty"}}
	}

	// dedupe so repeated slugs can't masquerade as unknown ones
	seen := make(map[string]bool, len(slugs))
	unique := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			unique = append(unique, slug)
		}
	}
	slugs = unique

	genres, err := s.genreRepo.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		known := make(map[string]bool, len(genres))
		for _, g := range genres {
			known[g.Slug] = true
		}
		errs := FieldErrors{}
		for _, slug := range slugs {
			if !known[slug] {
				errs.Add("genres", fmt.Sprintf("unknown genre %q", slug))
			}
		}
		return nil, errs
	}
	return genres, nil
}
