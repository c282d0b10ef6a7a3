package service

import (
	"context"
	"errors"
	"log/slog"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permissions"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedResponse, error)
	GetByID(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	engine     *RatingEngine
	logger     *slog.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
	engine *RatingEngine,
	logger *slog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		engine:     engine,
		logger:     logger,
	}
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}

	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *reviewService) GetByID(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.getForTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if errs := ValidateScore(*req.Score); errs != nil {
		return nil, errs
	}

	// request-time duplicate check for a friendly error; the unique index
	// on (title_id, author_id) closes the race this check leaves open
	if _, err := s.reviewRepo.GetByTitleAndAuthor(ctx, titleID, actor.ID); err == nil {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    *req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrReviewExists
		}
		return nil, err
	}

	s.recompute(ctx, titleID)

	review, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.getForTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanModify(actor, review.AuthorID) {
		return nil, ErrForbidden
	}

	scoreChanged := false
	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if errs := ValidateScore(*req.Score); errs != nil {
			return nil, errs
		}
		scoreChanged = review.Score != *req.Score
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	if scoreChanged {
		s.recompute(ctx, titleID)
	}

	review, err = s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	review, err := s.getForTitle(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !permissions.CanModify(actor, review.AuthorID) {
		return ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	s.recompute(ctx, titleID)
	return nil
}

// recompute invokes the rating engine after a committed review mutation.
// The review write already succeeded, so an engine failure is logged rather
// than propagated.
func (s *reviewService) recompute(ctx context.Context, titleID int64) {
	if err := s.engine.Recompute(ctx, titleID); err != nil {
		s.logger.Error("rating recompute failed", "title_id", titleID, "error", err)
	}
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

// getForTitle loads a review and checks it belongs to the title from the
// URL, so a review cannot be addressed through another title's path.
func (s *reviewService) getForTitle(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}
