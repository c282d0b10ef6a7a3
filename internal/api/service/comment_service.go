package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permissions"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedResponse, error)
	GetByID(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedResponse, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}

	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *commentService) GetByID(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.getForReview(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.getForReview(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanModify(actor, comment.AuthorID) {
		return nil, ErrForbidden
	}

	comment.Text = req.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	comment, err = s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	comment, err := s.getForReview(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !permissions.CanModify(actor, comment.AuthorID) {
		return ErrForbidden
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

func (s *commentService) requireReview(ctx context.Context, titleID, reviewID int64) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.TitleID != titleID {
		return ErrReviewNotFound
	}
	return nil
}

func (s *commentService) getForReview(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}
