package repository

import (
	"context"

	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, reviewID int64) error
	GetByID(ctx context.Context, reviewID int64) (*models.Review, error)
	GetByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	GetByTitleAndAuthor(ctx context.Context, titleID int64, authorID string) (*models.Review, error)
	ScoreStats(ctx context.Context, titleID int64) (avg float64, count int64, err error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		// the (title_id, author_id) unique index backs the one-review-per-
		// author rule; a constraint trip here surfaces as ErrDuplicateKey
		return translateError(err)
	}
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).
		Omit("Author", "Title", "PubDate").
		Save(review).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, reviewID int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, reviewID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, reviewID int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Preload("Author").
		First(&review, reviewID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("title_id = ?", titleID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Where("title_id = ?", titleID).
		Preload("Author").
		Order("pub_date DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *reviewRepository) GetByTitleAndAuthor(ctx context.Context, titleID int64, authorID string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ScoreStats returns the mean score and review count for a title in one
// query. count == 0 means the title currently has no reviews.
func (r *reviewRepository) ScoreStats(ctx context.Context, titleID int64) (float64, int64, error) {
	var stats struct {
		Average float64
		Count   int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(score), 0) as average, COUNT(*) as count").
		Where("title_id = ?", titleID).
		Scan(&stats).Error
	if err != nil {
		return 0, 0, err
	}

	return stats.Average, stats.Count, nil
}
