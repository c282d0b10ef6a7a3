package repository

import (
	"context"

	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	Search(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	Create(ctx context.Context, genre *models.Genre) error
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Search(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	var list []models.Genre
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Genre{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.
		Order("name asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *genreRepository) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// GetBySlugs resolves genre slugs to records. Callers compare the result
// length against the input to detect unknown slugs.
func (r *genreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *genreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Genre{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
