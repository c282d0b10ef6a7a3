package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

// TitleFilter narrows title listings. Zero values mean "no filter".
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, title *models.Title) error
	Update(ctx context.Context, title *models.Title) error
	UpdateWithGenres(ctx context.Context, title *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
	GetRating(ctx context.Context, id int64) (*int, error)
	SetRating(ctx context.Context, id int64, rating *int) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	// Count and the page fetch each get a fresh chain: Count leaves its
	// select modifications on the statement, so a shared chain would make
	// the fetch return only ids.
	if err := r.filtered(ctx, filter).Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.filtered(ctx, filter).
		Distinct("titles.*").
		Preload("Category").
		Preload("Genres").
		Order("titles.name asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// filtered builds a query narrowed by the filter, with the joins the
// category and genre filters need.
func (r *titleRepository) filtered(ctx context.Context, filter TitleFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Title{})
	if filter.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.GenreSlug != "" {
		query = query.
			Joins("JOIN title_genres tg ON tg.title_id = titles.id").
			Joins("JOIN genres ON genres.id = tg.genre_id").
			Where("genres.slug = ?", filter.GenreSlug)
	}
	if filter.Name != "" {
		query = query.Where("titles.name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Year != 0 {
		query = query.Where("titles.year = ?", filter.Year)
	}
	return query
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, id).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	if err := r.db.WithContext(ctx).Create(title).Error; err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

func (r *titleRepository) Update(ctx context.Context, title *models.Title) error {
	if err := r.db.WithContext(ctx).
		Omit("Genres", "Category", "Rating").
		Save(title).Error; err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	return nil
}

// UpdateWithGenres saves the title's fields and swaps its genre set in one
// transaction, so a failure on either side leaves no partial state.
func (r *titleRepository) UpdateWithGenres(ctx context.Context, title *models.Title, genres []models.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(title).Association("Genres").Replace(genres); err != nil {
			return fmt.Errorf("replace genres: %w", err)
		}
		if err := tx.Omit("Genres", "Category", "Rating").Save(title).Error; err != nil {
			return fmt.Errorf("update title: %w", err)
		}
		return nil
	})
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetRating reads only the derived rating column.
func (r *titleRepository) GetRating(ctx context.Context, id int64) (*int, error) {
	var title models.Title
	if err := r.db.WithContext(ctx).
		Select("id", "rating").
		First(&title, id).Error; err != nil {
		return nil, err
	}
	return title.Rating, nil
}

// SetRating writes the derived rating column. A nil rating stores NULL.
func (r *titleRepository) SetRating(ctx context.Context, id int64, rating *int) error {
	return r.db.WithContext(ctx).
		Model(&models.Title{}).
		Where("id = ?", id).
		UpdateColumn("rating", rating).Error
}
