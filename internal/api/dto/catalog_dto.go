package dto

import "reviewhub/internal/api/models"

// CreateCategoryRequest is shared by categories and genres, which have the
// same shape.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=256"`
	Slug        string `json:"slug" binding:"required,max=50"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToCategoryResponse(category *models.Category) *CategoryResponse {
	return &CategoryResponse{
		Name: category.Name,
		Slug: category.Slug,
	}
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToGenreResponse(genre *models.Genre) *GenreResponse {
	return &GenreResponse{
		Name: genre.Name,
		Slug: genre.Slug,
	}
}
