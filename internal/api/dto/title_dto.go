package dto

import "reviewhub/internal/api/models"

type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Description string   `json:"description"`
	Year        int      `json:"year" binding:"required"`
	Category    string   `json:"category"`
	Genres      []string `json:"genres" binding:"required"`
}

type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Description *string   `json:"description"`
	Year        *int      `json:"year"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genres"`
}

// TitleResponse carries the derived rating as an integer or null - never a
// float and never zero for a title without reviews.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *int              `json:"rating"`
	Description string            `json:"description"`
	Category    *CategoryResponse `json:"category"`
	Genres      []GenreResponse   `json:"genres"`
}

// FromModelToTitleResponse converts a Title model to TitleResponse DTO
func FromModelToTitleResponse(title *models.Title) *TitleResponse {
	resp := &TitleResponse{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Rating:      title.Rating,
		Description: title.Description,
		Genres:      make([]GenreResponse, 0, len(title.Genres)),
	}
	if title.Category != nil {
		resp.Category = FromModelToCategoryResponse(title.Category)
	}
	for i := range title.Genres {
		resp.Genres = append(resp.Genres, *FromModelToGenreResponse(&title.Genres[i]))
	}
	return resp
}
