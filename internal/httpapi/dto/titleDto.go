package dto

import "reviewhub/internal/httpapi/models"

// TitleWriteDTO: create/update payload, category and genres by slug.
// Year is a pointer so "year": 0 binds as present instead of missing.
type TitleWriteDTO struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        *int     `json:"year" binding:"required"`
	Description *string  `json:"description" binding:"omitempty,max=250"`
	Category    string   `json:"category" binding:"required"`
	Genres      []string `json:"genre"`
}

// TitleReadResponse embeds the expanded category/genre objects and the
// derived rating; rating is null until the first review lands.
type TitleReadResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Rating      *int             `json:"rating"`
	Description *string          `json:"description,omitempty"`
	Category    CategoryResponse `json:"category"`
	Genres      []GenreResponse  `json:"genre"`
}

// FromModelToTitleResponse converts a Title model to TitleReadResponse DTO
func FromModelToTitleResponse(t *models.Title) *TitleReadResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for i := range t.Genres {
		genres = append(genres, *FromModelToGenreResponse(&t.Genres[i]))
	}
	return &TitleReadResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Category:    *FromModelToCategoryResponse(&t.Category),
		Genres:      genres,
	}
}
