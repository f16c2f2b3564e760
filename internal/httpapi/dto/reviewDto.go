package dto

import (
	"time"

	"reviewhub/internal/httpapi/models"
)

// CreateReviewDTO for posting a review; the author is always the actor
type CreateReviewDTO struct {
	Text  string `json:"text" binding:"required,min=1,max=500"`
	Score int    `json:"score" binding:"required,min=1,max=10"`
}

// UpdateReviewDTO: partial update, only text and score are mutable
type UpdateReviewDTO struct {
	Text  *string `json:"text" binding:"omitempty,min=1,max=500"`
	Score *int    `json:"score" binding:"omitempty,min=1,max=10"`
}

// ReviewResponse for returning review information
type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// FromModelToReviewResponse converts a Review model to ReviewResponse DTO
func FromModelToReviewResponse(review *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:      review.ID,
		Text:    review.Text,
		Author:  review.Author.Username,
		Score:   review.Score,
		PubDate: review.PubDate,
	}
}
