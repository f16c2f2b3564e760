package dto

import (
	"time"

	"reviewhub/internal/httpapi/models"
)

// CreateCommentDTO for commenting on a review
type CreateCommentDTO struct {
	Text string `json:"text" binding:"required,min=1,max=500"`
}

// UpdateCommentDTO for editing a comment
type UpdateCommentDTO struct {
	Text string `json:"text" binding:"required,min=1,max=500"`
}

// CommentResponse for returning comment information
type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:      comment.ID,
		Text:    comment.Text,
		Author:  comment.Author.Username,
		PubDate: comment.PubDate,
	}
}
