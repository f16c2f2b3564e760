package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes: reads are public; writes need a token, ownership and
// moderation rules are applied in the service.
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	router.GET("/", h.List)
	router.GET("/:comment_id/", h.Get)
	router.POST("/", authRequired, h.Create)
	router.PATCH("/:comment_id/", authRequired, h.Update)
	router.DELETE("/:comment_id/", authRequired, h.Delete)
}

func (h *CommentHandler) ids(c *gin.Context) (titleID, reviewID int64, ok bool) {
	titleID, ok = parseID(c, "title_id")
	if !ok {
		return 0, 0, false
	}
	reviewID, ok = parseID(c, "review_id")
	if !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}

// List retrieves all comments on a review
// GET /v1/titles/:title_id/reviews/:review_id/comments/?page=1&page_size=20
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := h.ids(c)
	if !ok {
		return
	}

	page, pageSize := parsePagination(c)
	comments, err := h.commentService.ListByReview(titleID, reviewID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Get retrieves one comment
// GET /v1/titles/:title_id/reviews/:review_id/comments/:comment_id/
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := h.ids(c)
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.commentService.GetByID(titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Create posts a comment on a review; the author is always the caller
// POST /v1/titles/:title_id/reviews/:review_id/comments/
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := h.ids(c)
	if !ok {
		return
	}

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Create(titleID, reviewID, middleware.ActorFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update edits a comment's text
// PATCH /v1/titles/:title_id/reviews/:review_id/comments/:comment_id/
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := h.ids(c)
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}

	var req dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Update(titleID, reviewID, commentID, middleware.ActorFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment
// DELETE /v1/titles/:title_id/reviews/:review_id/comments/:comment_id/
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := h.ids(c)
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(titleID, reviewID, commentID, middleware.ActorFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
