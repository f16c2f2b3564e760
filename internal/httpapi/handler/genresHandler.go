package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/policy"
	"reviewhub/internal/httpapi/service"
)

type GenreHandler struct {
	genreService service.GenreService
}

func NewGenreHandler(genreService service.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// RegisterRoutes: list is public, writes are admin-only.
func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	admin := middleware.RequireAdmin(policy.ResourceGenre)

	router.GET("/", h.List)
	router.POST("/", authRequired, admin, h.Create)
	router.DELETE("/:slug/", authRequired, admin, h.Delete)
}

// List retrieves genres with pagination and an optional name search
// GET /v1/genres/?search=&page=1&page_size=20
func (h *GenreHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	genres, err := h.genreService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

// Create adds a genre
// POST /v1/genres/
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := h.genreService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, genre)
}

// Delete removes a genre
// DELETE /v1/genres/:slug/
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.genreService.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
