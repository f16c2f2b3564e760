package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/policy"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/service"
)

type TitleHandler struct {
	titleService service.TitleService
}

func NewTitleHandler(titleService service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

// RegisterRoutes: reads are public, writes are admin-only.
func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	admin := middleware.RequireAdmin(policy.ResourceTitle)

	router.GET("/", h.List)
	router.GET("/:title_id/", h.Get)
	router.POST("/", authRequired, admin, h.Create)
	router.PATCH("/:title_id/", authRequired, admin, h.Update)
	router.DELETE("/:title_id/", authRequired, admin, h.Delete)
}

// List retrieves titles filtered by category, genre, year or name
// GET /v1/titles/?category=&genre=&year=&name=&page=1&page_size=20
func (h *TitleHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	year, _ := strconv.Atoi(c.Query("year"))
	filters := repository.TitleFilters{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Year:         year,
		Name:         c.Query("name"),
	}

	titles, err := h.titleService.List(c.Request.Context(), filters, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, titles)
}

// Get retrieves one title with expanded category, genres and rating
// GET /v1/titles/:title_id/
func (h *TitleHandler) Get(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	title, err := h.titleService.GetByID(c.Request.Context(), titleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

// Create adds a title; category and genres are referenced by slug
// POST /v1/titles/
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.TitleWriteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.titleService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, title)
}

// Update replaces a title's fields and genre set
// PATCH /v1/titles/:title_id/
func (h *TitleHandler) Update(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	var req dto.TitleWriteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.titleService.Update(c.Request.Context(), titleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

// Delete removes a title and, through the cascade, its reviews
// DELETE /v1/titles/:title_id/
func (h *TitleHandler) Delete(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), titleID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
