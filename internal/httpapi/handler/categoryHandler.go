package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/policy"
	"reviewhub/internal/httpapi/service"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes: list is public, writes are admin-only.
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	admin := middleware.RequireAdmin(policy.ResourceCategory)

	router.GET("/", h.List)
	router.POST("/", authRequired, admin, h.Create)
	router.DELETE("/:slug/", authRequired, admin, h.Delete)
}

// List retrieves categories with pagination and an optional name search
// GET /v1/categories/?search=&page=1&page_size=20
func (h *CategoryHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	categories, err := h.categoryService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Create adds a category
// POST /v1/categories/
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Delete removes a category and, through the cascade, its titles
// DELETE /v1/categories/:slug/
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
