package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/handler"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

// --- MOCK SERVICE ---

type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, filters repository.TitleFilters, page, pageSize int) (*dto.Paginated[dto.TitleReadResponse], error) {
	args := m.Called(ctx, filters, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.TitleReadResponse]), args.Error(1)
}

func (m *MockTitleService) GetByID(ctx context.Context, id int64) (*dto.TitleReadResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleReadResponse), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, req dto.TitleWriteDTO) (*dto.TitleReadResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleReadResponse), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, id int64, req dto.TitleWriteDTO) (*dto.TitleReadResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleReadResponse), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- SETUP ---

func setupTitleRouter(mockService *MockTitleService, authRequired gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := handler.NewTitleHandler(mockService)
	h.RegisterRoutes(router.Group("/v1/titles"), authRequired)
	return router
}

// --- TESTS ---

func TestTitleCreate_AcceptsYearZero(t *testing.T) {
	mockService := new(MockTitleService)
	router := setupTitleRouter(mockService, fakeAuth("admin-id", models.RoleAdmin))

	mockService.On("Create", mock.Anything, mock.MatchedBy(func(req dto.TitleWriteDTO) bool {
		return req.Year != nil && *req.Year == 0
	})).Return(&dto.TitleReadResponse{ID: 1, Name: "Ancient Chronicle", Year: 0}, nil)

	w := postJSON(router, "/v1/titles/", gin.H{
		"name":     "Ancient Chronicle",
		"year":     0,
		"category": "books",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestTitleCreate_MissingYear(t *testing.T) {
	mockService := new(MockTitleService)
	router := setupTitleRouter(mockService, fakeAuth("admin-id", models.RoleAdmin))

	w := postJSON(router, "/v1/titles/", gin.H{
		"name":     "Undated",
		"category": "books",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleCreate_NonAdminForbidden(t *testing.T) {
	mockService := new(MockTitleService)
	router := setupTitleRouter(mockService, fakeAuth("user-id", models.RoleUser))

	w := postJSON(router, "/v1/titles/", gin.H{
		"name":     "Denied",
		"year":     2020,
		"category": "books",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleGet_Public(t *testing.T) {
	mockService := new(MockTitleService)
	router := setupTitleRouter(mockService, rejectAnonymous())

	rating := 7
	mockService.On("GetByID", mock.Anything, int64(3)).
		Return(&dto.TitleReadResponse{ID: 3, Name: "Readable", Rating: &rating}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/titles/3/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
