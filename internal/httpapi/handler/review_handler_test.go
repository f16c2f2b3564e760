package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/handler"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/policy"
)

// --- MOCK SERVICE ---

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListByTitle(titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	args := m.Called(titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) GetByID(titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(titleID int64, actor policy.Actor, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(titleID, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(titleID, reviewID int64, actor policy.Actor, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(titleID, reviewID, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(titleID, reviewID int64, actor policy.Actor) error {
	args := m.Called(titleID, reviewID, actor)
	return args.Error(0)
}

// --- SETUP ---

// fakeAuth stands in for the token middleware and plants a fixed identity.
func fakeAuth(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

func setupReviewRouter(mockService *MockReviewService, authRequired gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := handler.NewReviewHandler(mockService)
	h.RegisterRoutes(router.Group("/v1/titles/:title_id/reviews"), authRequired)
	return router
}

func jsonBody(payload any) io.Reader {
	body, _ := json.Marshal(payload)
	return bytes.NewReader(body)
}

func rejectAnonymous() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
		c.Abort()
	}
}

// --- TESTS ---

func TestReviewList_ReturnsPage(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, fakeAuth("u1", models.RoleUser))

	page := dto.NewPaginated([]dto.ReviewResponse{
		{ID: 1, Text: "great", Author: "reader", Score: 9, PubDate: time.Now()},
	}, 1, 1, 20)
	mockService.On("ListByTitle", int64(7), 1, 20).Return(page, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/titles/7/reviews/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Paginated[dto.ReviewResponse]
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "reader", resp.Data[0].Author)
	mockService.AssertExpectations(t)
}

func TestReviewList_BadTitleID(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, fakeAuth("u1", models.RoleUser))

	req := httptest.NewRequest(http.MethodGet, "/v1/titles/abc/reviews/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ListByTitle", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewGet_NotFound(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, fakeAuth("u1", models.RoleUser))

	mockService.On("GetByID", int64(7), int64(99)).
		Return(nil, apperrors.NotFound("review not found"))

	req := httptest.NewRequest(http.MethodGet, "/v1/titles/7/reviews/99/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewCreate_PassesActorFromToken(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, fakeAuth("author-id", models.RoleUser))

	actor := policy.Actor{ID: "author-id", Role: models.RoleUser}
	payload := dto.CreateReviewDTO{Text: "gripping", Score: 9}
	mockService.On("Create", int64(7), actor, payload).
		Return(&dto.ReviewResponse{ID: 42, Text: "gripping", Author: "reader", Score: 9}, nil)

	w := postJSON(router, "/v1/titles/7/reviews/", payload)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.ReviewResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	mockService.AssertExpectations(t)
}

func TestReviewCreate_RequiresAuth(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, rejectAnonymous())

	w := postJSON(router, "/v1/titles/7/reviews/", dto.CreateReviewDTO{Text: "x", Score: 5})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCreate_DuplicateConflict(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, fakeAuth("author-id", models.RoleUser))

	mockService.On("Create", int64(7), mock.Anything, mock.Anything).
		Return(nil, apperrors.Conflict("you have already reviewed this title"))

	w := postJSON(router, "/v1/titles/7/reviews/", dto.CreateReviewDTO{Text: "again", Score: 5})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReviewCreate_RejectsMissingScore(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, fakeAuth("author-id", models.RoleUser))

	w := postJSON(router, "/v1/titles/7/reviews/", gin.H{"text": "scoreless"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewUpdate_ForbiddenForStranger(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, fakeAuth("stranger", models.RoleUser))

	mockService.On("Update", int64(7), int64(42), mock.Anything, mock.Anything).
		Return(nil, apperrors.Forbidden("you cannot edit this review"))

	body := gin.H{"text": "vandalism"}
	req := httptest.NewRequest(http.MethodPatch, "/v1/titles/7/reviews/42/", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewDelete_NoContent(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, fakeAuth("author-id", models.RoleUser))

	actor := policy.Actor{ID: "author-id", Role: models.RoleUser}
	mockService.On("Delete", int64(7), int64(42), actor).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/titles/7/reviews/42/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}
