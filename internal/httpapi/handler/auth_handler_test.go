package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/handler"
)

// --- MOCK SERVICE ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RequestSignUp(username, email string) error {
	args := m.Called(username, email)
	return args.Error(0)
}

func (m *MockAuthService) ExchangeToken(username, confirmationCode string) (string, error) {
	args := m.Called(username, confirmationCode)
	return args.String(0), args.Error(1)
}

// --- SETUP ---

func setupAuthRouter(mockService *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := handler.NewAuthHandler(mockService)
	h.RegisterRoutes(router.Group("/v1/auth"))
	return router
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// --- TESTS ---

func TestSignUp_Success(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("RequestSignUp", "reader", "reader@example.com").Return(nil)

	w := postJSON(router, "/v1/auth/signup/", dto.SignUpRequest{
		Username: "reader",
		Email:    "reader@example.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.SignUpResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "reader", resp.Username)
	assert.Equal(t, "reader@example.com", resp.Email)
	mockService.AssertExpectations(t)
}

func TestSignUp_ConflictMapsToBadRequest(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("RequestSignUp", "taken", "taken@example.com").
		Return(apperrors.Conflict("this username is already taken"))

	w := postJSON(router, "/v1/auth/signup/", dto.SignUpRequest{
		Username: "taken",
		Email:    "taken@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignUp_MissingEmail(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	w := postJSON(router, "/v1/auth/signup/", gin.H{"username": "reader"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "RequestSignUp", mock.Anything, mock.Anything)
}

func TestSignUp_InvalidEmail(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	w := postJSON(router, "/v1/auth/signup/", gin.H{"username": "reader", "email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "RequestSignUp", mock.Anything, mock.Anything)
}

func TestToken_Success(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("ExchangeToken", "reader", "abc123").Return("signed-token", nil)

	w := postJSON(router, "/v1/auth/token/", dto.TokenRequest{
		Username:         "reader",
		ConfirmationCode: "abc123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.TokenResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp.Token)
	mockService.AssertExpectations(t)
}

func TestToken_UnknownUser(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("ExchangeToken", "ghost", "abc123").
		Return("", apperrors.NotFound("user not found"))

	w := postJSON(router, "/v1/auth/token/", dto.TokenRequest{
		Username:         "ghost",
		ConfirmationCode: "abc123",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToken_WrongCode(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("ExchangeToken", "reader", "wrong").
		Return("", apperrors.Validation("wrong code"))

	w := postJSON(router, "/v1/auth/token/", dto.TokenRequest{
		Username:         "reader",
		ConfirmationCode: "wrong",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
