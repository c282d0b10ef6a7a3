package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, code string) (string, error) {
	args := m.Called(username, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(jwt.MapClaims), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignup_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", handler.Signup)

	user := &models.User{
		Username: "reader",
		Email:    "reader@example.com",
	}
	mockAuthService.On("Signup", "reader", "reader@example.com").Return(user, nil)

	w := postJSON(router, "/signup", dto.SignupRequest{
		Username: "reader",
		Email:    "reader@example.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.SignupResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "reader", response.Username)
	assert.Equal(t, "reader@example.com", response.Email)

	mockAuthService.AssertExpectations(t)
}

func TestSignup_ValidationErrorsAreFieldKeyed(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", handler.Signup)

	mockAuthService.On("Signup", "me", "reader@example.com").
		Return(nil, service.FieldErrors{"username": {"is reserved"}})

	w := postJSON(router, "/signup", dto.SignupRequest{
		Username: "me",
		Email:    "reader@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors map[string][]string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response.Errors, "username")
}

func TestToken_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", handler.Token)

	mockAuthService.On("IssueToken", "reader", "some-code").Return("signed.jwt.token", nil)

	w := postJSON(router, "/token", dto.TokenRequest{
		Username:         "reader",
		ConfirmationCode: "some-code",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "signed.jwt.token", response.Token)

	mockAuthService.AssertExpectations(t)
}

// An unknown username must be distinguishable from a wrong code: the former
// is a 404, the latter a 400.
func TestToken_UnknownUsernameIsNotFound(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", handler.Token)

	mockAuthService.On("IssueToken", "ghost", "some-code").Return("", service.ErrUserNotFound)

	w := postJSON(router, "/token", dto.TokenRequest{
		Username:         "ghost",
		ConfirmationCode: "some-code",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToken_WrongCodeIsBadRequest(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", handler.Token)

	mockAuthService.On("IssueToken", "reader", "wrong-code").Return("", service.ErrInvalidCode)

	w := postJSON(router, "/token", dto.TokenRequest{
		Username:         "reader",
		ConfirmationCode: "wrong-code",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToken_MissingFieldsRejectedAtBind(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", handler.Token)

	w := postJSON(router, "/token", map[string]string{"username": "reader"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "IssueToken", mock.Anything, mock.Anything)
}
