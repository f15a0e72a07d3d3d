package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTest() (*gin.Engine, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockRepo := new(MockUserRepository)
	userHandler := handler.NewUserHandler(mockRepo, testSecret, time.Hour)

	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.DELETE("/users/me", middleware.JWTAuthMiddleware(testSecret), userHandler.DeleteMe)

	return r, mockRepo
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func errorMessage(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func TestRegister_Success(t *testing.T) {
	router, mockRepo := setupTest()
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.User).ID = uuid.New()
		}).
		Return(nil)

	reqBody := handler.RegisterRequest{
		Name:     "Test User",
		Email:    "Test@Example.com",
		Password: "password123",
	}
	resp := postJSON(router, "/register", reqBody)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "Test User", response.User.Name)
	assert.Equal(t, "test@example.com", response.User.Email, "email is stored lower-case")

	subject, err := auth.ParseToken([]byte(testSecret), response.Token)
	require.NoError(t, err)
	assert.Equal(t, response.User.ID, subject)

	mockRepo.AssertExpectations(t)
}

func TestRegister_UserAlreadyExists(t *testing.T) {
	router, mockRepo := setupTest()
	existingUser := &model.User{
		ID:             uuid.New(),
		Email:          "existing@example.com",
		HashedPassword: "hashed_password",
		Name:           "Existing User",
	}
	mockRepo.On("FindByEmail", mock.Anything, "existing@example.com").Return(existingUser, nil)

	resp := postJSON(router, "/register", handler.RegisterRequest{
		Name:     "Test User",
		Email:    "existing@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "User with this email already exists", errorMessage(t, resp))
	mockRepo.AssertExpectations(t)
}

func TestRegister_RaceOnEmail(t *testing.T) {
	router, mockRepo := setupTest()
	mockRepo.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

	resp := postJSON(router, "/register", handler.RegisterRequest{
		Name:     "Racer",
		Email:    "race@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestRegister_InvalidInput(t *testing.T) {
	router, mockRepo := setupTest()

	resp := postJSON(router, "/register", map[string]string{"email": "not-an-email", "name": "x", "password": "1"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	router, mockRepo := setupTest()
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	testUser := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hashedPassword),
		Name:           "Test User",
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(testUser, nil)

	resp := postJSON(router, "/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, testUser.Name, response.User.Name)
	assert.Equal(t, testUser.Email, response.User.Email)
	assert.Equal(t, testUser.ID.String(), response.User.ID)
	mockRepo.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)
	testUser := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hashedPassword),
		Name:           "Test User",
	}

	tests := []struct {
		name  string
		email string
		found *model.User
	}{
		{"wrong password", "test@example.com", testUser},
		{"unknown user", "nonexistent@example.com", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockRepo := setupTest()
			if tt.found != nil {
				mockRepo.On("FindByEmail", mock.Anything, tt.email).Return(tt.found, nil)
			} else {
				mockRepo.On("FindByEmail", mock.Anything, tt.email).Return(nil, nil)
			}

			resp := postJSON(router, "/login", handler.LoginRequest{Email: tt.email, Password: "wrong_password"})

			assert.Equal(t, http.StatusUnauthorized, resp.Code)
			assert.Equal(t, "Invalid credentials", errorMessage(t, resp))
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestDeleteMe(t *testing.T) {
	userID := uuid.New()
	token, err := auth.GenerateToken([]byte(testSecret), userID.String(), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		repo   error
		status int
	}{
		{"deleted", nil, http.StatusOK},
		{"still owns boards", repository.ErrOwnerProtected, http.StatusConflict},
		{"already gone", repository.ErrUserNotFound, http.StatusNotFound},
		{"store failure", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockRepo := setupTest()
			mockRepo.On("Delete", mock.Anything, userID).Return(tt.repo)

			req, _ := http.NewRequest(http.MethodDelete, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			assert.Equal(t, tt.status, resp.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}
