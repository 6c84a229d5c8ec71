package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/handler"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) SetRole(ctx context.Context, userID, role string) (*models.User, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.TokenPair, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*service.TokenPair), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockAuthService) Revoke(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, tokenString string) (*service.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupAuthRouter(svc *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.NewAuthHandler(svc, discard).RegisterRoutes(r.Group("/api/v1/auth"))
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("RoleInBodyIsIgnored", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "eve@library.test", "password123").
			Return(&models.User{ID: "u-1", Email: "eve@library.test", Role: models.RoleLibrarian}, nil)

		w := performRequest(setupAuthRouter(svc), http.MethodPost, "/api/v1/auth/register",
			gin.H{"email": "eve@library.test", "password": "password123", "role": "admin"})

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp dto.RegisterResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.RoleLibrarian, resp.Role)
		svc.AssertExpectations(t)
		svc.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		svc := new(MockAuthService)

		w := performRequest(setupAuthRouter(svc), http.MethodPost, "/api/v1/auth/register",
			gin.H{"email": "eve@library.test", "password": "short"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	})
}

func setupAdminRouter(svc *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewAdminHandler(nil, svc, discard)
	r.PUT("/api/v1/admin/users/:user_id/role", h.SetRole)
	return r
}

func TestAdminHandler_SetRole(t *testing.T) {
	t.Run("Promotes", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("SetRole", mock.Anything, "u-1", models.RoleAdmin).
			Return(&models.User{ID: "u-1", Email: "eve@library.test", Role: models.RoleAdmin}, nil)

		w := performRequest(setupAdminRouter(svc), http.MethodPut, "/api/v1/admin/users/u-1/role", gin.H{"role": "admin"})

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.RegisterResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.RoleAdmin, resp.Role)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		svc := new(MockAuthService)

		w := performRequest(setupAdminRouter(svc), http.MethodPut, "/api/v1/admin/users/u-1/role", gin.H{"role": "reader"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingUser", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("SetRole", mock.Anything, "nobody", models.RoleLibrarian).Return(nil, service.ErrUserNotFound)

		w := performRequest(setupAdminRouter(svc), http.MethodPut, "/api/v1/admin/users/nobody/role", gin.H{"role": "librarian"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(MockAuthService)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.RoleKey, models.RoleLibrarian)
		c.Next()
	})
	handler.NewAdminHandler(nil, svc, discard).RegisterRoutes(r.Group("/api/v1/admin"))

	w := performRequest(r, http.MethodPut, "/api/v1/admin/users/u-1/role", gin.H{"role": "admin"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
}
