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
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"
)

type MockReaderService struct {
	mock.Mock
}

func (m *MockReaderService) List(ctx context.Context, page, size int) ([]models.Reader, int64, error) {
	args := m.Called(ctx, page, size)
	return args.Get(0).([]models.Reader), args.Get(1).(int64), args.Error(2)
}

func (m *MockReaderService) Get(ctx context.Context, id int64) (*models.Reader, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reader), args.Error(1)
}

func (m *MockReaderService) GetFull(ctx context.Context, id int64, activeOnly bool) (*models.Reader, error) {
	args := m.Called(ctx, id, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reader), args.Error(1)
}

func (m *MockReaderService) Create(ctx context.Context, name, email string) (*models.Reader, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reader), args.Error(1)
}

func (m *MockReaderService) Replace(ctx context.Context, id int64, name, email string) (*models.Reader, error) {
	args := m.Called(ctx, id, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reader), args.Error(1)
}

func (m *MockReaderService) Patch(ctx context.Context, id int64, patch service.ReaderPatch) (*models.Reader, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reader), args.Error(1)
}

func (m *MockReaderService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func setupReaderRouter(svc *MockReaderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewReaderHandler(svc, discard)

	rg := r.Group("/api/v1/readers")
	rg.GET("/:reader_id", h.Get)
	rg.GET("/:reader_id/full", h.GetFull)
	rg.GET("/:reader_id/actual", h.GetActual)
	return r
}

func TestReaderHandler_GetFull(t *testing.T) {
	reader := &models.Reader{ID: 3, Name: "Ann", Email: "ann@example.com", Loans: []models.Loan{{ID: 1, BookID: 2, ReaderID: 3}}}

	t.Run("AllLoans", func(t *testing.T) {
		svc := new(MockReaderService)
		svc.On("GetFull", mock.Anything, int64(3), false).Return(reader, nil)

		w := performRequest(setupReaderRouter(svc), http.MethodGet, "/api/v1/readers/3/full", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("ActualQuery", func(t *testing.T) {
		svc := new(MockReaderService)
		svc.On("GetFull", mock.Anything, int64(3), true).Return(reader, nil)

		w := performRequest(setupReaderRouter(svc), http.MethodGet, "/api/v1/readers/3/full?actual=true", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("ActualPath", func(t *testing.T) {
		svc := new(MockReaderService)
		svc.On("GetFull", mock.Anything, int64(3), true).Return(reader, nil)

		w := performRequest(setupReaderRouter(svc), http.MethodGet, "/api/v1/readers/3/actual", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.ReaderFullResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(3), resp.ID)
		assert.Len(t, resp.Loans, 1)
		svc.AssertExpectations(t)
	})

	t.Run("ActualMissingReader", func(t *testing.T) {
		svc := new(MockReaderService)
		svc.On("GetFull", mock.Anything, int64(8), true).Return(nil, &service.NotFoundError{Entity: "Reader", ID: 8})

		w := performRequest(setupReaderRouter(svc), http.MethodGet, "/api/v1/readers/8/actual", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Reader with id=8 not exists", decodeError(t, w).Error)
	})
}
