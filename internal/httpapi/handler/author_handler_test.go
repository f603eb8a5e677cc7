package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookhub/internal/httpapi/dto"
	"bookhub/internal/httpapi/repository"
	"bookhub/internal/httpapi/service"
	"bookhub/internal/ingestion/openlibrary"
	"bookhub/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthorService mocks the AuthorService interface
type MockAuthorService struct {
	mock.Mock
}

func (m *MockAuthorService) List(ctx context.Context, cursor *repository.Cursor, letter string, limit int) (*service.AuthorPage, error) {
	args := m.Called(ctx, cursor, letter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthorPage), args.Error(1)
}

func (m *MockAuthorService) GetByID(ctx context.Context, id int64) (*models.Author, []models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Author), args.Get(1).([]models.Book), args.Error(2)
}

func (m *MockAuthorService) Update(ctx context.Context, id int64, name, bio, photoURL *string) (*models.Author, error) {
	args := m.Called(ctx, id, name, bio, photoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorService) Delete(ctx context.Context, id int64) (*service.DeletionResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeletionResult), args.Error(1)
}

// MockImportService mocks the ImportService interface
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ImportBook(ctx context.Context, externalID string) (*models.Book, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockImportService) ImportAuthor(ctx context.Context, externalID string) (*service.AuthorImportSummary, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthorImportSummary), args.Error(1)
}

func (m *MockImportService) SearchCatalogue(ctx context.Context, query string) (*openlibrary.SearchResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.SearchResponse), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestListAuthors_Success(t *testing.T) {
	mockSvc := new(MockAuthorService)
	h := NewAuthorHandler(mockSvc, nil)
	router := setupRouter()
	router.GET("/authors", h.List)

	author := models.Author{ID: 7, ExternalID: "OL26320A", Name: "Ursula K. Le Guin", SortKey: "Guin, Ursula K. Le"}
	page := &service.AuthorPage{
		Authors:    []models.Author{author},
		HasMore:    true,
		NextCursor: &repository.Cursor{SortKey: author.SortKey, ID: author.ID},
	}
	mockSvc.On("List", mock.Anything, (*repository.Cursor)(nil), "", 0).Return(page, nil)

	req := httptest.NewRequest(http.MethodGet, "/authors", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Authors    []dto.AuthorResponse `json:"authors"`
		HasMore    bool                 `json:"has_more"`
		NextCursor string               `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Authors, 1)
	assert.Equal(t, "Guin, Ursula K. Le", resp.Authors[0].SortKey)
	assert.True(t, resp.HasMore)

	cursor, err := dto.DecodeCursor(resp.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cursor.ID)
	mockSvc.AssertExpectations(t)
}

func TestListAuthors_BadCursor(t *testing.T) {
	mockSvc := new(MockAuthorService)
	h := NewAuthorHandler(mockSvc, nil)
	router := setupRouter()
	router.GET("/authors", h.List)

	req := httptest.NewRequest(http.MethodGet, "/authors?cursor=%25garbage", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "List")
}

func TestGetAuthor_NotFound(t *testing.T) {
	mockSvc := new(MockAuthorService)
	h := NewAuthorHandler(mockSvc, nil)
	router := setupRouter()
	router.GET("/authors/:id", h.GetByID)

	mockSvc.On("GetByID", mock.Anything, int64(99)).Return(nil, nil, service.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/authors/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAuthor_ReportsCascade(t *testing.T) {
	mockSvc := new(MockAuthorService)
	h := NewAuthorHandler(mockSvc, nil)
	router := setupRouter()
	router.DELETE("/authors/:id", h.Delete)

	mockSvc.On("Delete", mock.Anything, int64(7)).
		Return(&service.DeletionResult{DeletedBooks: 2, PreservedBooks: 1}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/authors/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp service.DeletionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.DeletedBooks)
	assert.Equal(t, 1, resp.PreservedBooks)
}

func TestImportBook_Conflict(t *testing.T) {
	mockImport := new(MockImportService)
	h := NewBookHandler(nil, mockImport)
	router := setupRouter()
	router.POST("/books/import", h.Import)

	mockImport.On("ImportBook", mock.Anything, "OL123M").
		Return(nil, &service.ConflictError{Reason: service.ReasonPreviouslyDeleted})

	body, _ := json.Marshal(dto.ImportBookDTO{ExternalID: "OL123M"})
	req := httptest.NewRequest(http.MethodPost, "/books/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), service.ReasonPreviouslyDeleted)
}

func TestImportBook_MissingExternalID(t *testing.T) {
	mockImport := new(MockImportService)
	h := NewBookHandler(nil, mockImport)
	router := setupRouter()
	router.POST("/books/import", h.Import)

	req := httptest.NewRequest(http.MethodPost, "/books/import", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockImport.AssertNotCalled(t, "ImportBook")
}
