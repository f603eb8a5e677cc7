package service

import (
	"context"
	"strings"

	"bookhub/internal/httpapi/repository"
	"bookhub/internal/ingestion/openlibrary"
	"bookhub/internal/models"

	"github.com/stretchr/testify/mock"
)

// --- MOCK REPOSITORIES ---

type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepo) FindActiveByAuthorTitle(ctx context.Context, authorName, title string) (*models.Book, error) {
	args := m.Called(ctx, authorName, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepo) FindByExternalID(ctx context.Context, externalID string) (*models.Book, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepo) ListActive(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepo) ListActiveForRescan(ctx context.Context) ([]repository.RescanBook, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.RescanBook), args.Error(1)
}

func (m *MockBookRepo) CreateWithAuthors(ctx context.Context, book *models.Book, authors []*models.Author) error {
	args := m.Called(ctx, book, authors)
	return args.Error(0)
}

func (m *MockBookRepo) Update(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookRepo) ApplyOwnership(ctx context.Context, updates []repository.OwnershipUpdate) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}

type MockAuthorRepo struct {
	mock.Mock
}

func (m *MockAuthorRepo) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorRepo) GetByExternalID(ctx context.Context, externalID string) (*models.Author, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorRepo) GetOrCreate(ctx context.Context, author *models.Author) error {
	args := m.Called(ctx, author)
	return args.Error(0)
}

func (m *MockAuthorRepo) Update(ctx context.Context, author *models.Author) error {
	args := m.Called(ctx, author)
	return args.Error(0)
}

func (m *MockAuthorRepo) List(ctx context.Context, cursor *repository.Cursor, letter string, limit int) ([]models.Author, error) {
	args := m.Called(ctx, cursor, letter, limit)
	return args.Get(0).([]models.Author), args.Error(1)
}

func (m *MockAuthorRepo) ListActiveBooks(ctx context.Context, authorID int64) ([]models.Book, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockAuthorRepo) CountActiveAuthorships(ctx context.Context, authorID int64) ([]repository.BookAuthorCount, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).([]repository.BookAuthorCount), args.Error(1)
}

func (m *MockAuthorRepo) DeleteCascade(ctx context.Context, authorID int64, soleBookIDs []int64) error {
	args := m.Called(ctx, authorID, soleBookIDs)
	return args.Error(0)
}

// --- FAKE COLLABORATORS ---

// fakeCatalogue serves canned records without touching the network.
type fakeCatalogue struct {
	books   map[string]*openlibrary.BookRecord
	authors map[string]*openlibrary.AuthorRecord
}

func (f *fakeCatalogue) GetBook(ctx context.Context, externalID string) (*openlibrary.BookRecord, error) {
	if b, ok := f.books[externalID]; ok {
		return b, nil
	}
	return nil, openlibrary.ErrNotFound
}

func (f *fakeCatalogue) GetAuthor(ctx context.Context, externalID string) (*openlibrary.AuthorRecord, error) {
	if a, ok := f.authors[externalID]; ok {
		return a, nil
	}
	return nil, openlibrary.ErrNotFound
}

func (f *fakeCatalogue) SearchBooks(ctx context.Context, query string) (*openlibrary.SearchResponse, error) {
	return &openlibrary.SearchResponse{}, nil
}

// fakeIndex is an in-memory OwnershipChecker.
type fakeIndex struct {
	owned map[string]bool
}

func ownKey(author, title string) string {
	return strings.ToLower(author) + "|" + strings.ToLower(title)
}

func (f *fakeIndex) IsOwned(authorName, title string) bool {
	return f.owned[ownKey(authorName, title)]
}
