package service

import (
	"context"
	"errors"
	"log/slog"

	"bookhub/internal/httpapi/repository"
	"bookhub/internal/models"

	"gorm.io/gorm"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// AuthorPage is one keyset-paginated slice of the author collection.
type AuthorPage struct {
	Authors    []models.Author
	HasMore    bool
	NextCursor *repository.Cursor
}

// DeletionResult reports the fate of the deleted author's books.
type DeletionResult struct {
	DeletedBooks   int `json:"deleted_book_count"`
	PreservedBooks int `json:"preserved_book_count"`
}

type AuthorService interface {
	List(ctx context.Context, cursor *repository.Cursor, letter string, limit int) (*AuthorPage, error)
	GetByID(ctx context.Context, id int64) (*models.Author, []models.Book, error)
	Update(ctx context.Context, id int64, name, bio, photoURL *string) (*models.Author, error)
	Delete(ctx context.Context, id int64) (*DeletionResult, error)
}

type authorService struct {
	authors repository.AuthorRepository
	guard   *ReconcileGuard
	log     *slog.Logger
}

func NewAuthorService(authors repository.AuthorRepository, guard *ReconcileGuard, log *slog.Logger) AuthorService {
	if log == nil {
		log = slog.Default()
	}
	return &authorService{authors: authors, guard: guard, log: log}
}

// ClampLimit normalizes a requested page size into [1, maxPageLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

func (s *authorService) List(ctx context.Context, cursor *repository.Cursor, letter string, limit int) (*AuthorPage, error) {
	limit = ClampLimit(limit)

	authors, err := s.authors.List(ctx, cursor, letter, limit)
	if err != nil {
		return nil, err
	}

	page := &AuthorPage{
		Authors: authors,
		// heuristic: a full page probably has a successor. An exact
		// multiple of the limit costs one extra empty page.
		HasMore: len(authors) == limit,
	}
	if page.HasMore {
		last := authors[len(authors)-1]
		page.NextCursor = &repository.Cursor{SortKey: last.SortKey, ID: last.ID}
	}
	return page, nil
}

func (s *authorService) GetByID(ctx context.Context, id int64) (*models.Author, []models.Book, error) {
	author, err := s.authors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	books, err := s.authors.ListActiveBooks(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return author, books, nil
}

func (s *authorService) Update(ctx context.Context, id int64, name, bio, photoURL *string) (*models.Author, error) {
	author, err := s.authors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if name != nil {
		// renames recompute the stored sort key
		author.SetName(*name)
	}
	if bio != nil {
		author.Bio = bio
	}
	if photoURL != nil {
		author.PhotoURL = photoURL
	}

	if err := s.authors.Update(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// classifyBooks splits an author's active books into sole-authored (to be
// hard-deleted) and co-authored (preserved, association removed). Kept
// pure so the rule is testable without a live transaction.
func classifyBooks(counts []repository.BookAuthorCount) (sole, coAuthored []int64) {
	for _, c := range counts {
		if c.ActiveAuthors == 1 {
			sole = append(sole, c.BookID)
		} else {
			coAuthored = append(coAuthored, c.BookID)
		}
	}
	return sole, coAuthored
}

// Delete permanently removes an author. Sole-authored active books are
// hard-deleted with it; co-authored books lose only this author's
// attribution. There is no soft-delete path for authors.
func (s *authorService) Delete(ctx context.Context, id int64) (*DeletionResult, error) {
	s.guard.Lock()
	defer s.guard.Unlock()

	if _, err := s.authors.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	counts, err := s.authors.CountActiveAuthorships(ctx, id)
	if err != nil {
		return nil, err
	}
	sole, coAuthored := classifyBooks(counts)

	if err := s.authors.DeleteCascade(ctx, id, sole); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.log.Info("author deleted",
		"author_id", id,
		"deleted_books", len(sole),
		"preserved_books", len(coAuthored))

	return &DeletionResult{
		DeletedBooks:   len(sole),
		PreservedBooks: len(coAuthored),
	}, nil
}
