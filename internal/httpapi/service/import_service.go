package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bookhub/internal/httpapi/repository"
	"bookhub/internal/ingestion/openlibrary"
	"bookhub/internal/models"
)

// CatalogueClient is the slice of the rate-limited gateway the reconciler
// consumes.
type CatalogueClient interface {
	GetBook(ctx context.Context, externalID string) (*openlibrary.BookRecord, error)
	GetAuthor(ctx context.Context, externalID string) (*openlibrary.AuthorRecord, error)
	SearchBooks(ctx context.Context, query string) (*openlibrary.SearchResponse, error)
}

// OwnershipChecker answers ownership questions from the filesystem index.
type OwnershipChecker interface {
	IsOwned(authorName, title string) bool
}

// SkippedBook records why one bibliography entry was not imported.
type SkippedBook struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Reason     string `json:"reason"`
}

// AuthorImportSummary is the outcome of a bulk author import. Partial
// skips are not errors; the operation fails only when the author itself
// cannot be fetched.
type AuthorImportSummary struct {
	Author   *models.Author `json:"author"`
	Imported int            `json:"imported"`
	Skipped  []SkippedBook  `json:"skipped"`
}

type ImportService interface {
	ImportBook(ctx context.Context, externalID string) (*models.Book, error)
	ImportAuthor(ctx context.Context, externalID string) (*AuthorImportSummary, error)
	SearchCatalogue(ctx context.Context, query string) (*openlibrary.SearchResponse, error)
}

type importService struct {
	catalogue CatalogueClient
	index     OwnershipChecker
	books     repository.BookRepository
	authors   repository.AuthorRepository
	log       *slog.Logger
}

func NewImportService(
	catalogue CatalogueClient,
	index OwnershipChecker,
	books repository.BookRepository,
	authors repository.AuthorRepository,
	log *slog.Logger,
) ImportService {
	if log == nil {
		log = slog.Default()
	}
	return &importService{
		catalogue: catalogue,
		index:     index,
		books:     books,
		authors:   authors,
		log:       log,
	}
}

// matchState tags the outcome of the two-step duplicate lookup.
type matchState int

const (
	matchNone matchState = iota
	matchActive
	matchDeleted
)

// lookupExisting runs the duplicate checks in contract order: first the
// normalized (primary author name, title) pair among active books, then
// the external id as a fallback for catalogue inconsistencies.
func (s *importService) lookupExisting(ctx context.Context, record *openlibrary.BookRecord) (matchState, error) {
	if primary := record.PrimaryAuthor(); primary.Name != "" {
		existing, err := s.books.FindActiveByAuthorTitle(ctx, primary.Name, record.Title)
		if err != nil {
			return matchNone, err
		}
		if existing != nil {
			return matchActive, nil
		}
	}

	existing, err := s.books.FindByExternalID(ctx, record.ExternalID)
	if err != nil {
		return matchNone, err
	}
	if existing == nil {
		return matchNone, nil
	}
	if existing.Deleted {
		return matchDeleted, nil
	}
	return matchActive, nil
}

func (s *importService) ImportBook(ctx context.Context, externalID string) (*models.Book, error) {
	record, err := s.catalogue.GetBook(ctx, externalID)
	if err != nil {
		if errors.Is(err, openlibrary.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch book %s: %w", externalID, err)
	}

	return s.importRecord(ctx, record)
}

// importRecord applies the duplicate decision and persists a new book.
func (s *importService) importRecord(ctx context.Context, record *openlibrary.BookRecord) (*models.Book, error) {
	state, err := s.lookupExisting(ctx, record)
	if err != nil {
		return nil, err
	}
	switch state {
	case matchActive:
		return nil, &ConflictError{Reason: ReasonAlreadyImported}
	case matchDeleted:
		return nil, &ConflictError{Reason: ReasonPreviouslyDeleted}
	}

	authors := make([]*models.Author, 0, len(record.Authors))
	for _, ref := range record.Authors {
		a := &models.Author{ExternalID: ref.ExternalID}
		a.SetName(ref.Name)
		authors = append(authors, a)
	}

	book := &models.Book{
		ExternalID:    record.ExternalID,
		Title:         record.Title,
		ISBN:          record.ISBN,
		Description:   record.Description,
		PublishedDate: record.PublishedDate,
		CoverURL:      record.CoverURL,
		OwnedSource:   models.OwnedSourceNone,
	}

	if primary := record.PrimaryAuthor(); primary.Name != "" {
		if s.index.IsOwned(primary.Name, record.Title) {
			book.Owned = true
			book.OwnedSource = models.OwnedSourceFilesystem
		}
	}

	if err := s.books.CreateWithAuthors(ctx, book, authors); err != nil {
		if errors.Is(err, repository.ErrDuplicateExternalID) {
			// lost a race against a concurrent import of the same id
			return nil, &ConflictError{Reason: ReasonAlreadyImported}
		}
		return nil, err
	}

	s.log.Info("book imported",
		"external_id", book.ExternalID,
		"title", book.Title,
		"owned", book.Owned)

	return book, nil
}

func (s *importService) ImportAuthor(ctx context.Context, externalID string) (*AuthorImportSummary, error) {
	record, err := s.catalogue.GetAuthor(ctx, externalID)
	if err != nil {
		if errors.Is(err, openlibrary.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch author %s: %w", externalID, err)
	}

	author := &models.Author{
		ExternalID: record.ExternalID,
		Bio:        record.Bio,
		PhotoURL:   record.PhotoURL,
	}
	author.SetName(record.Name)
	if err := s.authors.GetOrCreate(ctx, author); err != nil {
		return nil, err
	}

	summary := &AuthorImportSummary{Author: author}

	for _, work := range record.Works {
		work := work
		if len(work.Authors) == 0 {
			// bibliography entries without attribution belong to this author
			work.Authors = []openlibrary.AuthorRef{{ExternalID: record.ExternalID, Name: record.Name}}
		}

		_, err := s.importRecord(ctx, &work)
		if err == nil {
			summary.Imported++
			continue
		}

		var conflict *ConflictError
		if errors.As(err, &conflict) {
			summary.Skipped = append(summary.Skipped, SkippedBook{
				ExternalID: work.ExternalID,
				Title:      work.Title,
				Reason:     conflict.Reason,
			})
			continue
		}

		// storage failures abort; the current book's transaction already
		// rolled back, earlier books stay imported
		return nil, fmt.Errorf("import work %s: %w", work.ExternalID, err)
	}

	s.log.Info("author bibliography imported",
		"external_id", record.ExternalID,
		"imported", summary.Imported,
		"skipped", len(summary.Skipped))

	return summary, nil
}

func (s *importService) SearchCatalogue(ctx context.Context, query string) (*openlibrary.SearchResponse, error) {
	return s.catalogue.SearchBooks(ctx, query)
}
