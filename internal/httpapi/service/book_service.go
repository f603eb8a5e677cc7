package service

import (
	"context"
	"errors"
	"log/slog"

	"bookhub/internal/httpapi/repository"
	"bookhub/internal/models"

	"gorm.io/gorm"
)

// BookPatch carries a partial manual edit. A non-nil Owned field is a
// manual ownership override and flips the source to "manual".
type BookPatch struct {
	Title         *string
	ISBN          *string
	Description   *string
	PublishedDate *string
	CoverURL      *string
	Owned         *bool
}

type BookService interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	ListActive(ctx context.Context, page, pageSize int) ([]models.Book, int64, error)
	Update(ctx context.Context, id int64, patch BookPatch) (*models.Book, error)
	SoftDelete(ctx context.Context, id int64) error
}

type bookService struct {
	books repository.BookRepository
	log   *slog.Logger
}

func NewBookService(books repository.BookRepository, log *slog.Logger) BookService {
	if log == nil {
		log = slog.Default()
	}
	return &bookService{books: books, log: log}
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) ListActive(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	return s.books.ListActive(ctx, page, pageSize)
}

func (s *bookService) Update(ctx context.Context, id int64, patch BookPatch) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if patch.Title != nil && *patch.Title != "" {
		book.Title = *patch.Title
	}
	if patch.ISBN != nil {
		book.ISBN = patch.ISBN
	}
	if patch.Description != nil {
		book.Description = patch.Description
	}
	if patch.PublishedDate != nil {
		book.PublishedDate = patch.PublishedDate
	}
	if patch.CoverURL != nil {
		book.CoverURL = patch.CoverURL
	}
	if patch.Owned != nil {
		// a user override is sticky: rescans must not touch it again
		book.Owned = *patch.Owned
		if *patch.Owned {
			book.OwnedSource = models.OwnedSourceManual
		} else {
			book.OwnedSource = models.OwnedSourceNone
		}
	}

	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *bookService) SoftDelete(ctx context.Context, id int64) error {
	err := s.books.SoftDelete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
