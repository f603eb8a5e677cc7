package repository

import (
	"context"
	"errors"
	"fmt"

	"bookhub/internal/models"

	"gorm.io/gorm"
)

// Cursor marks a pagination position: the (sortKey, id) of the last row of
// the previous page. It is not a row offset.
type Cursor struct {
	SortKey string
	ID      int64
}

// BookAuthorCount is one active book of an author together with how many
// active authors that book has in total.
type BookAuthorCount struct {
	BookID        int64
	ActiveAuthors int
}

type AuthorRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Author, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Author, error)
	GetOrCreate(ctx context.Context, author *models.Author) error
	Update(ctx context.Context, author *models.Author) error
	List(ctx context.Context, cursor *Cursor, letter string, limit int) ([]models.Author, error)
	ListActiveBooks(ctx context.Context, authorID int64) ([]models.Book, error)
	CountActiveAuthorships(ctx context.Context, authorID int64) ([]BookAuthorCount, error)
	DeleteCascade(ctx context.Context, authorID int64, soleBookIDs []int64) error
}

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	var a models.Author
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *authorRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Author, error) {
	var a models.Author
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetOrCreate resolves an author by external id, creating the row when it
// does not exist yet. On a hit the argument is overwritten with the stored
// row; catalogue metadata never clobbers local edits.
func (r *authorRepository) GetOrCreate(ctx context.Context, author *models.Author) error {
	var existing models.Author
	err := r.db.WithContext(ctx).Where("external_id = ?", author.ExternalID).First(&existing).Error
	if err == nil {
		*author = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup author: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(author).Error; err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	return nil
}

func (r *authorRepository) Update(ctx context.Context, author *models.Author) error {
	if err := r.db.WithContext(ctx).Save(author).Error; err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	return nil
}

// List serves one page of authors ordered by (lower(sort_key), id). The
// cursor predicate is a row-value comparison, so cost does not depend on
// how many pages precede the requested one.
func (r *authorRepository) List(ctx context.Context, cursor *Cursor, letter string, limit int) ([]models.Author, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Author{}).
		Order("lower(sort_key) ASC, id ASC").
		Limit(limit)

	if letter != "" {
		q = q.Where("sort_key ILIKE ?", letter+"%")
	}
	if cursor != nil {
		q = q.Where("(lower(sort_key), id) > (lower(?), ?)", cursor.SortKey, cursor.ID)
	}

	var list []models.Author
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return list, nil
}

func (r *authorRepository) ListActiveBooks(ctx context.Context, authorID int64) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).
		Joins("JOIN authorships ON authorships.book_id = books.id").
		Where("authorships.author_id = ? AND books.deleted = ?", authorID, false).
		Order("books.title ASC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list author books: %w", err)
	}
	return books, nil
}

// CountActiveAuthorships returns, for every active book attributed to this
// author, the total number of active authorship rows on that book. This is
// the input to sole/co-authored classification.
func (r *authorRepository) CountActiveAuthorships(ctx context.Context, authorID int64) ([]BookAuthorCount, error) {
	var counts []BookAuthorCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT b.id AS book_id, COUNT(other.id) AS active_authors
		FROM books b
		JOIN authorships mine ON mine.book_id = b.id AND mine.author_id = ?
		JOIN authorships other ON other.book_id = b.id
		WHERE b.deleted = FALSE
		GROUP BY b.id`, authorID).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count authorships: %w", err)
	}
	return counts, nil
}

// DeleteCascade hard-deletes the sole-authored books and then the author
// inside one transaction. Authorship rows go with their parents; either
// everything commits or nothing does.
func (r *authorRepository) DeleteCascade(ctx context.Context, authorID int64, soleBookIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(soleBookIDs) > 0 {
			if err := tx.Where("book_id IN ?", soleBookIDs).Delete(&models.Authorship{}).Error; err != nil {
				return fmt.Errorf("delete book authorships: %w", err)
			}
			if err := tx.Where("id IN ?", soleBookIDs).Delete(&models.Book{}).Error; err != nil {
				return fmt.Errorf("delete sole-authored books: %w", err)
			}
		}

		// remaining rows are the co-authored associations
		if err := tx.Where("author_id = ?", authorID).Delete(&models.Authorship{}).Error; err != nil {
			return fmt.Errorf("delete author authorships: %w", err)
		}

		res := tx.Delete(&models.Author{}, authorID)
		if res.Error != nil {
			return fmt.Errorf("delete author: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
