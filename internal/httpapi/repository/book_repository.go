package repository

import (
	"context"
	"errors"
	"fmt"

	"bookhub/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateExternalID surfaces a unique-constraint violation on an
// external id, e.g. two concurrent imports racing on the same book.
var ErrDuplicateExternalID = errors.New("external id already exists")

const pgUniqueViolation = "23505"

// OwnershipUpdate is one book's new ownership state computed by a rescan.
type OwnershipUpdate struct {
	BookID int64
	Owned  bool
	Source models.OwnedSource
}

// RescanBook is the slice of a book a rescan needs: its primary author
// name plus the current ownership provenance.
type RescanBook struct {
	BookID            int64
	Title             string
	PrimaryAuthorName string
	Owned             bool
	OwnedSource       models.OwnedSource
}

type BookRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	FindActiveByAuthorTitle(ctx context.Context, authorName, title string) (*models.Book, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.Book, error)
	ListActive(ctx context.Context, page, pageSize int) ([]models.Book, int64, error)
	ListActiveForRescan(ctx context.Context) ([]RescanBook, error)
	CreateWithAuthors(ctx context.Context, book *models.Book, authors []*models.Author) error
	Update(ctx context.Context, book *models.Book) error
	SoftDelete(ctx context.Context, id int64) error
	ApplyOwnership(ctx context.Context, updates []OwnershipUpdate) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	err := r.db.WithContext(ctx).
		Preload("Authorships", func(db *gorm.DB) *gorm.DB {
			return db.Order("authorships.position ASC")
		}).
		Preload("Authorships.Author").
		First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindActiveByAuthorTitle is the primary duplicate check: a case-insensitive
// exact match on (primary author name, title) among non-deleted books.
// Returns nil, nil when nothing matches.
func (r *bookRepository) FindActiveByAuthorTitle(ctx context.Context, authorName, title string) (*models.Book, error) {
	var b models.Book
	err := r.db.WithContext(ctx).
		Joins("JOIN authorships ON authorships.book_id = books.id AND authorships.position = 0").
		Joins("JOIN authors ON authors.id = authorships.author_id").
		Where("LOWER(authors.name) = LOWER(?) AND LOWER(books.title) = LOWER(?) AND books.deleted = ?",
			authorName, title, false).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book by author/title: %w", err)
	}
	return &b, nil
}

// FindByExternalID matches on the catalogue id, including soft-deleted
// rows. Returns nil, nil when nothing matches.
func (r *bookRepository) FindByExternalID(ctx context.Context, externalID string) (*models.Book, error) {
	var b models.Book
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book by external id: %w", err)
	}
	return &b, nil
}

func (r *bookRepository) ListActive(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Book{}).Where("deleted = ?", false)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := base.
		Preload("Authorships", func(db *gorm.DB) *gorm.DB {
			return db.Order("authorships.position ASC")
		}).
		Preload("Authorships.Author").
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *bookRepository) ListActiveForRescan(ctx context.Context) ([]RescanBook, error) {
	var books []RescanBook
	err := r.db.WithContext(ctx).Raw(`
		SELECT b.id AS book_id, b.title, a.name AS primary_author_name, b.owned, b.owned_source
		FROM books b
		JOIN authorships ap ON ap.book_id = b.id AND ap.position = 0
		JOIN authors a ON a.id = ap.author_id
		WHERE b.deleted = FALSE`).
		Scan(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list books for rescan: %w", err)
	}
	return books, nil
}

// CreateWithAuthors persists one imported book atomically: authors are
// resolved or created by external id, then the book row, then authorship
// rows preserving contributor order. A failure at any step rolls back all.
func (r *bookRepository) CreateWithAuthors(ctx context.Context, book *models.Book, authors []*models.Author) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, author := range authors {
			var existing models.Author
			err := tx.Where("external_id = ?", author.ExternalID).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(author).Error; err != nil {
					return fmt.Errorf("create author: %w", err)
				}
			case err != nil:
				return fmt.Errorf("lookup author: %w", err)
			default:
				*author = existing
			}
		}

		if err := tx.Create(book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}

		for i, author := range authors {
			link := models.Authorship{
				BookID:   book.ID,
				AuthorID: author.ID,
				Position: i,
			}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("create authorship: %w", err)
			}
		}
		return nil
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateExternalID
	}
	return err
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	// the book usually arrives with preloaded authorships; saving those
	// again would re-issue inserts for rows that already exist
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(book).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *bookRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	if res.Error != nil {
		return fmt.Errorf("soft delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ApplyOwnership writes the rescan result in one transaction.
func (r *bookRepository) ApplyOwnership(ctx context.Context, updates []OwnershipUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			err := tx.Model(&models.Book{}).
				Where("id = ?", u.BookID).
				Updates(map[string]interface{}{
					"owned":        u.Owned,
					"owned_source": u.Source,
				}).Error
			if err != nil {
				return fmt.Errorf("apply ownership for book %d: %w", u.BookID, err)
			}
		}
		return nil
	})
}
