package service

import (
	"context"
	"log/slog"
	"time"

	"bookhub/internal/httpapi/repository"
	"bookhub/internal/models"
	"bookhub/internal/ownership"
)

// RescanResult reports one ownership rescan over the library tree.
type RescanResult struct {
	Entries      int `json:"entries"`
	Skipped      int `json:"skipped"`
	UpdatedBooks int `json:"updated_books"`
}

// LibraryStatus describes the current ownership snapshot.
type LibraryStatus struct {
	Scanned bool      `json:"scanned"`
	Entries int       `json:"entries"`
	Skipped int       `json:"skipped"`
	BuiltAt time.Time `json:"built_at,omitempty"`
}

type LibraryService interface {
	Rescan(ctx context.Context, force bool) (*RescanResult, error)
	Status(ctx context.Context) *LibraryStatus
}

type libraryService struct {
	index *ownership.Index
	books repository.BookRepository
	guard *ReconcileGuard
	log   *slog.Logger
}

func NewLibraryService(index *ownership.Index, books repository.BookRepository, guard *ReconcileGuard, log *slog.Logger) LibraryService {
	if log == nil {
		log = slog.Default()
	}
	return &libraryService{index: index, books: books, guard: guard, log: log}
}

// Rescan rebuilds the ownership index (respecting the TTL unless forced)
// and reconciles every active book's owned flag against it. Books whose
// ownership was set manually are never touched.
func (s *libraryService) Rescan(ctx context.Context, force bool) (*RescanResult, error) {
	s.guard.Lock()
	defer s.guard.Unlock()

	snap, err := s.index.Refresh(force)
	if err != nil {
		return nil, err
	}

	books, err := s.books.ListActiveForRescan(ctx)
	if err != nil {
		return nil, err
	}

	var updates []repository.OwnershipUpdate
	for _, b := range books {
		if b.OwnedSource == models.OwnedSourceManual {
			continue
		}

		owned := snap.Contains(b.PrimaryAuthorName, b.Title)
		source := models.OwnedSourceNone
		if owned {
			source = models.OwnedSourceFilesystem
		}

		if b.Owned == owned && b.OwnedSource == source {
			continue
		}
		updates = append(updates, repository.OwnershipUpdate{
			BookID: b.BookID,
			Owned:  owned,
			Source: source,
		})
	}

	if err := s.books.ApplyOwnership(ctx, updates); err != nil {
		return nil, err
	}

	s.log.Info("ownership rescan complete",
		"entries", snap.Len(),
		"skipped", snap.Skipped(),
		"updated_books", len(updates))

	return &RescanResult{
		Entries:      snap.Len(),
		Skipped:      snap.Skipped(),
		UpdatedBooks: len(updates),
	}, nil
}

func (s *libraryService) Status(ctx context.Context) *LibraryStatus {
	snap := s.index.Current()
	if snap == nil {
		return &LibraryStatus{Scanned: false}
	}
	return &LibraryStatus{
		Scanned: true,
		Entries: snap.Len(),
		Skipped: snap.Skipped(),
		BuiltAt: snap.BuiltAt(),
	}
}
