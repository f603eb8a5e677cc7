package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bookhub/internal/httpapi/repository"
	"bookhub/internal/models"
	"bookhub/internal/ownership"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func libraryFixture(t *testing.T, dirs ...string) *ownership.Index {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	return ownership.NewIndex(root, time.Hour, nil)
}

func TestRescanUpdatesOwnership(t *testing.T) {
	index := libraryFixture(t, "F. Fitzgerald/Gatsby (B1)")
	books := new(MockBookRepo)

	books.On("ListActiveForRescan", mock.Anything).Return([]repository.RescanBook{
		// on disk, currently unowned: flips to filesystem
		{BookID: 1, Title: "Gatsby", PrimaryAuthorName: "F. Fitzgerald", Owned: false, OwnedSource: models.OwnedSourceNone},
		// not on disk, currently filesystem-owned: flips back to none
		{BookID: 2, Title: "Tender Is the Night", PrimaryAuthorName: "F. Fitzgerald", Owned: true, OwnedSource: models.OwnedSourceFilesystem},
		// already correct: untouched
		{BookID: 3, Title: "Frankenstein", PrimaryAuthorName: "Mary Shelley", Owned: false, OwnedSource: models.OwnedSourceNone},
	}, nil).Once()
	books.On("ApplyOwnership", mock.Anything, []repository.OwnershipUpdate{
		{BookID: 1, Owned: true, Source: models.OwnedSourceFilesystem},
		{BookID: 2, Owned: false, Source: models.OwnedSourceNone},
	}).Return(nil).Once()

	svc := NewLibraryService(index, books, &ReconcileGuard{}, nil)
	result, err := svc.Rescan(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Entries)
	assert.Equal(t, 2, result.UpdatedBooks)
	books.AssertExpectations(t)
}

func TestRescanManualOwnershipIsSticky(t *testing.T) {
	// the matching directory is gone, but the manual override must survive
	index := libraryFixture(t)
	books := new(MockBookRepo)

	books.On("ListActiveForRescan", mock.Anything).Return([]repository.RescanBook{
		{BookID: 1, Title: "Gatsby", PrimaryAuthorName: "F. Fitzgerald", Owned: true, OwnedSource: models.OwnedSourceManual},
	}, nil).Once()
	books.On("ApplyOwnership", mock.Anything, []repository.OwnershipUpdate(nil)).Return(nil).Once()

	svc := NewLibraryService(index, books, &ReconcileGuard{}, nil)
	result, err := svc.Rescan(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, 0, result.UpdatedBooks)
	books.AssertExpectations(t)
}

func TestRescanUnreadableRootFails(t *testing.T) {
	root := t.TempDir()
	index := ownership.NewIndex(filepath.Join(root, "missing"), time.Hour, nil)
	books := new(MockBookRepo)

	svc := NewLibraryService(index, books, &ReconcileGuard{}, nil)
	_, err := svc.Rescan(context.Background(), true)

	var accessErr *ownership.AccessError
	require.ErrorAs(t, err, &accessErr)
	books.AssertNotCalled(t, "ApplyOwnership", mock.Anything, mock.Anything)
}

func TestStatusBeforeAndAfterScan(t *testing.T) {
	index := libraryFixture(t, "F. Fitzgerald/Gatsby (B1)")
	books := new(MockBookRepo)
	svc := NewLibraryService(index, books, &ReconcileGuard{}, nil)

	status := svc.Status(context.Background())
	assert.False(t, status.Scanned)

	_, err := index.Rebuild()
	require.NoError(t, err)

	status = svc.Status(context.Background())
	assert.True(t, status.Scanned)
	assert.Equal(t, 1, status.Entries)
}
