package service

import (
	"context"
	"testing"

	"bookhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func boolPtr(b bool) *bool { return &b }

func TestBookUpdateManualOwnershipOverride(t *testing.T) {
	books := new(MockBookRepo)
	svc := NewBookService(books, nil)

	existing := &models.Book{ID: 1, Title: "Gatsby", Owned: false, OwnedSource: models.OwnedSourceNone}
	books.On("GetByID", mock.Anything, int64(1)).Return(existing, nil).Once()
	books.On("Update", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.Owned && b.OwnedSource == models.OwnedSourceManual
	})).Return(nil).Once()

	updated, err := svc.Update(context.Background(), 1, BookPatch{Owned: boolPtr(true)})

	require.NoError(t, err)
	assert.True(t, updated.Owned)
	assert.Equal(t, models.OwnedSourceManual, updated.OwnedSource)
}

func TestBookUpdateClearOwnership(t *testing.T) {
	books := new(MockBookRepo)
	svc := NewBookService(books, nil)

	existing := &models.Book{ID: 1, Title: "Gatsby", Owned: true, OwnedSource: models.OwnedSourceManual}
	books.On("GetByID", mock.Anything, int64(1)).Return(existing, nil).Once()
	books.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := svc.Update(context.Background(), 1, BookPatch{Owned: boolPtr(false)})

	require.NoError(t, err)
	assert.False(t, updated.Owned)
	assert.Equal(t, models.OwnedSourceNone, updated.OwnedSource)
}

func TestBookUpdateMetadataOnlyKeepsOwnership(t *testing.T) {
	books := new(MockBookRepo)
	svc := NewBookService(books, nil)

	existing := &models.Book{ID: 1, Title: "Gatsby", Owned: true, OwnedSource: models.OwnedSourceManual}
	books.On("GetByID", mock.Anything, int64(1)).Return(existing, nil).Once()
	books.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	title := "The Great Gatsby"
	updated, err := svc.Update(context.Background(), 1, BookPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "The Great Gatsby", updated.Title)
	assert.True(t, updated.Owned)
	assert.Equal(t, models.OwnedSourceManual, updated.OwnedSource)
}

func TestBookSoftDeleteNotFound(t *testing.T) {
	books := new(MockBookRepo)
	svc := NewBookService(books, nil)

	books.On("SoftDelete", mock.Anything, int64(404)).Return(gorm.ErrRecordNotFound).Once()

	err := svc.SoftDelete(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
}
