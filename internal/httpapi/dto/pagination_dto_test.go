package dto

import (
	"testing"

	"bookhub/internal/httpapi/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	original := &repository.Cursor{SortKey: "Fitzgerald, F. Scott", ID: 42}

	encoded := EncodeCursor(original)
	require.NotEmpty(t, encoded)

	decoded, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeCursorEmpty(t *testing.T) {
	decoded, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeCursorGarbage(t *testing.T) {
	_, err := DecodeCursor("not base64!!!")
	assert.Error(t, err)

	_, err = DecodeCursor("bm90IGpzb24")
	assert.Error(t, err)
}

func TestEncodeCursorNil(t *testing.T) {
	assert.Equal(t, "", EncodeCursor(nil))
}
