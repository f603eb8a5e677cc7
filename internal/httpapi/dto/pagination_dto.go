package dto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"bookhub/internal/httpapi/repository"
)

// pageCursor is the wire shape of a pagination cursor. Clients treat the
// encoded form as opaque.
type pageCursor struct {
	SortKey string `json:"k"`
	ID      int64  `json:"id"`
}

// EncodeCursor serializes a cursor for the client.
func EncodeCursor(c *repository.Cursor) string {
	if c == nil {
		return ""
	}
	raw, _ := json.Marshal(pageCursor{SortKey: c.SortKey, ID: c.ID})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a client-supplied cursor. An empty string means
// "start from the beginning".
func DecodeCursor(encoded string) (*repository.Cursor, error) {
	if encoded == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var pc pageCursor
	if err := json.Unmarshal(raw, &pc); err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	return &repository.Cursor{SortKey: pc.SortKey, ID: pc.ID}, nil
}

// ListAuthorsQuery binds the author list query string. Changing the letter
// filter invalidates any previous cursor; the handler enforces that the
// caller restarted.
type ListAuthorsQuery struct {
	Cursor string `form:"cursor"`
	Letter string `form:"letter" binding:"omitempty,len=1,alpha"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
