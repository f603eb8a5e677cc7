package dto

import (
	"time"

	"bookhub/internal/models"
)

// ImportAuthorDTO used for POST /api/authors/import
type ImportAuthorDTO struct {
	ExternalID string `json:"external_id" binding:"required"`
}

// UpdateAuthorDTO used for PUT /api/authors/:id (partial updates allowed)
type UpdateAuthorDTO struct {
	Name     *string `json:"name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// AuthorResponse DTO for responses
type AuthorResponse struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	SortKey    string    `json:"sort_key"`
	Bio        *string   `json:"bio,omitempty"`
	PhotoURL   *string   `json:"photo_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthorDetailResponse includes the author's active books.
type AuthorDetailResponse struct {
	AuthorResponse
	Books []BookResponse `json:"books"`
}

func FromAuthorToResponse(a models.Author) AuthorResponse {
	return AuthorResponse{
		ID:         a.ID,
		ExternalID: a.ExternalID,
		Name:       a.Name,
		SortKey:    a.SortKey,
		Bio:        a.Bio,
		PhotoURL:   a.PhotoURL,
		CreatedAt:  a.CreatedAt,
	}
}
