package dto

import (
	"time"

	"bookhub/internal/httpapi/service"
	"bookhub/internal/models"
)

// ImportBookDTO used for POST /api/books/import
type ImportBookDTO struct {
	ExternalID string `json:"external_id" binding:"required"`
}

// UpdateBookDTO used for PUT /api/books/:id (partial updates allowed).
// Setting owned is a manual override and is sticky against rescans.
type UpdateBookDTO struct {
	Title         *string `json:"title,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	Description   *string `json:"description,omitempty"`
	PublishedDate *string `json:"published_date,omitempty"`
	CoverURL      *string `json:"cover_url,omitempty"`
	Owned         *bool   `json:"owned,omitempty"`
}

func (d UpdateBookDTO) ToPatch() service.BookPatch {
	return service.BookPatch{
		Title:         d.Title,
		ISBN:          d.ISBN,
		Description:   d.Description,
		PublishedDate: d.PublishedDate,
		CoverURL:      d.CoverURL,
		Owned:         d.Owned,
	}
}

// AuthorBrief is the attribution entry embedded in book responses.
type AuthorBrief struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookResponse DTO for responses
type BookResponse struct {
	ID            int64              `json:"id"`
	ExternalID    string             `json:"external_id"`
	Title         string             `json:"title"`
	ISBN          *string            `json:"isbn,omitempty"`
	Description   *string            `json:"description,omitempty"`
	PublishedDate *string            `json:"published_date,omitempty"`
	CoverURL      *string            `json:"cover_url,omitempty"`
	Owned         bool               `json:"owned"`
	OwnedSource   models.OwnedSource `json:"owned_source"`
	Authors       []AuthorBrief      `json:"authors,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

func FromBookToResponse(b models.Book) BookResponse {
	resp := BookResponse{
		ID:            b.ID,
		ExternalID:    b.ExternalID,
		Title:         b.Title,
		ISBN:          b.ISBN,
		Description:   b.Description,
		PublishedDate: b.PublishedDate,
		CoverURL:      b.CoverURL,
		Owned:         b.Owned,
		OwnedSource:   b.OwnedSource,
		CreatedAt:     b.CreatedAt,
	}
	// authorships come preloaded in position order
	for _, link := range b.Authorships {
		if link.Author != nil {
			resp.Authors = append(resp.Authors, AuthorBrief{ID: link.Author.ID, Name: link.Author.Name})
		}
	}
	return resp
}
