package openlibrary

// Wire types for the catalogue API. The catalogue is the source of truth
// for external ids; everything else is advisory metadata.

// AuthorRef is an ordered attribution entry on a book record.
type AuthorRef struct {
	ExternalID string `json:"key"`
	Name       string `json:"name"`
}

// BookRecord is a single catalogue book with its ordered contributors.
type BookRecord struct {
	ExternalID    string      `json:"key"`
	Title         string      `json:"title"`
	ISBN          *string     `json:"isbn,omitempty"`
	Description   *string     `json:"description,omitempty"`
	PublishedDate *string     `json:"published_date,omitempty"`
	CoverURL      *string     `json:"cover_url,omitempty"`
	Authors       []AuthorRef `json:"authors"`
}

// PrimaryAuthor returns the first-listed contributor, or a zero AuthorRef
// when the catalogue reports none.
func (b BookRecord) PrimaryAuthor() AuthorRef {
	if len(b.Authors) == 0 {
		return AuthorRef{}
	}
	return b.Authors[0]
}

// AuthorRecord is a catalogue author together with their full bibliography.
type AuthorRecord struct {
	ExternalID string       `json:"key"`
	Name       string       `json:"name"`
	Bio        *string      `json:"bio,omitempty"`
	PhotoURL   *string      `json:"photo_url,omitempty"`
	Works      []BookRecord `json:"works"`
}

// SearchResponse wraps catalogue search results.
type SearchResponse struct {
	Total int          `json:"total"`
	Docs  []BookRecord `json:"docs"`
}
