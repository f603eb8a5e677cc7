package models

// Authorship links a book to one of its authors. Position preserves the
// contributor order reported by the catalogue. Rows live and die with their
// parents via the FK cascade.
type Authorship struct {
	ID       int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID   int64 `json:"book_id" gorm:"not null;index;uniqueIndex:idx_authorships_book_author"`
	AuthorID int64 `json:"author_id" gorm:"not null;index;uniqueIndex:idx_authorships_book_author"`
	Position int   `json:"position" gorm:"not null;default:0"`

	Author *Author `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	Book   *Book   `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

func (Authorship) TableName() string {
	return "authorships"
}
