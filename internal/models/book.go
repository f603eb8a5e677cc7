package models

import "time"

// OwnedSource records where a book's owned flag came from.
type OwnedSource string

const (
	OwnedSourceNone       OwnedSource = "none"
	OwnedSourceFilesystem OwnedSource = "filesystem"
	OwnedSourceManual     OwnedSource = "manual"
)

type Book struct {
	ID            int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	ExternalID    string      `json:"external_id" gorm:"uniqueIndex;size:64;not null"`
	Title         string      `json:"title" gorm:"not null"`
	ISBN          *string     `json:"isbn,omitempty" gorm:"size:20"`
	Description   *string     `json:"description,omitempty"`
	PublishedDate *string     `json:"published_date,omitempty"`
	CoverURL      *string     `json:"cover_url,omitempty"`
	Owned         bool        `json:"owned" gorm:"not null;default:false"`
	OwnedSource   OwnedSource `json:"owned_source" gorm:"size:16;not null;default:none"`
	Deleted       bool        `json:"deleted" gorm:"not null;default:false;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// association
	Authorships []Authorship `json:"authorships,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
}

func (Book) TableName() string {
	return "books"
}
