package models

import (
	"strings"
	"time"
)

type Author struct {
	ID         int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	ExternalID string  `json:"external_id" gorm:"uniqueIndex;size:64;not null"`
	Name       string  `json:"name" gorm:"not null"`
	SortKey    string  `json:"sort_key" gorm:"not null;index"`
	Bio        *string `json:"bio,omitempty"`
	PhotoURL   *string `json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Author) TableName() string {
	return "authors"
}

// SetName updates the display name and recomputes the stored sort key.
func (a *Author) SetName(name string) {
	a.Name = strings.TrimSpace(name)
	a.SortKey = SortKey(a.Name)
}

// SortKey derives the "Last, First" ordering key from a display name.
// The split happens at the last space; single-word names are kept as-is.
func SortKey(fullName string) string {
	name := strings.TrimSpace(fullName)
	i := strings.LastIndex(name, " ")
	if i < 0 {
		return name
	}
	return name[i+1:] + ", " + name[:i]
}
