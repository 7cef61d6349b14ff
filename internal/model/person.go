package model

import (
	"slices"
	"time"
)

// Person categories.
var PersonCategories = []string{"idol", "actor", "comedian", "youtuber", "other"}

// ValidPersonCategory reports whether s is a known person category.
func ValidPersonCategory(s string) bool { return slices.Contains(PersonCategories, s) }

// Person is someone who appears in videos.
type Person struct {
	ID        int64     `json:"id"`
	NameKo    string    `json:"nameKo"`
	NameEn    *string   `json:"nameEn,omitempty"`
	GroupName *string   `json:"groupName,omitempty"`
	Category  *string   `json:"category,omitempty"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
