package model

import (
	"fmt"
	"time"
)

// Language identifies a subtitle track.
type Language string

const (
	Korean  Language = "ko"
	English Language = "en"
)

// ParseLanguage accepts "ko" and "en"; an empty string defaults to Korean.
func ParseLanguage(s string) (Language, error) {
	switch s {
	case "", "ko":
		return Korean, nil
	case "en":
		return English, nil
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

// Segment is one time-aligned subtitle line of a track.
type Segment struct {
	ID                int64     `json:"id"`
	VideoID           string    `json:"videoId"`
	Lang              Language  `json:"lang"`
	SequenceNum       int       `json:"sequenceNum"`
	StartTimeMs       int       `json:"startTimeMs"`
	EndTimeMs         int       `json:"endTimeMs"`
	Text              string    `json:"text"`
	TextNormalized    string    `json:"-"`
	Speaker           *string   `json:"speaker,omitempty"`
	IsTranslated      bool      `json:"isTranslated"`
	TranslationSource *string   `json:"translationSource,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// SegmentInput is one segment to write. TextNormalized is derived on write.
type SegmentInput struct {
	SequenceNum       int
	StartTimeMs       int
	EndTimeMs         int
	Text              string
	Speaker           *string
	IsTranslated      bool
	TranslationSource *string
}

// Context is a segment and its ordered neighborhood within the same track.
type Context struct {
	VideoID  string    `json:"videoId"`
	Center   Segment   `json:"center"`
	Segments []Segment `json:"segments"`
}

// NeighborIDs returns the ids of every segment in the window.
func (c *Context) NeighborIDs() []int64 {
	ids := make([]int64, len(c.Segments))
	for i, s := range c.Segments {
		ids[i] = s.ID
	}
	return ids
}

// Sentences renders the window as dialogue lines, prefixing the speaker
// when one is known.
func (c *Context) Sentences() []string {
	out := make([]string, len(c.Segments))
	for i, s := range c.Segments {
		if s.Speaker != nil && *s.Speaker != "" {
			out[i] = *s.Speaker + ": " + s.Text
		} else {
			out[i] = s.Text
		}
	}
	return out
}
