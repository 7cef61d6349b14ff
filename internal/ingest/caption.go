package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chabro2633/diary-korean/internal/model"
)

// json3 is the timed-text caption format written by yt-dlp --sub-format json3.
type json3 struct {
	Events []struct {
		TStartMs    int `json:"tStartMs"`
		DDurationMs int `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// ParseCaptions converts a json3 caption document into sequenced segment
// inputs. Line-break segs are dropped and the rest joined verbatim, so
// word segs separated by a " " seg keep their space. Events without text
// are dropped; sequence numbers are assigned from 1 over the events kept.
func ParseCaptions(data []byte) ([]model.SegmentInput, error) {
	var doc json3
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json3: %w", err)
	}

	var out []model.SegmentInput
	for _, ev := range doc.Events {
		if len(ev.Segs) == 0 {
			continue
		}
		var b strings.Builder
		for _, s := range ev.Segs {
			if s.UTF8 == "\n" {
				continue
			}
			b.WriteString(s.UTF8)
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}

		start := max(ev.TStartMs, 0)
		out = append(out, model.SegmentInput{
			SequenceNum: len(out) + 1,
			StartTimeMs: start,
			EndTimeMs:   start + max(ev.DDurationMs, 0),
			Text:        text,
		})
	}
	return out, nil
}
