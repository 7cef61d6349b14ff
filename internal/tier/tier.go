// Package tier classifies a video's subtitle composition into a quality tier.
package tier

import "fmt"

// Origin is how a subtitle track was produced. The zero value means the
// track is absent.
type Origin string

const (
	Absent    Origin = ""
	Manual    Origin = "manual"
	Auto      Origin = "auto"
	Community Origin = "community"
)

// ParseOrigin accepts "manual", "auto", "community" and "" (absent).
func ParseOrigin(s string) (Origin, error) {
	switch o := Origin(s); o {
	case Absent, Manual, Auto, Community:
		return o, nil
	}
	return Absent, fmt.Errorf("invalid subtitle origin %q", s)
}

// Present reports whether the track exists.
func (o Origin) Present() bool { return o != Absent }

// ManualQuality reports whether the track was written by a person.
func (o Origin) ManualQuality() bool { return o == Manual || o == Community }

// Ptr returns nil for an absent origin, for nullable columns.
func (o Origin) Ptr() *string {
	if o == Absent {
		return nil
	}
	s := string(o)
	return &s
}

// Composition is the per-language origin of a video's subtitle tracks.
type Composition struct {
	Korean  Origin
	English Origin
}

// Tier is a subtitle quality tier; 1 is best.
type Tier int

const (
	ManualBoth Tier = 1
	HasEnglish Tier = 2
	ManualKo   Tier = 3
	Fallback   Tier = 4
)

// All lists every tier in order.
var All = []Tier{ManualBoth, HasEnglish, ManualKo, Fallback}

// Classify maps a composition to its tier. Conditions are checked in
// precedence order and the first match wins. Community tracks count as
// manual quality in both languages, so community Korean with manual
// English is tier 1 and community English alone is tier 2.
func Classify(c Composition) Tier {
	switch {
	case c.Korean.ManualQuality() && c.English.ManualQuality():
		return ManualBoth
	case c.English.Present():
		return HasEnglish
	case c.Korean.ManualQuality():
		return ManualKo
	default:
		return Fallback
	}
}

// Description is the operator-facing label for a tier.
func (t Tier) Description() string {
	switch t {
	case ManualBoth:
		return "Manual KR + Manual EN (Best)"
	case HasEnglish:
		return "English → Translation (Good)"
	case ManualKo:
		return "Manual Korean only"
	case Fallback:
		return "Auto Korean only (Low quality)"
	}
	return fmt.Sprintf("Unknown tier %d", int(t))
}

// SourceTranslated marks Korean tracks produced by machine translation.
const SourceTranslated = "translated_from_english"

// Source builds the subtitle_source label, e.g. "manual_korean+auto_english".
// A composition with no tracks yields "none".
func Source(c Composition) string {
	switch {
	case c.Korean.Present() && c.English.Present():
		return string(c.Korean) + "_korean+" + string(c.English) + "_english"
	case c.Korean.Present():
		return string(c.Korean) + "_korean"
	case c.English.Present():
		return string(c.English) + "_english"
	}
	return "none"
}
