package model

import "time"

// AnalysisDocument is the structured linguistic analysis of an expression.
type AnalysisDocument struct {
	Definition         Definition          `json:"definition"`
	Nuance             Nuance              `json:"nuance"`
	Situation          Situation           `json:"situation"`
	PolitenessLevel    PolitenessLevel     `json:"politenessLevel"`
	CulturalNote       CulturalNote        `json:"culturalNote"`
	ExampleSentences   []ExampleSentence   `json:"exampleSentences"`
	GrammarPoints      []GrammarPoint      `json:"grammarPoints"`
	RelatedExpressions []RelatedExpression `json:"relatedExpressions"`

	// Fallback is set on the placeholder returned when the analyzer failed.
	Fallback bool `json:"fallback,omitempty"`
}

type Definition struct {
	Korean       string `json:"korean"`
	English      string `json:"english"`
	PartOfSpeech string `json:"partOfSpeech"`
}

type Nuance struct {
	Explanation    string `json:"explanation"`
	EmotionalTone  string `json:"emotionalTone"`
	UsageFrequency string `json:"usageFrequency"`
}

type Situation struct {
	WhenToUse       string `json:"whenToUse"`
	WhenNotToUse    string `json:"whenNotToUse"`
	TypicalSpeakers string `json:"typicalSpeakers"`
}

type PolitenessLevel struct {
	Level        string                `json:"level"`
	Explanation  string                `json:"explanation"`
	Alternatives []PolitenessAlternate `json:"alternatives"`
}

type PolitenessAlternate struct {
	Level      string `json:"level"`
	Expression string `json:"expression"`
}

type CulturalNote struct {
	Note             string `json:"note"`
	RelatedPhenomena string `json:"relatedPhenomena,omitempty"`
}

type ExampleSentence struct {
	Korean  string `json:"korean"`
	English string `json:"english"`
	Context string `json:"context"`
}

type GrammarPoint struct {
	Pattern     string `json:"pattern"`
	Explanation string `json:"explanation"`
}

type RelatedExpression struct {
	Expression string `json:"expression"`
	Difference string `json:"difference"`
}

// FallbackAnalysis is returned in place of a real analysis when the
// analyzer is unavailable. It is never cached.
func FallbackAnalysis(expression string) *AnalysisDocument {
	return &AnalysisDocument{
		Definition: Definition{
			Korean:       expression,
			English:      "Analysis unavailable",
			PartOfSpeech: "unknown",
		},
		Nuance: Nuance{
			Explanation:    "Unable to analyze this expression at the moment.",
			EmotionalTone:  "neutral",
			UsageFrequency: "common",
		},
		Situation: Situation{
			WhenToUse:       "Context-dependent",
			WhenNotToUse:    "Formal situations may require different phrasing",
			TypicalSpeakers: "Various",
		},
		PolitenessLevel: PolitenessLevel{
			Level:        "casual",
			Explanation:  "Unable to determine politeness level",
			Alternatives: []PolitenessAlternate{},
		},
		CulturalNote: CulturalNote{
			Note: "Please try again later for cultural context.",
		},
		ExampleSentences:   []ExampleSentence{},
		GrammarPoints:      []GrammarPoint{},
		RelatedExpressions: []RelatedExpression{},
		Fallback:           true,
	}
}

// AnalysisEntry is a cached analysis keyed by segment and context fingerprint.
type AnalysisEntry struct {
	ID           int64     `json:"id"`
	SegmentID    int64     `json:"subtitleId"`
	ContextHash  string    `json:"contextHash"`
	AnalysisJSON []byte    `json:"-"`
	ModelUsed    string    `json:"modelUsed"`
	TokenCount   int       `json:"tokenCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AnalysisRequest is what the analyzer receives for one expression.
type AnalysisRequest struct {
	Expression string
	Sentence   string
	Context    []string
	VideoTitle string
	Category   string
	Speaker    string
}

// AnalysisResult is an analyzer response with its cost accounting.
type AnalysisResult struct {
	Document   *AnalysisDocument
	Model      string
	TokenCount int
}

// AnalyzeResponse is the API response for an analysis request.
type AnalyzeResponse struct {
	Analysis *AnalysisDocument `json:"analysis"`
	Cached   bool              `json:"cached"`
}
