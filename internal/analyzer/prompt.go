package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chabro2633/diary-korean/internal/model"
)

const analysisPrompt = `You are an expert Korean language tutor specializing in teaching Korean through authentic media content. Analyze the following Korean expression in context.

## Input
Target Expression: {expression}
Full Sentence: {sentence}

## Context (surrounding dialogue)
{context}

## Video Information
- Title: {videoTitle}
- Category: {category}
- Speaker: {speaker}

## Required Output Format (JSON only, no markdown)
Return ONLY valid JSON with this structure:
{
  "definition": {
    "korean": "Korean definition/explanation",
    "english": "English translation",
    "partOfSpeech": "noun/verb/adjective/adverb/interjection/phrase"
  },
  "nuance": {
    "explanation": "Detailed nuance explanation in English",
    "emotionalTone": "happy/sad/frustrated/surprised/neutral/etc.",
    "usageFrequency": "very common/common/occasional/rare"
  },
  "situation": {
    "whenToUse": "Description of appropriate situations",
    "whenNotToUse": "Situations to avoid this expression",
    "typicalSpeakers": "Who typically uses this"
  },
  "politenessLevel": {
    "level": "formal/polite/casual/informal/intimate",
    "explanation": "Why this level applies",
    "alternatives": [
      {"level": "polite", "expression": "alternative expression"}
    ]
  },
  "culturalNote": {
    "note": "Cultural context or K-drama/K-pop specific usage",
    "relatedPhenomena": "Related cultural phenomena"
  },
  "exampleSentences": [
    {"korean": "Example sentence", "english": "Translation", "context": "Brief context"}
  ],
  "grammarPoints": [
    {"pattern": "Grammar pattern if applicable", "explanation": "How it works"}
  ],
  "relatedExpressions": [
    {"expression": "Similar expression", "difference": "How it differs"}
  ]
}

## Important Rules
1. ONLY output valid JSON. No markdown code blocks, no additional text.
2. Base analysis on the actual video context provided.
3. If uncertain, acknowledge limitations rather than guessing.
4. Keep explanations concise but informative.
5. Include romanization for complex words in the definition.`

// BuildPrompt fills the analysis template for one request.
func BuildPrompt(req model.AnalysisRequest) string {
	unknown := func(s string) string {
		if s == "" {
			return "Unknown"
		}
		return s
	}
	r := strings.NewReplacer(
		"{expression}", req.Expression,
		"{sentence}", req.Sentence,
		"{context}", strings.Join(req.Context, "\n"),
		"{videoTitle}", unknown(req.VideoTitle),
		"{category}", unknown(req.Category),
		"{speaker}", unknown(req.Speaker),
	)
	return r.Replace(analysisPrompt)
}

// ParseDocument decodes a model response, tolerating a surrounding
// markdown code fence. Missing list fields decode as empty lists.
func ParseDocument(text string) (*model.AnalysisDocument, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrPermanent)
	}

	var doc model.AnalysisDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: decode analysis: %v", ErrPermanent, err)
	}
	if doc.Definition.Korean == "" && doc.Definition.English == "" {
		return nil, fmt.Errorf("%w: analysis has no definition", ErrPermanent)
	}

	if doc.PolitenessLevel.Alternatives == nil {
		doc.PolitenessLevel.Alternatives = []model.PolitenessAlternate{}
	}
	if doc.ExampleSentences == nil {
		doc.ExampleSentences = []model.ExampleSentence{}
	}
	if doc.GrammarPoints == nil {
		doc.GrammarPoints = []model.GrammarPoint{}
	}
	if doc.RelatedExpressions == nil {
		doc.RelatedExpressions = []model.RelatedExpression{}
	}
	doc.Fallback = false
	return &doc, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
