// Package analyzer produces linguistic analyses of Korean expressions with
// a generative language model.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/chabro2633/diary-korean/internal/model"
)

// Analyzer turns an expression and its dialogue context into an analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error)
}

// ErrMissingAPIKey is returned by NewGemini when no key is configured.
var ErrMissingAPIKey = errors.New("analyzer: missing Gemini API key")

// Config holds model settings for the Gemini analyzer.
type Config struct {
	APIKey          string
	Model           string
	MaxOutputTokens int32
	Temperature     float32
	RequestsPerMin  int
	Timeout         time.Duration
	Retry           RetryConfig
}

// DefaultConfig mirrors the settings the analysis prompt was tuned with.
func DefaultConfig() Config {
	return Config{
		Model:           "gemini-1.5-flash",
		MaxOutputTokens: 2000,
		Temperature:     0.7,
		RequestsPerMin:  30,
		Timeout:         30 * time.Second,
		Retry:           DefaultRetryConfig,
	}
}

// Gemini is an Analyzer backed by the Gemini API. Outbound calls are paced
// by a token-bucket limiter shared by every request.
type Gemini struct {
	client  *genai.Client
	cfg     Config
	limiter *rate.Limiter
}

// NewGemini creates the API client.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	defaults := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if cfg.RequestsPerMin <= 0 {
		cfg.RequestsPerMin = defaults.RequestsPerMin
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	every := time.Minute / time.Duration(cfg.RequestsPerMin)
	return &Gemini{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.cfg.Model }

// Analyze waits for a rate-limit slot, then calls the model with retries.
func (g *Gemini) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	prompt := BuildPrompt(req)
	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		MaxOutputTokens:  g.cfg.MaxOutputTokens,
		Temperature:      genai.Ptr(g.cfg.Temperature),
	}

	return RetryDo(ctx, g.cfg.Retry, func() (*model.AnalysisResult, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()

		resp, err := g.client.Models.GenerateContent(callCtx, g.cfg.Model, genai.Text(prompt), genCfg)
		if err != nil {
			return nil, fmt.Errorf("generate content: %w", err)
		}

		doc, err := ParseDocument(resp.Text())
		if err != nil {
			return nil, err
		}

		var tokens int
		if resp.UsageMetadata != nil {
			tokens = int(resp.UsageMetadata.TotalTokenCount)
		}
		return &model.AnalysisResult{Document: doc, Model: g.cfg.Model, TokenCount: tokens}, nil
	})
}
