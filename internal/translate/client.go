package translate

import (
	"context"
	"errors"
	"fmt"

	gtranslate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// Client translates a batch of texts, preserving order.
type Client interface {
	Translate(ctx context.Context, texts []string, source, target language.Tag) ([]string, error)
	Close() error
}

// GoogleClient calls Cloud Translation v2.
type GoogleClient struct {
	c *gtranslate.Client
}

// NewGoogleClient authenticates with an API key.
func NewGoogleClient(ctx context.Context, apiKey string) (*GoogleClient, error) {
	if apiKey == "" {
		return nil, errors.New("translate: api key is required")
	}
	c, err := gtranslate.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create translate client: %w", err)
	}
	return &GoogleClient{c: c}, nil
}

func (g *GoogleClient) Translate(ctx context.Context, texts []string, source, target language.Tag) ([]string, error) {
	resp, err := g.c.Translate(ctx, texts, target, &gtranslate.Options{
		Source: source,
		Format: gtranslate.Text,
	})
	if err != nil {
		return nil, err
	}
	if len(resp) != len(texts) {
		return nil, fmt.Errorf("translate: got %d translations for %d texts", len(resp), len(texts))
	}
	out := make([]string, len(resp))
	for i, t := range resp {
		out[i] = t.Text
	}
	return out, nil
}

func (g *GoogleClient) Close() error { return g.c.Close() }
