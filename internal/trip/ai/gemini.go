package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/asinan007/tripping/internal/trip/domain"
	"github.com/asinan007/tripping/pkg/slogx"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.0-flash"

	maxResponseBytes = 1 << 20
)

var ErrEmptyResponse = errors.New("ai: model returned no text")

// GeminiConfig configures the Gemini REST client.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// GeminiClient talks to the generateContent endpoint of the Gemini API.
type GeminiClient struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewGemini returns a client for cfg. APIKey is required.
func NewGemini(cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ai: gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	endpoint, err := url.JoinPath(cfg.BaseURL, "models", cfg.Model+":generateContent")
	if err != nil {
		return nil, fmt.Errorf("ai: build endpoint: %w", err)
	}

	return &GeminiClient{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		http:     cfg.HTTPClient,
	}, nil
}

func (c *GeminiClient) Name() string { return "gemini" }

func (c *GeminiClient) SuggestDestinations(ctx context.Context, preferences string) ([]domain.DestinationSuggestion, error) {
	text, err := c.generate(ctx, destinationsPrompt(preferences))
	if err != nil {
		return nil, err
	}
	items, ok := parseItems(text, MaxDestinations)
	if !ok {
		logUnparsable(ctx, "destinations", text)
		return fallbackDestinations(), nil
	}

	out := make([]domain.DestinationSuggestion, 0, len(items))
	for _, it := range items {
		d := domain.DestinationSuggestion{
			Name:        field(it, "name"),
			Country:     field(it, "country"),
			Description: field(it, "description"),
			BestTime:    field(it, "bestTime", "best_time"),
			BudgetRange: field(it, "budgetRange", "budget_range"),
		}
		for _, a := range first(it, "keyActivities", "key_activities").Array() {
			d.KeyActivities = append(d.KeyActivities, a.String())
		}
		if d.Name != "" {
			out = append(out, d)
		}
	}
	return out, nil
}

func (c *GeminiClient) SuggestActivities(ctx context.Context, destination string) ([]domain.ActivitySuggestion, error) {
	text, err := c.generate(ctx, activitiesPrompt(destination))
	if err != nil {
		return nil, err
	}
	items, ok := parseItems(text, MaxActivities)
	if !ok {
		logUnparsable(ctx, "activities", text)
		return fallbackActivities(), nil
	}

	out := make([]domain.ActivitySuggestion, 0, len(items))
	for _, it := range items {
		a := domain.ActivitySuggestion{
			Name:        field(it, "name"),
			Description: field(it, "description"),
			Category:    field(it, "category"),
			Duration:    field(it, "duration"),
			Cost:        field(it, "cost"),
			BestTime:    field(it, "bestTime", "best_time"),
			Location:    field(it, "location"),
		}
		if a.Name != "" {
			out = append(out, a)
		}
	}
	return out, nil
}

func (c *GeminiClient) SuggestPersonalized(ctx context.Context, tripContext string) ([]domain.PersonalizedSuggestion, error) {
	text, err := c.generate(ctx, personalizedPrompt(tripContext))
	if err != nil {
		return nil, err
	}
	items, ok := parseItems(text, MaxPersonalized)
	if !ok {
		logUnparsable(ctx, "personalized", text)
		return fallbackPersonalized(), nil
	}

	out := make([]domain.PersonalizedSuggestion, 0, len(items))
	for _, it := range items {
		p := domain.PersonalizedSuggestion{
			Title:       field(it, "title"),
			Description: field(it, "description"),
			Category:    field(it, "category"),
			Priority:    field(it, "priority"),
			Relevance:   field(it, "relevance"),
		}
		if p.Title != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// generate sends one prompt and returns the text of the first candidate.
func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("ai: read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := gjson.GetBytes(raw, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return "", fmt.Errorf("ai: status %d: %s", res.StatusCode, msg)
	}

	text := gjson.GetBytes(raw, "candidates.0.content.parts.0.text")
	if !text.Exists() || strings.TrimSpace(text.String()) == "" {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}

// parseItems accepts a JSON array or a single object, optionally wrapped in
// a markdown code fence, and returns at most limit objects.
func parseItems(text string, limit int) ([]gjson.Result, bool) {
	text = stripFence(text)
	if !gjson.Valid(text) {
		return nil, false
	}

	var items []gjson.Result
	switch res := gjson.Parse(text); {
	case res.IsArray():
		items = res.Array()
	case res.IsObject():
		items = []gjson.Result{res}
	default:
		return nil, false
	}

	objs := items[:0]
	for _, it := range items {
		if it.IsObject() {
			objs = append(objs, it)
		}
	}
	if len(objs) > limit {
		objs = objs[:limit]
	}
	return objs, true
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		// drop the language tag line, e.g. ```json
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// first returns the value of the first key present in obj. Models mix
// camelCase and snake_case keys.
func first(obj gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := obj.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func field(obj gjson.Result, keys ...string) string {
	return strings.TrimSpace(first(obj, keys...).String())
}

func logUnparsable(ctx context.Context, kind, text string) {
	if len(text) > 512 {
		text = text[:512]
	}
	slogx.FromContext(ctx).Warn("unparsable suggestion response, using fallback",
		slog.String("kind", kind),
		slog.String("raw", text),
	)
}
