package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeGemini answers every generateContent call with text as the model
// output.
func fakeGemini(t *testing.T, status int, text string) (*GeminiClient, *[]string) {
	t.Helper()

	var prompts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		prompts = append(prompts, body.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			fmt.Fprintf(w, `{"error":{"code":%d,"message":%q}}`, status, text)
			return
		}
		resp := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	c, err := NewGemini(GeminiConfig{
		APIKey:     "test-key",
		Model:      "test-model",
		BaseURL:    srv.URL + "/v1beta",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return c, &prompts
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(GeminiConfig{})
	require.Error(t, err)
}

func TestSuggestDestinationsParsesArray(t *testing.T) {
	c, prompts := fakeGemini(t, http.StatusOK, `[
		{"name":"Kyoto","country":"Japan","description":"Temples.","bestTime":"Spring","keyActivities":["Gion walk","Fushimi Inari"],"budgetRange":"$1000-2000"},
		{"name":"Lisbon","country":"Portugal","description":"Hills.","best_time":"Autumn","key_activities":["Tram 28"],"budget_range":"$800-1500"}
	]`)

	got, err := c.SuggestDestinations(context.Background(), "temples and food")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Kyoto", got[0].Name)
	require.Equal(t, "Spring", got[0].BestTime)
	require.Equal(t, []string{"Gion walk", "Fushimi Inari"}, got[0].KeyActivities)
	require.Equal(t, "Autumn", got[1].BestTime)
	require.Equal(t, "$800-1500", got[1].BudgetRange)

	require.Len(t, *prompts, 1)
	require.Contains(t, (*prompts)[0], "temples and food")
}

func TestSuggestActivitiesStripsFenceAndWrapsObject(t *testing.T) {
	c, _ := fakeGemini(t, http.StatusOK, "```json\n{\"name\":\"Temple Visit\",\"category\":\"cultural\",\"duration\":\"2 hours\",\"cost\":\"Free\"}\n```")

	got, err := c.SuggestActivities(context.Background(), "Tokyo, Japan")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Temple Visit", got[0].Name)
	require.Equal(t, "Free", got[0].Cost)
}

func TestSuggestActivitiesCapsResults(t *testing.T) {
	var items []string
	for i := range 12 {
		items = append(items, fmt.Sprintf(`{"name":"Activity %d"}`, i))
	}
	c, _ := fakeGemini(t, http.StatusOK, "["+strings.Join(items, ",")+"]")

	got, err := c.SuggestActivities(context.Background(), "Rome")
	require.NoError(t, err)
	require.Len(t, got, MaxActivities)
	require.Equal(t, "Activity 0", got[0].Name)
}

func TestMalformedReplyFallsBack(t *testing.T) {
	c, _ := fakeGemini(t, http.StatusOK, "Sure! Here are some ideas: Tokyo, Paris.")
	ctx := context.Background()

	dest, err := c.SuggestDestinations(ctx, "anything")
	require.NoError(t, err)
	require.Equal(t, fallbackDestinations(), dest)

	acts, err := c.SuggestActivities(ctx, "anywhere")
	require.NoError(t, err)
	require.Equal(t, fallbackActivities(), acts)

	tips, err := c.SuggestPersonalized(ctx, "a trip")
	require.NoError(t, err)
	require.Equal(t, fallbackPersonalized(), tips)
}

func TestUpstreamErrorPropagates(t *testing.T) {
	c, _ := fakeGemini(t, http.StatusTooManyRequests, "quota exceeded")

	_, err := c.SuggestPersonalized(context.Background(), "a trip")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
	require.Contains(t, err.Error(), "quota exceeded")
}

func TestEmptyCandidateIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewGemini(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.SuggestActivities(context.Background(), "Oslo")
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestDisabledReturnsNothing(t *testing.T) {
	var p Provider = Disabled{}
	ctx := context.Background()

	d, err := p.SuggestDestinations(ctx, "x")
	require.NoError(t, err)
	require.Empty(t, d)

	a, err := p.SuggestActivities(ctx, "x")
	require.NoError(t, err)
	require.Empty(t, a)

	require.Equal(t, "disabled", p.Name())
}

func TestStripFence(t *testing.T) {
	require.Equal(t, `[1]`, stripFence("```json\n[1]\n```"))
	require.Equal(t, `[1]`, stripFence("```\n[1]```"))
	require.Equal(t, `{"a":1}`, stripFence(`  {"a":1} `))
}
