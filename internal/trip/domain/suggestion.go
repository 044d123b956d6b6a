package domain

import "time"

type DestinationSuggestion struct {
	Name          string   `json:"name"`
	Country       string   `json:"country"`
	Description   string   `json:"description"`
	BestTime      string   `json:"best_time"`
	KeyActivities []string `json:"key_activities"`
	BudgetRange   string   `json:"budget_range"`
}

type ActivitySuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Duration    string `json:"duration"`
	Cost        string `json:"cost"`
	BestTime    string `json:"best_time"`
	Location    string `json:"location"`
}

type PersonalizedSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Relevance   string `json:"relevance"`
}

// SuggestionBundle is the AI output cached on a trip. Refreshes overwrite it.
type SuggestionBundle struct {
	Activities   []ActivitySuggestion     `json:"activities"`
	Personalized []PersonalizedSuggestion `json:"personalized,omitempty"`
	GeneratedAt  time.Time                `json:"generated_at"`
}

// Empty reports whether the bundle carries nothing worth caching.
func (b *SuggestionBundle) Empty() bool {
	return b == nil || (len(b.Activities) == 0 && len(b.Personalized) == 0)
}
