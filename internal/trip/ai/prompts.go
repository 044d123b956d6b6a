package ai

import "fmt"

func destinationsPrompt(preferences string) string {
	return fmt.Sprintf(`Based on these travel preferences: %s

Suggest %d travel destinations. For each destination, provide exactly this JSON structure:
{
    "name": "City Name",
    "country": "Country Name",
    "description": "Brief 2-3 sentence description",
    "bestTime": "Best time to visit",
    "keyActivities": ["activity1", "activity2", "activity3"],
    "budgetRange": "Budget range (e.g., $1000-2000 per person)"
}

Return ONLY a valid JSON array with exactly %d destinations. Do not include any other text or markdown formatting.`,
		preferences, MaxDestinations, MaxDestinations)
}

func activitiesPrompt(destination string) string {
	return fmt.Sprintf(`For the destination: %s

Suggest %d activities/attractions. For each activity, provide exactly this JSON structure:
{
    "name": "Activity Name",
    "description": "Brief description of the activity",
    "category": "adventure|cultural|food|shopping|nature|entertainment|historical",
    "duration": "Duration (e.g., 2-3 hours, Half day, Full day)",
    "cost": "Cost range (e.g., $20-50, Free, $100+)",
    "bestTime": "Best time to do this activity",
    "location": "Neighbourhood or address"
}

Return ONLY a valid JSON array with exactly %d activities. Do not include any other text or markdown formatting.`,
		destination, MaxActivities, MaxActivities)
}

func personalizedPrompt(tripContext string) string {
	return fmt.Sprintf(`You are helping a group plan this trip:
%s

Give %d practical, trip-specific recommendations. For each one, provide exactly this JSON structure:
{
    "title": "Short title",
    "description": "One or two sentences",
    "category": "planning|food|transport|culture|safety|budget",
    "priority": "high|medium|low",
    "relevance": "Why it matters for this trip"
}

Return ONLY a valid JSON array. Do not include any other text or markdown formatting.`,
		tripContext, MaxPersonalized)
}
