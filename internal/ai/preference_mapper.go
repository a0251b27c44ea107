package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

const mapPreferencesPromptTemplate = `You are a preference analysis assistant. You will analyze a user's historical category preferences and intelligently map them to new categories in a comparison.

Historical Category Preferences (category: importance out of 10):
%s

New Categories to Map:
%s

Your task:
1. For each new category, determine what importance level (1-10) the user would likely assign based on their historical preferences
2. Look for semantic relationships between historical and new categories
3. Consider synonyms, related concepts, and broader/narrower terms

Examples of relationships:
- "price" relates to "cost", "value", "affordability", "budget"
- "battery life" relates to "power efficiency", "battery", "runtime", "endurance"
- "performance" relates to "speed", "processing power", "capability", "efficiency"
- "quality" relates to "build quality", "durability", "craftsmanship", "reliability"

Instructions:
- If a new category is semantically similar to a historical category, use that historical importance
- If multiple historical categories relate to a new category, use the average
- If no clear relationship exists, use 5 (neutral importance)

Return ONLY a valid JSON object (no markdown, no code blocks) mapping each new category to an importance value:
{
  "category1": 7,
  "category2": 5
}

Make sure all new categories are included in the response with importance values between 1-10.`

// MapPreferences asks the model to project historical category importances
// onto a new category set using semantic relationships plain string matching
// cannot see. The raw mapping is returned as-is; the caller (prefs.Mapper)
// clamps values, fills omissions, and owns the heuristic fallback, so an
// error from here never reaches the end user.
func (c *Client) MapPreferences(ctx context.Context, historical map[string]int, categories []string) (map[string]int, error) {
	hist, err := json.MarshalIndent(historical, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("map preferences: %w", err)
	}
	cats, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("map preferences: %w", err)
	}

	raw, err := c.generate(ctx, fmt.Sprintf(mapPreferencesPromptTemplate, hist, cats))
	if err != nil {
		return nil, fmt.Errorf("map preferences: %w", err)
	}

	var mapped map[string]int
	if err := json.Unmarshal([]byte(stripFences(raw)), &mapped); err != nil {
		return nil, fmt.Errorf("map preferences: %w: %v", ErrMalformedResponse, err)
	}
	return mapped, nil
}
