package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tbourn/go-decision-backend/internal/domain"
)

const parsePromptTemplate = `You are a comparison organizer. Extract structured comparison data from the following unstructured text.

User Input:
%s

Extract:
1. A short, descriptive title for this comparison (2-6 words)
2. All items/options being compared
3. Pros and cons for each item
4. Rate each point's importance (1-10, where 10 is most important)
5. Identify categories (price, quality, features, performance, etc.)

Return ONLY valid JSON in this exact format (no markdown, no code blocks, just pure JSON):
{
  "title": "Brief comparison title",
  "items": [
    {
      "name": "Item Name",
      "description": "Brief description if mentioned",
      "points": [
        {
          "text": "Specific pro or con",
          "type": "pro" | "con" | "neutral",
          "weight": 1-10,
          "category": "category name"
        }
      ]
    }
  ],
  "categories": ["list", "of", "categories"]
}

Rules:
- Be specific with point text
- Assign realistic weights based on context
- Use neutral for ambiguous points
- Create meaningful categories
- Ensure all JSON is valid and parseable`

// parsedPayload mirrors the JSON shape the extraction prompt requests.
type parsedPayload struct {
	Title string `json:"title"`
	Items []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Points      []struct {
			Text     string `json:"text"`
			Type     string `json:"type"`
			Weight   int    `json:"weight"`
			Category string `json:"category"`
		} `json:"points"`
	} `json:"items"`
	Categories []string `json:"categories"`
}

// ParseComparison turns free-form decision text into structured items,
// points, and categories. Entities get fresh UUIDs, point weights are clamped
// to [1,10], and unrecognized polarities are coerced to neutral. A failure
// here is recoverable and user-visible: the caller retries or edits manually.
func (c *Client) ParseComparison(ctx context.Context, text string) (*domain.ParsedInput, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(parsePromptTemplate, text))
	if err != nil {
		return nil, fmt.Errorf("parse comparison: %w", err)
	}

	var payload parsedPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return nil, fmt.Errorf("parse comparison: %w: %v", ErrMalformedResponse, err)
	}

	items := make([]domain.ComparisonItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		item := domain.ComparisonItem{
			ID:          uuid.NewString(),
			Name:        it.Name,
			Description: it.Description,
			Points:      make([]domain.ComparisonPoint, 0, len(it.Points)),
		}
		for _, p := range it.Points {
			item.Points = append(item.Points, domain.ComparisonPoint{
				ID:       uuid.NewString(),
				Text:     p.Text,
				Type:     coercePolarity(p.Type),
				Weight:   domain.ClampPointWeight(p.Weight),
				Category: p.Category,
			})
		}
		items = append(items, item)
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		title = "My Comparison"
	}

	return &domain.ParsedInput{
		Title:      title,
		Items:      items,
		Categories: payload.Categories,
	}, nil
}

// coercePolarity maps the model's point type onto a valid Polarity,
// defaulting ambiguous values to neutral.
func coercePolarity(s string) domain.Polarity {
	p := domain.Polarity(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return domain.PolarityNeutral
	}
	return p
}
