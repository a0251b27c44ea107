package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/go-decision-backend/internal/domain"
)

const refinePromptTemplate = `You are a comparison refinement assistant. You will receive a comparison object and instructions on how to modify it.

Current Comparison:
%s

User Instructions:
%s

Based on the instructions, modify the comparison data accordingly. You can:
- Add, remove, or modify comparison points
- Change weights/ratings of points
- Add new categories
- Rewrite point descriptions
- Add new items or remove items
- Change point types (pro/con/neutral)
- Update item descriptions

Return ONLY the complete updated comparison object as valid JSON (no markdown, no code blocks, just pure JSON) with the same structure as the input: id, title, items (each with id, name, description, points carrying id, text, type, weight, category), categories, and userPreferences.

Important:
- Preserve existing IDs where items/points are not removed
- Leave the id field empty for new items/points
- Ensure all weights are between 1-10
- Update the categories list if you add new categories
- Keep the userPreferences object intact unless instructions specifically mention changing preferences`

// RefineComparison applies free-text instructions to a comparison and returns
// a full replacement aggregate. The model's output is sanitized: missing IDs
// are minted, weights clamped, polarities coerced, the original identity and
// creation time are preserved, and UpdatedAt is refreshed. Prior preferences
// survive when the model drops them; reconciling weight entries for new
// categories is the service layer's job.
func (c *Client) RefineComparison(ctx context.Context, cmp *domain.Comparison, instructions string) (*domain.Comparison, error) {
	current, err := json.MarshalIndent(cmp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("refine comparison: %w", err)
	}

	raw, err := c.generate(ctx, fmt.Sprintf(refinePromptTemplate, current, instructions))
	if err != nil {
		return nil, fmt.Errorf("refine comparison: %w", err)
	}

	var updated domain.Comparison
	if err := json.Unmarshal([]byte(stripFences(raw)), &updated); err != nil {
		return nil, fmt.Errorf("refine comparison: %w: %v", ErrMalformedResponse, err)
	}

	// Identity and lineage are not the model's to change.
	updated.ID = cmp.ID
	updated.CreatedAt = cmp.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if updated.UserPreferences == nil {
		updated.UserPreferences = cmp.UserPreferences
	}

	for i := range updated.Items {
		if updated.Items[i].ID == "" {
			updated.Items[i].ID = uuid.NewString()
		}
		for j := range updated.Items[i].Points {
			p := &updated.Items[i].Points[j]
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			p.Weight = domain.ClampPointWeight(p.Weight)
			p.Type = coercePolarity(string(p.Type))
		}
	}

	return &updated, nil
}
