package score

import (
	"github.com/tbourn/go-decision-backend/internal/domain"
)

// Override multipliers for flagged points. A dealbreaker con is meant to
// dominate the score and drag the item to the bottom even when it is the only
// such point; a must-have pro counts double.
const (
	dealBreakerMultiplier = 10
	mustHaveMultiplier    = 2
)

// ScoreItem aggregates a single item's points into one total score and a
// per-category breakdown. The Rank field is left 0 and filled by RankItems.
//
// For each point, the category importance is resolved by case-insensitive
// lookup in the preferences (missing entries default to the neutral midpoint
// 5), gated through FinalWeight, signed by polarity, and boosted by the
// override multipliers. The raw total is then normalized so a perfectly
// neutral item sits at 50 and the theoretical extremes map to 0/100:
//
//	normalized = (total / (pointCount*10)) * 50 + 50
//
// Override multipliers can push the raw total past the theoretical maximum;
// that excess is clamped away rather than re-scaling the denominator, so a
// single dealbreaker con can pin the score at 0 regardless of other pros.
// An item with zero points is exactly neutral (50) with an empty breakdown.
func ScoreItem(item domain.ComparisonItem, prefs *domain.UserPreferences) domain.ItemScore {
	var total float64
	breakdown := make([]domain.CategoryContribution, 0, 4)
	index := make(map[string]int) // category (verbatim) -> breakdown slot

	for _, p := range item.Points {
		importance, ok := prefs.ImportanceFor(p.Category)
		if !ok {
			importance = domain.DefaultImportance
		}

		contribution := FinalWeight(p.Weight, importance) * polaritySign(p.Type)

		if p.IsDealBreaker && p.Type == domain.PolarityCon {
			contribution *= dealBreakerMultiplier
		}
		if p.IsMustHave && p.Type == domain.PolarityPro {
			contribution *= mustHaveMultiplier
		}

		total += contribution

		slot, seen := index[p.Category]
		if !seen {
			slot = len(breakdown)
			index[p.Category] = slot
			breakdown = append(breakdown, domain.CategoryContribution{Category: p.Category})
		}
		breakdown[slot].Contribution += contribution
		breakdown[slot].Points = append(breakdown[slot].Points, p)
	}

	normalized := 50.0
	if max := float64(len(item.Points)) * 10; max > 0 {
		normalized = (total/max)*50 + 50
	}

	return domain.ItemScore{
		ItemID:            item.ID,
		TotalScore:        clamp01e2(normalized),
		CategoryBreakdown: breakdown,
	}
}

func polaritySign(p domain.Polarity) float64 {
	switch p {
	case domain.PolarityPro:
		return 1
	case domain.PolarityCon:
		return -1
	default:
		return 0
	}
}

// clamp01e2 bounds a score to the displayed [0,100] scale.
func clamp01e2(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
