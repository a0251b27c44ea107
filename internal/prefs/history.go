package prefs

import (
	"math"
	"strings"

	"github.com/tbourn/go-decision-backend/internal/domain"
)

// MinHistoryForPersonalization is the number of saved comparisons a user
// needs before personalized seeding kicks in; below it, new comparisons get
// the neutral defaults.
const MinHistoryForPersonalization = 2

// ExtractPatterns collects every category importance the user has set across
// their saved comparisons, keyed by lower-cased category name. Comparisons
// without an active preference set contribute nothing.
func ExtractPatterns(history []*domain.Comparison) map[string][]int {
	patterns := make(map[string][]int)
	for _, c := range history {
		if c == nil || c.UserPreferences == nil {
			continue
		}
		for _, cw := range c.UserPreferences.CategoryWeights {
			key := strings.ToLower(cw.Category)
			patterns[key] = append(patterns[key], cw.Importance)
		}
	}
	return patterns
}

// AveragePreferences reduces the per-category importance samples to rounded
// arithmetic means, producing the historical input for preference mapping.
func AveragePreferences(history []*domain.Comparison) map[string]int {
	averages := make(map[string]int)
	for category, samples := range ExtractPatterns(history) {
		var sum int
		for _, v := range samples {
			sum += v
		}
		averages[category] = int(math.Round(float64(sum) / float64(len(samples))))
	}
	return averages
}

// HasEnoughHistory reports whether n saved comparisons justify personalized
// recommendations.
func HasEnoughHistory(n int) bool {
	return n >= MinHistoryForPersonalization
}
