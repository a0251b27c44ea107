// Package prefs implements preference personalization: projecting a user's
// historical category→importance data onto a new comparison's category set.
//
// The heuristic path (MapPreferences) is a total, deterministic, side-effect
// free function and ships as the guaranteed fallback. The networked path
// (Mapper) delegates the same problem to a text-generation collaborator and
// transparently falls back to the heuristic on any failure; personalization
// must never surface a hard error to the user.
package prefs

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-decision-backend/internal/domain"
)

// MapPreferences produces an importance value for every entry in categories,
// using the historical data in three stages:
//
//  1. Exact match of the lower-cased category against lower-cased history keys.
//  2. Otherwise, every historical entry whose lower-cased key contains the new
//     category or is contained by it (bidirectional substring) qualifies; the
//     result is the rounded arithmetic mean of the matched values.
//  3. Otherwise, the neutral default 5.
//
// The substring test is deliberately unguarded: a very short category name can
// match broadly, and that behavior is preserved as documented.
func MapPreferences(historical map[string]int, categories []string) map[string]int {
	lowered := make(map[string]int, len(historical))
	for k, v := range historical {
		lowered[strings.ToLower(k)] = v
	}

	mapped := make(map[string]int, len(categories))
	for _, cat := range categories {
		catLower := strings.ToLower(cat)

		if v, ok := lowered[catLower]; ok {
			mapped[cat] = v
			continue
		}

		var sum, n int
		for histCat, importance := range lowered {
			if strings.Contains(catLower, histCat) || strings.Contains(histCat, catLower) {
				sum += importance
				n++
			}
		}
		if n > 0 {
			mapped[cat] = int(math.Round(float64(sum) / float64(n)))
		} else {
			mapped[cat] = domain.DefaultImportance
		}
	}
	return mapped
}

// RemoteMapper is the networked preference-mapping collaborator: it infers
// semantic relationships (e.g. "price" ~ "cost" ~ "value") that plain string
// matching cannot. Implementations issue one bounded external request.
type RemoteMapper interface {
	MapPreferences(ctx context.Context, historical map[string]int, categories []string) (map[string]int, error)
}

// Mapper resolves importances for new categories, preferring the remote
// collaborator and falling back to the heuristic. The fallback boundary is a
// hard contract, not an optimization.
type Mapper struct {
	// Remote is optional; a nil Remote always uses the heuristic.
	Remote RemoteMapper
}

// Map returns an importance for every entry in categories. It never fails:
// remote errors, omissions, and out-of-range values are absorbed here.
// Remote values are clamped to [1,10]; categories the remote response omits
// get the neutral default.
func (m *Mapper) Map(ctx context.Context, historical map[string]int, categories []string) map[string]int {
	if m == nil || m.Remote == nil {
		return MapPreferences(historical, categories)
	}

	remote, err := m.Remote.MapPreferences(ctx, historical, categories)
	if err != nil {
		log.Debug().Err(err).Msg("remote preference mapping failed; using heuristic")
		return MapPreferences(historical, categories)
	}

	mapped := make(map[string]int, len(categories))
	for _, cat := range categories {
		if v, ok := remote[cat]; ok {
			mapped[cat] = domain.ClampMappedImportance(v)
		} else {
			mapped[cat] = domain.DefaultImportance
		}
	}
	return mapped
}

// BuildCategoryWeights turns a mapped importance set into the CategoryWeight
// entries that seed a new comparison's preferences. Every category is visible;
// anything missing from mapped gets the neutral default.
func BuildCategoryWeights(categories []string, mapped map[string]int) []domain.CategoryWeight {
	out := make([]domain.CategoryWeight, 0, len(categories))
	for _, cat := range categories {
		importance, ok := mapped[cat]
		if !ok {
			importance = domain.DefaultImportance
		}
		out = append(out, domain.CategoryWeight{
			Category:   cat,
			Importance: domain.ClampImportance(importance),
			Visible:    true,
		})
	}
	return out
}
