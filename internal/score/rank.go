package score

import (
	"sort"

	"github.com/tbourn/go-decision-backend/internal/domain"
)

// RankItems scores every item independently and returns the results ordered
// by descending total score with competition ranks assigned: tied items share
// a rank, and the next distinct lower score resumes at its 1-based position
// in the sorted sequence, not at previousRank+1. Scores [90, 90, 80, 70]
// therefore rank [1, 1, 3, 4].
//
// The sort is stable, so equal-scoring items keep their input order and the
// whole operation is idempotent for identical inputs.
func RankItems(items []domain.ComparisonItem, prefs *domain.UserPreferences) []domain.ItemScore {
	scores := make([]domain.ItemScore, len(items))
	for i, item := range items {
		scores[i] = ScoreItem(item, prefs)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TotalScore > scores[j].TotalScore
	})

	rank := 1
	for i := range scores {
		if i > 0 && scores[i].TotalScore < scores[i-1].TotalScore {
			rank = i + 1
		}
		scores[i].Rank = rank
	}
	return scores
}
