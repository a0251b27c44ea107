package score

import (
	"math"
	"reflect"
	"testing"

	"github.com/tbourn/go-decision-backend/internal/domain"
)

func prefsWith(weights ...domain.CategoryWeight) *domain.UserPreferences {
	return &domain.UserPreferences{ID: "p", Name: "test", CategoryWeights: weights}
}

func proPoint(id string, weight int, category string) domain.ComparisonPoint {
	return domain.ComparisonPoint{ID: id, Text: id, Type: domain.PolarityPro, Weight: weight, Category: category}
}

func TestFinalWeight_Bounds(t *testing.T) {
	for w := 1; w <= 10; w++ {
		for imp := 0; imp <= 10; imp++ {
			got := FinalWeight(w, imp)
			if got < 0 || got > 10 {
				t.Fatalf("FinalWeight(%d,%d) = %v out of [0,10]", w, imp, got)
			}
		}
	}
}

func TestFinalWeight_GateSemantics(t *testing.T) {
	for w := 1; w <= 10; w++ {
		if got := FinalWeight(w, 0); got != 0 {
			t.Errorf("FinalWeight(%d,0) = %v; importance 0 must zero the point", w, got)
		}
		if got := FinalWeight(w, 10); got != float64(w) {
			t.Errorf("FinalWeight(%d,10) = %v; importance 10 must pass weight through", w, got)
		}
	}
	// Linear in between.
	if got := FinalWeight(8, 5); got != 4 {
		t.Errorf("FinalWeight(8,5) = %v; want 4", got)
	}
}

func TestScoreItem_ZeroPointsIsNeutral(t *testing.T) {
	s := ScoreItem(domain.ComparisonItem{ID: "empty"}, prefsWith())
	if s.TotalScore != 50 {
		t.Fatalf("zero-point item score = %v; want 50", s.TotalScore)
	}
	if len(s.CategoryBreakdown) != 0 {
		t.Fatalf("zero-point item breakdown should be empty, got %d", len(s.CategoryBreakdown))
	}
	if s.Rank != 0 {
		t.Fatalf("ScoreItem must leave rank placeholder 0, got %d", s.Rank)
	}
}

func TestScoreItem_DefaultImportanceIsFive(t *testing.T) {
	item := domain.ComparisonItem{ID: "i", Points: []domain.ComparisonPoint{
		proPoint("p1", 10, "unknown-category"),
	}}
	// No entry for the category: importance defaults to 5 -> final weight 5,
	// total 5 of max 10 -> 75.
	s := ScoreItem(item, prefsWith())
	if s.TotalScore != 75 {
		t.Fatalf("score = %v; want 75", s.TotalScore)
	}
}

func TestScoreItem_CategoryLookupIsCaseInsensitive(t *testing.T) {
	item := domain.ComparisonItem{ID: "i", Points: []domain.ComparisonPoint{
		proPoint("p1", 10, "Price"),
	}}
	s := ScoreItem(item, prefsWith(domain.CategoryWeight{Category: "price", Importance: 10, Visible: true}))
	if s.TotalScore != 100 {
		t.Fatalf("score = %v; want 100 (importance 10 via case-insensitive match)", s.TotalScore)
	}
}

func TestScoreItem_NeutralContributesNothing(t *testing.T) {
	item := domain.ComparisonItem{ID: "i", Points: []domain.ComparisonPoint{
		{ID: "n", Type: domain.PolarityNeutral, Weight: 10, Category: "misc"},
	}}
	s := ScoreItem(item, prefsWith(domain.CategoryWeight{Category: "misc", Importance: 10, Visible: true}))
	if s.TotalScore != 50 {
		t.Fatalf("neutral-only item score = %v; want 50", s.TotalScore)
	}
}

func TestScoreItem_DealBreakerDominates(t *testing.T) {
	// One dealbreaker con among otherwise all-pro maximum-weight points must
	// clamp the score at 0: contribution -100 vs +30, total -70 over max 40.
	item := domain.ComparisonItem{ID: "i", Points: []domain.ComparisonPoint{
		proPoint("p1", 10, "quality"),
		proPoint("p2", 10, "quality"),
		proPoint("p3", 10, "quality"),
		{ID: "db", Type: domain.PolarityCon, Weight: 10, Category: "quality", IsDealBreaker: true},
	}}
	s := ScoreItem(item, prefsWith(domain.CategoryWeight{Category: "quality", Importance: 10, Visible: true}))
	if s.TotalScore != 0 {
		t.Fatalf("dealbreaker item score = %v; want 0 (clamped)", s.TotalScore)
	}
}

func TestScoreItem_DealBreakerIgnoredOnPro(t *testing.T) {
	item := domain.ComparisonItem{ID: "i", Points: []domain.ComparisonPoint{
		{ID: "p", Type: domain.PolarityPro, Weight: 5, Category: "c", IsDealBreaker: true},
	}}
	s := ScoreItem(item, prefsWith(domain.CategoryWeight{Category: "c", Importance: 10, Visible: true}))
	// Flag only fires on cons: plain +5 over max 10 -> 75.
	if s.TotalScore != 75 {
		t.Fatalf("score = %v; want 75", s.TotalScore)
	}
}

func TestScoreItem_MustHaveDoublesPros(t *testing.T) {
	item := domain.ComparisonItem{ID: "i", Points: []domain.ComparisonPoint{
		{ID: "mh", Type: domain.PolarityPro, Weight: 5, Category: "c", IsMustHave: true},
		{ID: "n", Type: domain.PolarityNeutral, Weight: 5, Category: "c"},
	}}
	s := ScoreItem(item, prefsWith(domain.CategoryWeight{Category: "c", Importance: 10, Visible: true}))
	// 5*2 = 10 over max 20 -> 75.
	if s.TotalScore != 75 {
		t.Fatalf("score = %v; want 75", s.TotalScore)
	}
}

func TestScoreItem_BreakdownGroupsByCategory(t *testing.T) {
	item := domain.ComparisonItem{ID: "i", Points: []domain.ComparisonPoint{
		proPoint("p1", 6, "price"),
		{ID: "c1", Type: domain.PolarityCon, Weight: 4, Category: "price"},
		proPoint("p2", 8, "quality"),
	}}
	prefs := prefsWith(
		domain.CategoryWeight{Category: "price", Importance: 10, Visible: true},
		domain.CategoryWeight{Category: "quality", Importance: 10, Visible: true},
	)
	s := ScoreItem(item, prefs)

	if len(s.CategoryBreakdown) != 2 {
		t.Fatalf("want 2 breakdown buckets, got %d", len(s.CategoryBreakdown))
	}
	price := s.CategoryBreakdown[0]
	if price.Category != "price" || price.Contribution != 2 || len(price.Points) != 2 {
		t.Fatalf("price bucket = %+v; want contribution 2 from 2 points", price)
	}
	quality := s.CategoryBreakdown[1]
	if quality.Category != "quality" || quality.Contribution != 8 || len(quality.Points) != 1 {
		t.Fatalf("quality bucket = %+v; want contribution 8 from 1 point", quality)
	}
}

func TestScoreItem_ScoreAlwaysBounded(t *testing.T) {
	// All must-have pros push the raw total past the theoretical max; the
	// result must clamp at 100 instead of re-scaling.
	item := domain.ComparisonItem{ID: "i", Points: []domain.ComparisonPoint{
		{ID: "a", Type: domain.PolarityPro, Weight: 10, Category: "c", IsMustHave: true},
		{ID: "b", Type: domain.PolarityPro, Weight: 10, Category: "c", IsMustHave: true},
	}}
	s := ScoreItem(item, prefsWith(domain.CategoryWeight{Category: "c", Importance: 10, Visible: true}))
	if s.TotalScore != 100 {
		t.Fatalf("score = %v; want clamp at 100", s.TotalScore)
	}
}

// itemScoring constructs an item whose score lands exactly at
// (w/10)*50 + 50 when its single category has importance 10.
func itemScoring(id string, w int) domain.ComparisonItem {
	return domain.ComparisonItem{ID: id, Points: []domain.ComparisonPoint{proPoint(id+"-p", w, "c")}}
}

func TestRankItems_CompetitionRanking(t *testing.T) {
	prefs := prefsWith(domain.CategoryWeight{Category: "c", Importance: 10, Visible: true})
	// Weights 8,8,6,4 -> scores 90,90,80,70 regardless of input order.
	items := []domain.ComparisonItem{
		itemScoring("third", 6),
		itemScoring("first-a", 8),
		itemScoring("fourth", 4),
		itemScoring("first-b", 8),
	}

	got := RankItems(items, prefs)

	wantScores := []float64{90, 90, 80, 70}
	wantRanks := []int{1, 1, 3, 4}
	for i := range got {
		if math.Abs(got[i].TotalScore-wantScores[i]) > 1e-9 {
			t.Fatalf("scores[%d] = %v; want %v", i, got[i].TotalScore, wantScores[i])
		}
		if got[i].Rank != wantRanks[i] {
			t.Fatalf("ranks = %v; want %v", ranksOf(got), wantRanks)
		}
	}

	// Stable sort keeps input order within the tie.
	if got[0].ItemID != "first-a" || got[1].ItemID != "first-b" {
		t.Fatalf("tie order not stable: %s, %s", got[0].ItemID, got[1].ItemID)
	}
}

func TestRankItems_Idempotent(t *testing.T) {
	prefs := prefsWith(domain.CategoryWeight{Category: "c", Importance: 7, Visible: true})
	items := []domain.ComparisonItem{
		itemScoring("a", 9),
		itemScoring("b", 3),
		itemScoring("c", 9),
	}

	first := RankItems(items, prefs)
	second := RankItems(items, prefs)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("RankItems not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestRankItems_DoesNotMutateInputs(t *testing.T) {
	prefs := prefsWith(domain.CategoryWeight{Category: "c", Importance: 10, Visible: true})
	items := []domain.ComparisonItem{itemScoring("b", 4), itemScoring("a", 8)}

	_ = RankItems(items, prefs)

	if items[0].ID != "b" || items[1].ID != "a" {
		t.Fatal("input slice order changed")
	}
	if prefs.CategoryWeights[0].Importance != 10 {
		t.Fatal("preferences mutated")
	}
}

func TestRankItems_Empty(t *testing.T) {
	if got := RankItems(nil, prefsWith()); len(got) != 0 {
		t.Fatalf("want empty result, got %d", len(got))
	}
}

func ranksOf(scores []domain.ItemScore) []int {
	out := make([]int, len(scores))
	for i, s := range scores {
		out[i] = s.Rank
	}
	return out
}
