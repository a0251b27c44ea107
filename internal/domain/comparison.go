// Package domain defines the core data model of the decision backend: the
// Comparison aggregate (items, points, categories), the user's preference
// bundle, and the derived ItemScore. The aggregate is serialized as a JSON
// snapshot for persistence (see ComparisonRecord); the engine packages only
// ever see these plain value types.
package domain

import (
	"strings"
	"time"
)

// Polarity states whether a point counts for (+), against (−), or neutrally
// (0) toward an item's score.
type Polarity string

// Polarity values accepted on a ComparisonPoint.
const (
	PolarityPro     Polarity = "pro"
	PolarityCon     Polarity = "con"
	PolarityNeutral Polarity = "neutral"
)

// Valid reports whether p is one of the three accepted polarities.
func (p Polarity) Valid() bool {
	return p == PolarityPro || p == PolarityCon || p == PolarityNeutral
}

// Clamp bounds for user-adjustable numeric fields. Out-of-range values are
// silently corrected at every write boundary, never rejected.
const (
	MinPointWeight = 1
	MaxPointWeight = 10

	MinImportance = 0
	MaxImportance = 10

	// AI-mapped importances are clamped to [1,10]; the mapper never
	// produces a "mute this category" zero on its own.
	MinMappedImportance = 1

	// DefaultImportance is the neutral midpoint used whenever no category
	// weight entry exists for a point's category.
	DefaultImportance = 5
)

// ClampPointWeight bounds a point weight to [1,10].
func ClampPointWeight(w int) int {
	if w < MinPointWeight {
		return MinPointWeight
	}
	if w > MaxPointWeight {
		return MaxPointWeight
	}
	return w
}

// ClampImportance bounds a category importance to [0,10].
func ClampImportance(v int) int {
	if v < MinImportance {
		return MinImportance
	}
	if v > MaxImportance {
		return MaxImportance
	}
	return v
}

// ClampMappedImportance bounds an AI-sourced importance to [1,10].
func ClampMappedImportance(v int) int {
	if v < MinMappedImportance {
		return MinMappedImportance
	}
	if v > MaxImportance {
		return MaxImportance
	}
	return v
}

// ComparisonPoint is a single fact about one item. Identity is immutable once
// created; weight is the importance of this specific fact (1–10), and the
// category is a free-text label matched case-insensitively against the
// preference weights.
type ComparisonPoint struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Type          Polarity `json:"type"`
	Weight        int      `json:"weight"`
	Category      string   `json:"category"`
	IsDealBreaker bool     `json:"isDealBreaker,omitempty"`
	IsMustHave    bool     `json:"isMustHave,omitempty"`
}

// ComparisonItem is one option being evaluated. It owns its points.
type ComparisonItem struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Points      []ComparisonPoint `json:"points"`
	Description string            `json:"description,omitempty"`
}

// CategoryWeight is the user's stated importance for one category
// (0 = ignore every point in that category). Category names are not
// unique-normalized; matching is always a case-insensitive lookup.
type CategoryWeight struct {
	Category   string `json:"category"`
	Importance int    `json:"importance"`
	Visible    bool   `json:"visible"`
}

// UserPreferences bundles category weights with display toggles. A comparison
// has at most one active preference set, and mutations always replace the
// whole structure.
type UserPreferences struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	CategoryWeights []CategoryWeight `json:"categoryWeights"`
	ShowScores      bool             `json:"showScores"`
	SortByScore     bool             `json:"sortByScore"`
	HideWinner      bool             `json:"hideWinner,omitempty"`
	ColorScheme     string           `json:"colorScheme"`
}

// ImportanceFor resolves the importance for a category by case-insensitive
// lookup. The second return value reports whether an entry exists; callers
// apply DefaultImportance when it does not.
func (p *UserPreferences) ImportanceFor(category string) (int, bool) {
	if p == nil {
		return 0, false
	}
	for _, cw := range p.CategoryWeights {
		if strings.EqualFold(cw.Category, category) {
			return cw.Importance, true
		}
	}
	return 0, false
}

// CategoryContribution is one category's slice of an item's score, together
// with the points that produced it.
type CategoryContribution struct {
	Category     string            `json:"category"`
	Contribution float64           `json:"contribution"`
	Points       []ComparisonPoint `json:"points"`
}

// ItemScore is derived, never persisted as source of truth: it is recomputed
// from the item and the active preferences on every read. TotalScore is
// bounded to [0,100] and Rank is competition-style (ties share a rank).
type ItemScore struct {
	ItemID            string                 `json:"itemId"`
	TotalScore        float64                `json:"totalScore"`
	Rank              int                    `json:"rank"`
	CategoryBreakdown []CategoryContribution `json:"categoryBreakdown"`
}

// Comparison is the aggregate root: items, the category name list, and the
// optional active preference set. It is created by the extraction or
// refinement collaborator and mutated only by whole-snapshot replacement.
type Comparison struct {
	ID              string           `json:"id"`
	Title           string           `json:"title,omitempty"`
	Items           []ComparisonItem `json:"items"`
	Categories      []string         `json:"categories"`
	UserPreferences *UserPreferences `json:"userPreferences,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// ParsedInput is the extraction collaborator's output used to seed a new
// Comparison.
type ParsedInput struct {
	Title      string           `json:"title,omitempty"`
	Items      []ComparisonItem `json:"items"`
	Categories []string         `json:"categories"`
}

// DefaultPreferences builds the neutral "Balanced" preference set for a
// category list: every category at the midpoint importance and visible.
func DefaultPreferences(id string, categories []string) *UserPreferences {
	weights := make([]CategoryWeight, 0, len(categories))
	for _, cat := range categories {
		weights = append(weights, CategoryWeight{
			Category:   cat,
			Importance: DefaultImportance,
			Visible:    true,
		})
	}
	return &UserPreferences{
		ID:              id,
		Name:            "Balanced",
		CategoryWeights: weights,
		ShowScores:      true,
		ColorScheme:     "default",
	}
}

// Clone returns a deep copy of the comparison. Mutating services operate on
// clones so every visible state change is a whole new snapshot; the engine
// and the undo stacks rely on snapshots never sharing slices.
func (c *Comparison) Clone() *Comparison {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = make([]ComparisonItem, len(c.Items))
	for i, it := range c.Items {
		out.Items[i] = it
		out.Items[i].Points = append([]ComparisonPoint(nil), it.Points...)
	}
	out.Categories = append([]string(nil), c.Categories...)
	if c.UserPreferences != nil {
		p := *c.UserPreferences
		p.CategoryWeights = append([]CategoryWeight(nil), c.UserPreferences.CategoryWeights...)
		out.UserPreferences = &p
	}
	return &out
}

// FindItem returns the index of the item with the given id, or -1.
func (c *Comparison) FindItem(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// HasCategory reports whether name is already present in the category list
// (case-insensitive).
func (c *Comparison) HasCategory(name string) bool {
	for _, cat := range c.Categories {
		if strings.EqualFold(cat, name) {
			return true
		}
	}
	return false
}
