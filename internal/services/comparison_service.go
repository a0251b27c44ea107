// Package services – ComparisonService
//
// This file implements ComparisonService, the application-level component
// that owns the Comparison lifecycle: creation from free text via the
// extraction collaborator, natural-language refinement, item/point editing,
// preference replacement, score reads, undo/redo, and the bounded history.
//
// Every mutation loads the stored snapshot, clones it, applies the change to
// the clone, and persists the result — visible state is always replaced
// wholesale, never edited in place. Numeric write boundaries clamp silently
// (point weight 1–10, importance 0–10); structural problems return service
// errors for the handlers to map.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// comparison/user identifiers.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-decision-backend/internal/domain"
	"github.com/tbourn/go-decision-backend/internal/repo"
	"github.com/tbourn/go-decision-backend/internal/score"
)

// ComparisonRepo defines the persistence contract required by
// ComparisonService.
type ComparisonRepo interface {
	Save(ctx context.Context, db *gorm.DB, rec *domain.ComparisonRecord) error
	Get(ctx context.Context, db *gorm.DB, id, userID string) (*domain.ComparisonRecord, error)
	Count(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	ListPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.ComparisonRecord, error)
	Delete(ctx context.Context, db *gorm.DB, id, userID string) error
	Clear(ctx context.Context, db *gorm.DB, userID string) error
	Trim(ctx context.Context, db *gorm.DB, userID string, max int) error
}

// Extractor turns free-form decision text into structured comparison data.
type Extractor interface {
	ParseComparison(ctx context.Context, text string) (*domain.ParsedInput, error)
}

// Refiner applies free-text instructions to a comparison and returns a full
// replacement aggregate.
type Refiner interface {
	RefineComparison(ctx context.Context, cmp *domain.Comparison, instructions string) (*domain.Comparison, error)
}

// WeightSeeder produces the initial category weights for a new comparison
// (personalized from history when it suffices, neutral defaults otherwise).
type WeightSeeder interface {
	SeedWeights(ctx context.Context, userID string, categories []string) []domain.CategoryWeight
}

// ComparisonService coordinates the comparison aggregate across the AI
// collaborators, the scoring engine, the undo stacks, and persistence.
type ComparisonService struct {
	DB        *gorm.DB
	Repo      ComparisonRepo
	Extractor Extractor
	Refiner   Refiner
	Seeder    WeightSeeder
	Undo      *SnapshotStacks

	// HistoryMax caps the persisted history per user (most recent first).
	HistoryMax int
	// MaxInputRunes guards the extraction input length.
	MaxInputRunes int
	// TitleMaxLen caps stored titles by rune length.
	TitleMaxLen int
	// TitleLocale drives title casing for fallback titles.
	TitleLocale language.Tag
}

// NewComparisonService constructs a ComparisonService with sane defaults.
func NewComparisonService(db *gorm.DB, r ComparisonRepo, extractor Extractor, refiner Refiner, seeder WeightSeeder) *ComparisonService {
	return &ComparisonService{
		DB:            db,
		Repo:          r,
		Extractor:     extractor,
		Refiner:       refiner,
		Seeder:        seeder,
		Undo:          NewSnapshotStacks(DefaultUndoDepth),
		HistoryMax:    20,
		MaxInputRunes: 8000,
		TitleMaxLen:   60,
		TitleLocale:   language.English,
	}
}

// CreateFromText extracts a structured comparison from free-form text, seeds
// its preferences, and persists it as the newest history entry.
func (s *ComparisonService) CreateFromText(ctx context.Context, userID, text string) (*domain.Comparison, error) {
	tr := otel.Tracer("services/ComparisonService")
	ctx, span := tr.Start(ctx, "CreateFromText",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if s.MaxInputRunes > 0 && utf8.RuneCountInString(text) > s.MaxInputRunes {
		return nil, ErrTooLong
	}

	parsed, err := s.Extractor.ParseComparison(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	title := s.clip(normalizeTitle(parsed.Title))
	if title == "" {
		title = s.fallbackTitle(text)
	}

	now := time.Now().UTC()
	c := &domain.Comparison{
		ID:         uuid.NewString(),
		Title:      title,
		Items:      parsed.Items,
		Categories: parsed.Categories,
		UserPreferences: &domain.UserPreferences{
			ID:              uuid.NewString(),
			Name:            "Balanced",
			CategoryWeights: s.Seeder.SeedWeights(ctx, userID, parsed.Categories),
			ShowScores:      true,
			ColorScheme:     "default",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.persist(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the stored snapshot of a comparison.
func (s *ComparisonService) Get(ctx context.Context, userID, id string) (*domain.Comparison, error) {
	return s.load(ctx, userID, id)
}

// ListPage returns a page of the user's history (most recent first) and the
// total count. Invalid page/pageSize fall back to defaults.
func (s *ComparisonService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.ComparisonRecord, int64, error) {
	tr := otel.Tracer("services/ComparisonService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.Count(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.ComparisonRecord{}, 0, nil
	}

	items, err := s.Repo.ListPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// UpdateTitle renames a comparison.
func (s *ComparisonService) UpdateTitle(ctx context.Context, userID, id, title string) (*domain.Comparison, error) {
	title = normalizeTitle(title)
	if title == "" {
		title = "My Comparison"
	}
	return s.mutate(ctx, userID, id, "UpdateTitle", func(c *domain.Comparison) error {
		c.Title = s.clip(title)
		return nil
	})
}

// Refine applies free-text instructions via the refinement collaborator and
// replaces the whole snapshot with the result. Categories present in the
// result but absent from the prior preferences get a neutral, visible weight
// entry.
func (s *ComparisonService) Refine(ctx context.Context, userID, id, instructions string) (*domain.Comparison, error) {
	tr := otel.Tracer("services/ComparisonService")
	ctx, span := tr.Start(ctx, "Refine",
		trace.WithAttributes(
			attribute.String("comparison.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return nil, ErrEmptyInstructions
	}

	current, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.Refiner.RefineComparison(ctx, current, instructions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefinementFailed, err)
	}

	if updated.UserPreferences != nil {
		for i := range updated.UserPreferences.CategoryWeights {
			cw := &updated.UserPreferences.CategoryWeights[i]
			cw.Importance = domain.ClampImportance(cw.Importance)
		}
	}
	for _, cat := range updated.Categories {
		ensureWeightEntry(updated, cat)
	}

	s.Undo.Record(current)
	if err := s.persist(ctx, userID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// AddItem appends an option to the comparison. The item and its points are
// sanitized: IDs minted when empty, weights clamped, polarities validated.
func (s *ComparisonService) AddItem(ctx context.Context, userID, id string, item domain.ComparisonItem) (*domain.Comparison, error) {
	if err := sanitizeItem(&item); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, id, "AddItem", func(c *domain.Comparison) error {
		for _, p := range item.Points {
			ensureCategory(c, p.Category)
		}
		c.Items = append(c.Items, item)
		return nil
	})
}

// RemoveItem deletes an option from the comparison.
func (s *ComparisonService) RemoveItem(ctx context.Context, userID, id, itemID string) (*domain.Comparison, error) {
	return s.mutate(ctx, userID, id, "RemoveItem", func(c *domain.Comparison) error {
		idx := c.FindItem(itemID)
		if idx < 0 {
			return ErrItemNotFound
		}
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		return nil
	})
}

// AddPoint appends a point to an item, clamping its weight and registering
// its category.
func (s *ComparisonService) AddPoint(ctx context.Context, userID, id, itemID string, point domain.ComparisonPoint) (*domain.Comparison, error) {
	if err := sanitizePoint(&point); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, id, "AddPoint", func(c *domain.Comparison) error {
		idx := c.FindItem(itemID)
		if idx < 0 {
			return ErrItemNotFound
		}
		ensureCategory(c, point.Category)
		c.Items[idx].Points = append(c.Items[idx].Points, point)
		return nil
	})
}

// UpdatePoint edits an existing point in place. Point identity is immutable:
// the stored ID wins regardless of the payload.
func (s *ComparisonService) UpdatePoint(ctx context.Context, userID, id, itemID, pointID string, point domain.ComparisonPoint) (*domain.Comparison, error) {
	if !point.Type.Valid() {
		return nil, ErrInvalidPolarity
	}
	return s.mutate(ctx, userID, id, "UpdatePoint", func(c *domain.Comparison) error {
		idx := c.FindItem(itemID)
		if idx < 0 {
			return ErrItemNotFound
		}
		for i := range c.Items[idx].Points {
			if c.Items[idx].Points[i].ID != pointID {
				continue
			}
			point.ID = pointID
			point.Weight = domain.ClampPointWeight(point.Weight)
			ensureCategory(c, point.Category)
			c.Items[idx].Points[i] = point
			return nil
		}
		return ErrPointNotFound
	})
}

// RemovePoint deletes a point from an item.
func (s *ComparisonService) RemovePoint(ctx context.Context, userID, id, itemID, pointID string) (*domain.Comparison, error) {
	return s.mutate(ctx, userID, id, "RemovePoint", func(c *domain.Comparison) error {
		idx := c.FindItem(itemID)
		if idx < 0 {
			return ErrItemNotFound
		}
		pts := c.Items[idx].Points
		for i := range pts {
			if pts[i].ID == pointID {
				c.Items[idx].Points = append(pts[:i], pts[i+1:]...)
				return nil
			}
		}
		return ErrPointNotFound
	})
}

// ReplacePreferences swaps the whole preference bundle, clamping every
// importance to [0,10].
func (s *ComparisonService) ReplacePreferences(ctx context.Context, userID, id string, p domain.UserPreferences) (*domain.Comparison, error) {
	return s.mutate(ctx, userID, id, "ReplacePreferences", func(c *domain.Comparison) error {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		for i := range p.CategoryWeights {
			p.CategoryWeights[i].Importance = domain.ClampImportance(p.CategoryWeights[i].Importance)
		}
		c.UserPreferences = &p
		return nil
	})
}

// SetCategoryWeight adjusts one category's importance (clamped to [0,10]),
// producing a whole new preference snapshot. Unknown categories get a new
// visible entry.
func (s *ComparisonService) SetCategoryWeight(ctx context.Context, userID, id, category string, importance int) (*domain.Comparison, error) {
	importance = domain.ClampImportance(importance)
	return s.mutate(ctx, userID, id, "SetCategoryWeight", func(c *domain.Comparison) error {
		if c.UserPreferences == nil {
			c.UserPreferences = domain.DefaultPreferences(uuid.NewString(), c.Categories)
		}
		for i := range c.UserPreferences.CategoryWeights {
			if strings.EqualFold(c.UserPreferences.CategoryWeights[i].Category, category) {
				c.UserPreferences.CategoryWeights[i].Importance = importance
				return nil
			}
		}
		c.UserPreferences.CategoryWeights = append(c.UserPreferences.CategoryWeights, domain.CategoryWeight{
			Category:   category,
			Importance: importance,
			Visible:    true,
		})
		return nil
	})
}

// Scores recomputes the ranked ItemScores from the stored snapshot; derived
// data is never persisted.
func (s *ComparisonService) Scores(ctx context.Context, userID, id string) ([]domain.ItemScore, error) {
	tr := otel.Tracer("services/ComparisonService")
	ctx, span := tr.Start(ctx, "Scores",
		trace.WithAttributes(
			attribute.String("comparison.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	c, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return score.RankItems(c.Items, c.UserPreferences), nil
}

// UndoLast restores the previous snapshot, if any.
func (s *ComparisonService) UndoLast(ctx context.Context, userID, id string) (*domain.Comparison, error) {
	current, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	prev, ok := s.Undo.Undo(current)
	if !ok {
		return nil, ErrNothingToUndo
	}
	if err := s.persist(ctx, userID, prev); err != nil {
		return nil, err
	}
	return prev, nil
}

// RedoLast re-applies the most recently undone snapshot, if any.
func (s *ComparisonService) RedoLast(ctx context.Context, userID, id string) (*domain.Comparison, error) {
	current, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	next, ok := s.Undo.Redo(current)
	if !ok {
		return nil, ErrNothingToRedo
	}
	if err := s.persist(ctx, userID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Delete removes a comparison from history and drops its undo state.
func (s *ComparisonService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComparisonNotFound
		}
		return err
	}
	s.Undo.Drop(id)
	return nil
}

// ClearHistory removes the user's entire saved history.
func (s *ComparisonService) ClearHistory(ctx context.Context, userID string) error {
	return s.Repo.Clear(ctx, s.DB, userID)
}

// --- internals ---

// load fetches and decodes the stored snapshot.
func (s *ComparisonService) load(ctx context.Context, userID, id string) (*domain.Comparison, error) {
	rec, err := s.Repo.Get(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repo.ErrNotFound) {
			return nil, ErrComparisonNotFound
		}
		return nil, err
	}
	return rec.Snapshot()
}

// persist serializes and stores a snapshot, then enforces the history cap.
func (s *ComparisonService) persist(ctx context.Context, userID string, c *domain.Comparison) error {
	rec, err := domain.NewComparisonRecord(userID, c)
	if err != nil {
		return err
	}
	if err := s.Repo.Save(ctx, s.DB, rec); err != nil {
		return err
	}
	return s.Repo.Trim(ctx, s.DB, userID, s.HistoryMax)
}

// mutate runs fn against a clone of the stored snapshot, records the previous
// state for undo, refreshes UpdatedAt, and persists the result.
func (s *ComparisonService) mutate(ctx context.Context, userID, id, op string, fn func(*domain.Comparison) error) (*domain.Comparison, error) {
	tr := otel.Tracer("services/ComparisonService")
	ctx, span := tr.Start(ctx, op,
		trace.WithAttributes(
			attribute.String("comparison.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	current, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()

	s.Undo.Record(current)
	if err := s.persist(ctx, userID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// fallbackTitle derives a short title from the first line of the input text.
func (s *ComparisonService) fallbackTitle(text string) string {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = normalizeTitle(line)
	if line == "" {
		return "My Comparison"
	}
	return s.clip(cases.Title(s.TitleLocale).String(line))
}

// clip truncates a title to the configured maximum rune length.
func (s *ComparisonService) clip(title string) string {
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return string([]rune(title)[:s.TitleMaxLen])
	}
	return title
}

// normalizeTitle trims whitespace and collapses runs of spaces.
func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sanitizeItem mints a missing ID and sanitizes every point.
func sanitizeItem(item *domain.ComparisonItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	for i := range item.Points {
		if err := sanitizePoint(&item.Points[i]); err != nil {
			return err
		}
	}
	return nil
}

// sanitizePoint validates polarity, mints a missing ID, and clamps the weight.
func sanitizePoint(p *domain.ComparisonPoint) error {
	if !p.Type.Valid() {
		return ErrInvalidPolarity
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Weight = domain.ClampPointWeight(p.Weight)
	return nil
}

// ensureCategory registers a point's category on the aggregate and makes sure
// a weight entry exists for it.
func ensureCategory(c *domain.Comparison, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	if !c.HasCategory(name) {
		c.Categories = append(c.Categories, name)
	}
	ensureWeightEntry(c, name)
}

// ensureWeightEntry adds a neutral, visible weight entry for a category that
// the active preferences do not cover yet.
func ensureWeightEntry(c *domain.Comparison, name string) {
	if c.UserPreferences == nil {
		return
	}
	if _, ok := c.UserPreferences.ImportanceFor(name); ok {
		return
	}
	c.UserPreferences.CategoryWeights = append(c.UserPreferences.CategoryWeights, domain.CategoryWeight{
		Category:   name,
		Importance: domain.DefaultImportance,
		Visible:    true,
	})
}
