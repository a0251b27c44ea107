// Package services – PreferenceService
//
// PreferenceService owns preference personalization: seeding category weights
// for new comparisons from the user's saved history, and the standalone
// preference-mapping operation. Seeding is best effort by contract — any
// failure along the way (repo errors, undecodable snapshots, collaborator
// failures) degrades to neutral defaults instead of surfacing.
package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-decision-backend/internal/domain"
	"github.com/tbourn/go-decision-backend/internal/prefs"
)

// HistoryRepo is the read-only persistence contract PreferenceService needs.
type HistoryRepo interface {
	Count(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	ListRecent(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.ComparisonRecord, error)
}

// PreferenceService derives per-comparison category weights from history.
type PreferenceService struct {
	DB     *gorm.DB
	Repo   HistoryRepo
	Mapper *prefs.Mapper

	// HistoryMax bounds how many recent comparisons feed personalization.
	HistoryMax int
}

// NewPreferenceService constructs a PreferenceService.
func NewPreferenceService(db *gorm.DB, r HistoryRepo, m *prefs.Mapper) *PreferenceService {
	return &PreferenceService{DB: db, Repo: r, Mapper: m, HistoryMax: 20}
}

// SeedWeights returns the category weights a freshly created comparison
// starts with. Users with fewer than the personalization threshold of saved
// comparisons get neutral defaults; everyone else gets importances mapped
// from their historical averages.
func (s *PreferenceService) SeedWeights(ctx context.Context, userID string, categories []string) []domain.CategoryWeight {
	tr := otel.Tracer("services/PreferenceService")
	ctx, span := tr.Start(ctx, "SeedWeights",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("categories", len(categories)),
		),
	)
	defer span.End()

	n, err := s.Repo.Count(ctx, s.DB, userID)
	if err != nil {
		log.Debug().Err(err).Msg("history count failed; seeding neutral weights")
		return prefs.BuildCategoryWeights(categories, nil)
	}
	if !prefs.HasEnoughHistory(int(n)) {
		return prefs.BuildCategoryWeights(categories, nil)
	}

	records, err := s.Repo.ListRecent(ctx, s.DB, userID, s.HistoryMax)
	if err != nil {
		log.Debug().Err(err).Msg("history fetch failed; seeding neutral weights")
		return prefs.BuildCategoryWeights(categories, nil)
	}

	history := make([]*domain.Comparison, 0, len(records))
	for i := range records {
		c, err := records[i].Snapshot()
		if err != nil {
			log.Debug().Err(err).Str("comparison_id", records[i].ID).Msg("skipping undecodable snapshot")
			continue
		}
		history = append(history, c)
	}
	if !prefs.HasEnoughHistory(len(history)) {
		return prefs.BuildCategoryWeights(categories, nil)
	}

	historical := prefs.AveragePreferences(history)
	mapped := s.Mapper.Map(ctx, historical, categories)
	return prefs.BuildCategoryWeights(categories, mapped)
}

// MapPreferences projects an explicit historical importance set onto a new
// category list. It backs the standalone mapping endpoint and never fails.
func (s *PreferenceService) MapPreferences(ctx context.Context, historical map[string]int, categories []string) map[string]int {
	tr := otel.Tracer("services/PreferenceService")
	ctx, span := tr.Start(ctx, "MapPreferences",
		trace.WithAttributes(attribute.Int("categories", len(categories))),
	)
	defer span.End()

	return s.Mapper.Map(ctx, historical, categories)
}
