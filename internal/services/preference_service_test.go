package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-decision-backend/internal/domain"
	"github.com/tbourn/go-decision-backend/internal/prefs"
)

type fakeHistoryRepo struct {
	count    int64
	countErr error
	recs     []domain.ComparisonRecord
	listErr  error
}

func (r *fakeHistoryRepo) Count(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return r.count, r.countErr
}

func (r *fakeHistoryRepo) ListRecent(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.ComparisonRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	if limit < len(r.recs) {
		return r.recs[:limit], nil
	}
	return r.recs, nil
}

func historyRecord(t *testing.T, id string, weights map[string]int) domain.ComparisonRecord {
	t.Helper()
	cw := make([]domain.CategoryWeight, 0, len(weights))
	for cat, imp := range weights {
		cw = append(cw, domain.CategoryWeight{Category: cat, Importance: imp, Visible: true})
	}
	c := &domain.Comparison{
		ID:    id,
		Title: "t",
		UserPreferences: &domain.UserPreferences{
			ID:              "p-" + id,
			Name:            "Balanced",
			CategoryWeights: cw,
		},
	}
	rec, err := domain.NewComparisonRecord("u1", c)
	if err != nil {
		t.Fatalf("historyRecord: %v", err)
	}
	return *rec
}

func allNeutral(t *testing.T, got []domain.CategoryWeight) {
	t.Helper()
	for _, cw := range got {
		if cw.Importance != domain.DefaultImportance || !cw.Visible {
			t.Fatalf("expected neutral visible weights, got %+v", got)
		}
	}
}

func TestSeedWeights_InsufficientHistory(t *testing.T) {
	svc := NewPreferenceService(nil, &fakeHistoryRepo{count: 1}, &prefs.Mapper{})

	got := svc.SeedWeights(context.Background(), "u1", []string{"Price", "Battery"})
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	allNeutral(t, got)
}

func TestSeedWeights_FromHistoricalAverages(t *testing.T) {
	repo := &fakeHistoryRepo{
		count: 2,
		recs: []domain.ComparisonRecord{
			historyRecord(t, "c1", map[string]int{"Price": 9, "Battery": 3}),
			historyRecord(t, "c2", map[string]int{"Price": 7}),
		},
	}
	svc := NewPreferenceService(nil, repo, &prefs.Mapper{})

	got := svc.SeedWeights(context.Background(), "u1", []string{"Price", "Battery", "Design"})
	byCat := make(map[string]int, len(got))
	for _, cw := range got {
		byCat[cw.Category] = cw.Importance
	}
	if byCat["Price"] != 8 { // mean(9,7)
		t.Errorf("Price = %d; want 8", byCat["Price"])
	}
	if byCat["Battery"] != 3 {
		t.Errorf("Battery = %d; want 3", byCat["Battery"])
	}
	if byCat["Design"] != domain.DefaultImportance {
		t.Errorf("Design = %d; want %d", byCat["Design"], domain.DefaultImportance)
	}
}

func TestSeedWeights_DegradesOnRepoErrors(t *testing.T) {
	cases := []struct {
		name string
		repo *fakeHistoryRepo
	}{
		{"count error", &fakeHistoryRepo{countErr: errors.New("db down")}},
		{"list error", &fakeHistoryRepo{count: 5, listErr: errors.New("db down")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewPreferenceService(nil, tc.repo, &prefs.Mapper{})
			got := svc.SeedWeights(context.Background(), "u1", []string{"Price"})
			if len(got) != 1 {
				t.Fatalf("len = %d", len(got))
			}
			allNeutral(t, got)
		})
	}
}

func TestSeedWeights_SkipsUndecodableSnapshots(t *testing.T) {
	broken := historyRecord(t, "c1", map[string]int{"Price": 9})
	broken.Payload = "{not json"
	repo := &fakeHistoryRepo{
		count: 2,
		recs: []domain.ComparisonRecord{
			broken,
			historyRecord(t, "c2", map[string]int{"Price": 7}),
		},
	}
	svc := NewPreferenceService(nil, repo, &prefs.Mapper{})

	// Only one decodable snapshot remains, below the personalization bar.
	got := svc.SeedWeights(context.Background(), "u1", []string{"Price"})
	allNeutral(t, got)
}

func TestMapPreferences_Passthrough(t *testing.T) {
	svc := NewPreferenceService(nil, &fakeHistoryRepo{}, &prefs.Mapper{})

	got := svc.MapPreferences(context.Background(), map[string]int{"price": 8}, []string{"Price", "Design"})
	if got["Price"] != 8 {
		t.Errorf("Price = %d; want 8", got["Price"])
	}
	if got["Design"] != domain.DefaultImportance {
		t.Errorf("Design = %d; want %d", got["Design"], domain.DefaultImportance)
	}
}
