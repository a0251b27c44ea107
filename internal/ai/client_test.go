package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-decision-backend/internal/domain"
)

// fakeGen returns a canned completion (or error) and records the prompt.
type fakeGen struct {
	out    string
	err    error
	prompt string
}

func (f *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                        `{"a":1}`,
		"```json\n{\"a\":1}\n```":        `{"a":1}`,
		"```\n{\"a\":1}\n```":            `{"a":1}`,
		"  \n```json\n{\"a\":1}\n```\n ": `{"a":1}`,
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Errorf("stripFences(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestParseComparison(t *testing.T) {
	gen := &fakeGen{out: "```json\n" + `{
		"title": "Phone A vs Phone B",
		"items": [
			{
				"name": "Phone A",
				"description": "flagship",
				"points": [
					{"text": "Great camera", "type": "pro", "weight": 8, "category": "camera"},
					{"text": "Pricey", "type": "con", "weight": 15, "category": "price"},
					{"text": "Mid size", "type": "whatever", "weight": 0, "category": "design"}
				]
			}
		],
		"categories": ["camera", "price", "design"]
	}` + "\n```"}
	c := &Client{Gen: gen}

	got, err := c.ParseComparison(context.Background(), "compare phone a and phone b")
	if err != nil {
		t.Fatalf("ParseComparison: %v", err)
	}

	if got.Title != "Phone A vs Phone B" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Items) != 1 || len(got.Items[0].Points) != 3 {
		t.Fatalf("unexpected structure: %+v", got)
	}
	if got.Items[0].ID == "" {
		t.Error("item should get a minted ID")
	}

	pts := got.Items[0].Points
	if pts[0].Type != domain.PolarityPro || pts[0].Weight != 8 {
		t.Errorf("point 0 = %+v", pts[0])
	}
	if pts[1].Weight != 10 {
		t.Errorf("weight 15 should clamp to 10, got %d", pts[1].Weight)
	}
	if pts[2].Type != domain.PolarityNeutral {
		t.Errorf("unknown polarity should coerce to neutral, got %q", pts[2].Type)
	}
	if pts[2].Weight != 1 {
		t.Errorf("weight 0 should clamp to 1, got %d", pts[2].Weight)
	}
	for _, p := range pts {
		if p.ID == "" {
			t.Error("every point should get a minted ID")
		}
	}

	if !strings.Contains(gen.prompt, "compare phone a and phone b") {
		t.Error("user text missing from prompt")
	}
}

func TestParseComparison_EmptyTitleFallsBack(t *testing.T) {
	c := &Client{Gen: &fakeGen{out: `{"title":"","items":[],"categories":[]}`}}
	got, err := c.ParseComparison(context.Background(), "text")
	if err != nil {
		t.Fatalf("ParseComparison: %v", err)
	}
	if got.Title != "My Comparison" {
		t.Errorf("title = %q; want fallback", got.Title)
	}
}

func TestParseComparison_MalformedResponse(t *testing.T) {
	c := &Client{Gen: &fakeGen{out: "sorry, I cannot help with that"}}
	_, err := c.ParseComparison(context.Background(), "text")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
}

func TestParseComparison_GeneratorError(t *testing.T) {
	boom := errors.New("network down")
	c := &Client{Gen: &fakeGen{err: boom}}
	_, err := c.ParseComparison(context.Background(), "text")
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped generator error, got %v", err)
	}
}

func TestRefineComparison(t *testing.T) {
	prior := &domain.Comparison{
		ID:              "cmp-1",
		Title:           "Phones",
		Items:           []domain.ComparisonItem{{ID: "item-1", Name: "A"}},
		Categories:      []string{"price"},
		UserPreferences: domain.DefaultPreferences("prefs-1", []string{"price"}),
		CreatedAt:       time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	gen := &fakeGen{out: `{
		"id": "attacker-controlled",
		"title": "Phones, refined",
		"items": [
			{"id": "item-1", "name": "A", "points": [
				{"id": "", "text": "new point", "type": "pro", "weight": 12, "category": "battery"}
			]},
			{"id": "", "name": "B", "points": []}
		],
		"categories": ["price", "battery"]
	}`}
	c := &Client{Gen: gen}

	got, err := c.RefineComparison(context.Background(), prior, "add phone B and battery notes")
	if err != nil {
		t.Fatalf("RefineComparison: %v", err)
	}

	if got.ID != "cmp-1" {
		t.Errorf("model must not change identity, got %q", got.ID)
	}
	if !got.CreatedAt.Equal(prior.CreatedAt) {
		t.Error("CreatedAt should be preserved")
	}
	if !got.UpdatedAt.After(prior.CreatedAt) {
		t.Error("UpdatedAt should be refreshed")
	}
	if got.UserPreferences == nil || got.UserPreferences.ID != "prefs-1" {
		t.Error("dropped preferences should be restored from the prior snapshot")
	}
	if got.Items[1].ID == "" {
		t.Error("new item should get a minted ID")
	}
	p := got.Items[0].Points[0]
	if p.ID == "" || p.Weight != 10 {
		t.Errorf("new point should get ID and clamped weight, got %+v", p)
	}
	if !strings.Contains(gen.prompt, "add phone B and battery notes") {
		t.Error("instructions missing from prompt")
	}
}

func TestRefineComparison_Malformed(t *testing.T) {
	c := &Client{Gen: &fakeGen{out: "```json\nnot json\n```"}}
	_, err := c.RefineComparison(context.Background(), &domain.Comparison{ID: "x"}, "do things")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
}

func TestMapPreferences(t *testing.T) {
	gen := &fakeGen{out: "```json\n{\"battery\": 9, \"cost\": 8}\n```"}
	c := &Client{Gen: gen}

	got, err := c.MapPreferences(context.Background(), map[string]int{"battery life": 9, "price": 8}, []string{"battery", "cost"})
	if err != nil {
		t.Fatalf("MapPreferences: %v", err)
	}
	if got["battery"] != 9 || got["cost"] != 8 {
		t.Fatalf("mapped = %v", got)
	}
	if !strings.Contains(gen.prompt, "battery life") || !strings.Contains(gen.prompt, `"battery"`) {
		t.Error("prompt missing historical data or new categories")
	}
}

func TestMapPreferences_Malformed(t *testing.T) {
	c := &Client{Gen: &fakeGen{out: "[1,2,3]"}}
	if _, err := c.MapPreferences(context.Background(), nil, []string{"a"}); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
}

func TestNewGoogleGenerator_RequiresKey(t *testing.T) {
	if _, err := NewGoogleGenerator(context.Background(), "", "gemini-2.5-flash"); err == nil {
		t.Fatal("empty api key must be rejected")
	}
}
