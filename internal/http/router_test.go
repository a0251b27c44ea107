package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-decision-backend/internal/config"
	"github.com/tbourn/go-decision-backend/internal/repo"
)

func testConfig() config.Config {
	return config.Config{
		Port:              "8080",
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       5 * time.Second,
		MaxHeaderBytes:    1 << 20,
		GinMode:           "test",
		LogLevel:          "error",
		APIBasePath:       "/api/v1",
		DBPath:            "ignored",
		MaxInputRunes:     8000,
		HistoryMax:        20,
		UndoDepth:         25,
		AI: config.AIConfig{
			Model:   "gemini-2.0-flash",
			Timeout: 5 * time.Second,
		},
		RateRPS:        1000,
		RateBurst:      1000,
		IdempotencyTTL: time.Hour,
		OTEL:           config.OTELConfig{ServiceName: "test"},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "router.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := gin.New()
	// nil generator: AI endpoints degrade, mapping uses the heuristic.
	RegisterRoutes(r, db, nil, testConfig())
	return r, db
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: %d", w.Code)
	}
}

func TestRouter_FallbackEnvelopes(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("no route: %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v (%s)", err, w.Body.String())
	}
	if resp["code"] != "not_found" {
		t.Fatalf("code = %v", resp["code"])
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("no method: %d", w.Code)
	}
}

func TestRouter_CORSDefaultAllowAll(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("ACAO = %q; want *", got)
	}
}

func TestRouter_CreateWithoutGeneratorDegrades(t *testing.T) {
	r, _ := newTestRouter(t)

	body := bytes.NewBufferString(`{"text":"macbook or thinkpad"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/comparisons", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["code"] != "extraction_failed" {
		t.Fatalf("code = %v", resp["code"])
	}
}

func TestRouter_MapPreferencesHeuristic(t *testing.T) {
	r, _ := newTestRouter(t)

	body := bytes.NewBufferString(`{"historicalPreferences":{"price":8},"newCategories":["Price","Design"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/preferences/map", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Mapped map[string]int `json:"mapped"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Mapped["Price"] != 8 || resp.Mapped["Design"] != 5 {
		t.Fatalf("mapped = %v", resp.Mapped)
	}
}

func TestRouter_ItemAndPointFlowAgainstDB(t *testing.T) {
	r, _ := newTestRouter(t)

	// Without a generator there is no create endpoint to seed data through,
	// so unknown ids must come back as clean 404 envelopes end to end.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/comparisons/123e4567-e89b-12d3-a456-426614174000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
}
