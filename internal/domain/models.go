// Package domain defines the core data model of the decision backend.
// This file contains the persistence rows mapped with GORM. The Comparison
// aggregate is stored as an opaque JSON snapshot; the relational columns
// exist only for listing, ordering, and ownership checks.
package domain

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ComparisonRecord is one persisted comparison snapshot. The history list is
// derived from these rows ordered by UpdatedAt descending and capped by the
// service layer; best-effort durability, no schema migration logic.
//
// Fields:
//   - ID: the comparison's UUID (char(36)), shared with the JSON payload.
//   - UserID: owner identifier; indexed for history retrieval.
//   - Title: denormalized for cheap listing without payload decoding.
//   - Payload: the full Comparison serialized as JSON.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type ComparisonRecord struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_comparisons"`
	Title     string         `json:"title"      gorm:"type:varchar(255);not null;default:'My Comparison'"`
	Payload   string         `json:"-"          gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for ComparisonRecord.
func (ComparisonRecord) TableName() string { return "comparisons" }

// Snapshot decodes the stored JSON payload back into a Comparison.
func (r *ComparisonRecord) Snapshot() (*Comparison, error) {
	var c Comparison
	if err := json.Unmarshal([]byte(r.Payload), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// NewComparisonRecord serializes a comparison into its persistence row.
func NewComparisonRecord(userID string, c *Comparison) (*ComparisonRecord, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	title := c.Title
	if title == "" {
		title = "My Comparison"
	}
	return &ComparisonRecord{
		ID:        c.ID,
		UserID:    userID,
		Title:     title,
		Payload:   string(raw),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

// Idempotency records the result of a previously processed request, keyed by
// (user_id, comparison_id, key). It enables safe retries for the expensive
// AI-backed POST operations by letting handlers serve the originally produced
// snapshot without re-invoking the model.
type Idempotency struct {
	ID           string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_cmp_key,priority:1"`
	ComparisonID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_cmp_key,priority:2"`
	Key          string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_cmp_key,priority:3"`
	Status       int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt    time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt    time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
