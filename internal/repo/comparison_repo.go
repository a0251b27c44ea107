// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for comparison
// snapshots and the bounded history list.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. History ordering is most-recent-first
// by UpdatedAt; the cap is enforced by TrimHistory, which the service layer
// calls after every save.
//
// Error semantics:
//   - When a snapshot is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-decision-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist. It aliases
// gorm.ErrRecordNotFound for consistency across services and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// SaveComparison inserts or replaces a comparison snapshot row. Saving an
// existing ID updates the stored payload in place (same history slot).
func SaveComparison(ctx context.Context, db *gorm.DB, rec *domain.ComparisonRecord) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(rec).Error
}

// GetComparison fetches a snapshot by ID and owner. If the record does not
// exist, it returns ErrNotFound.
func GetComparison(ctx context.Context, db *gorm.DB, id, userID string) (*domain.ComparisonRecord, error) {
	var rec domain.ComparisonRecord
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountComparisons returns the total number of snapshots owned by userID.
func CountComparisons(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ComparisonRecord{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListComparisonsPage returns a page of the user's history, most recently
// updated first. The caller computes offset and limit.
func ListComparisonsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.ComparisonRecord, error) {
	var out []domain.ComparisonRecord
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListRecentComparisons returns up to limit of the user's most recently
// updated snapshots; used to derive historical preference averages.
func ListRecentComparisons(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.ComparisonRecord, error) {
	return ListComparisonsPage(ctx, db, userID, 0, limit)
}

// DeleteComparison soft-deletes one snapshot. Returns ErrNotFound when the
// row is missing or owned by someone else.
func DeleteComparison(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.ComparisonRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearComparisons soft-deletes the user's entire history.
func ClearComparisons(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.ComparisonRecord{}).Error
}

// TrimHistory drops everything beyond the newest max snapshots for userID,
// enforcing the bounded most-recent-first history contract.
func TrimHistory(ctx context.Context, db *gorm.DB, userID string, max int) error {
	if max <= 0 {
		return nil
	}
	var stale []string
	err := db.WithContext(ctx).
		Model(&domain.ComparisonRecord{}).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Offset(max).
		Limit(-1).
		Pluck("id", &stale).Error
	if err != nil || len(stale) == 0 {
		return err
	}
	return db.WithContext(ctx).
		Where("id IN ?", stale).
		Delete(&domain.ComparisonRecord{}).Error
}

// ComparisonsStats returns aggregate metadata for a user's history: the row
// count and the greatest UpdatedAt. Used for weak ETags on the list endpoint.
// When the user has no history, count is 0 and maxUpdatedAt is nil.
func ComparisonsStats(ctx context.Context, db *gorm.DB, userID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.ComparisonRecord{}).Where("user_id = ?", userID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
