package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rudrodip/whatyouwant/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// counterRowID is the fixed primary key of the single counter row.
const counterRowID = 1

// TelemetryRepository persists request logs and the global counter.
type TelemetryRepository struct {
	db *gorm.DB
}

// NewTelemetryRepository creates a new TelemetryRepository bound to db.
func NewTelemetryRepository(db *gorm.DB) *TelemetryRepository {
	return &TelemetryRepository{db: db}
}

// AppendLog inserts a request log row. The ID is assigned here if absent.
func (r *TelemetryRepository) AppendLog(ctx context.Context, entry *domain.RequestLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// IncrementCounter bumps the global request counter by one. The row is
// created on first use; the increment is a single UPDATE expression, so
// concurrent bumps never read stale values in-process. No transaction
// spans the create and update; last-write semantics are acceptable.
func (r *TelemetryRepository) IncrementCounter(ctx context.Context) error {
	db := r.db.WithContext(ctx)

	res := db.Model(&domain.RequestCounter{}).
		Where("id = ?", counterRowID).
		Update("count", gorm.Expr("count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// First request ever: seed the row. A concurrent seeder may win;
	// treat the conflict as an increment.
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("request_counter.count + 1")}),
	}).Create(&domain.RequestCounter{ID: counterRowID, Count: 1}).Error
	return err
}

// TotalRequests reads the global counter. Missing row means zero.
func (r *TelemetryRepository) TotalRequests(ctx context.Context) (int64, error) {
	var counter domain.RequestCounter
	err := r.db.WithContext(ctx).First(&counter, counterRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.Count, nil
}

// RecentLogs returns the most recent request log rows, newest first.
func (r *TelemetryRepository) RecentLogs(ctx context.Context, limit int) ([]domain.RequestLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var logs []domain.RequestLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
