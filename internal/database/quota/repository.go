// Package quota stores the daily import counter in the application database.
//
//	var _ quota.Store = (*Repository)(nil)
package quota

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/annuaire-qc/directory/internal/entities"
	usage "github.com/annuaire-qc/directory/internal/quota"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Increment adds one import to the day's counter in a single upsert and
// returns the new value. The read-back runs in the same transaction so it
// observes this increment.
func (r *Repository) Increment(ctx context.Context, date string) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		row := entities.ImportQuota{Date: date, ImportsCount: 1, UpdatedAt: now}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"imports_count": gorm.Expr("imports_count + 1"),
				"updated_at":    now,
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		var current entities.ImportQuota
		if err := tx.Where("date = ?", date).First(&current).Error; err != nil {
			return err
		}
		count = current.ImportsCount
		return nil
	})
	return count, err
}

// Count returns the day's counter, zero when nothing was recorded yet.
func (r *Repository) Count(ctx context.Context, date string) (int, error) {
	var row entities.ImportQuota
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.ImportsCount, nil
}

// History returns the recorded days on or after since, newest first.
func (r *Repository) History(ctx context.Context, since string) ([]usage.DayUsage, error) {
	var rows []entities.ImportQuota
	err := r.db.WithContext(ctx).Where("date >= ?", since).Order("date DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]usage.DayUsage, len(rows))
	for i, row := range rows {
		out[i] = usage.DayUsage{Date: row.Date, Imports: row.ImportsCount}
	}
	return out, nil
}
