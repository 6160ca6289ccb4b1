// Package repo implements the data persistence layer backed by GORM. This
// file provides the key-value row functions used by kvstore.SQLStore.
//
// Functions:
//
//   - GetValue(ctx, db, key) -> (value, found, error)
//     Missing keys are reported with found=false and a nil error.
//
//   - PutValue(ctx, db, key, value) -> error
//     Inserts or replaces the row (upsert on the primary key).
//
//   - DeleteValue(ctx, db, key) -> error
//     Removes the row; deleting an absent key is not an error.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-eco-backend/internal/domain"
)

// ErrNotFound aliases gorm.ErrRecordNotFound for callers outside this package.
var ErrNotFound = gorm.ErrRecordNotFound

// GetValue loads the blob stored under key.
func GetValue(ctx context.Context, db *gorm.DB, key string) ([]byte, bool, error) {
	var row domain.KVEntry
	// Find instead of First keeps a missing key out of the GORM error log.
	res := db.WithContext(ctx).Where("key = ?", key).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return row.Value, true, nil
}

// PutValue stores value under key, replacing any previous value.
func PutValue(ctx context.Context, db *gorm.DB, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	row := &domain.KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error
}

// DeleteValue removes key.
func DeleteValue(ctx context.Context, db *gorm.DB, key string) error {
	return db.WithContext(ctx).Where("key = ?", key).Delete(&domain.KVEntry{}).Error
}

// ValueUpdatedAt returns when key was last written, or nil when absent. The
// HTTP layer derives weak ETags from it.
func ValueUpdatedAt(ctx context.Context, db *gorm.DB, key string) (*time.Time, error) {
	var row struct {
		UpdatedAt time.Time
	}
	res := db.WithContext(ctx).Model(&domain.KVEntry{}).
		Select("updated_at").Where("key = ?", key).Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row.UpdatedAt, nil
}
