package domain

import "time"

// KVEntry is one row of the SQLite-backed key-value store. The history log
// lives in a single row addressed by its fixed key.
type KVEntry struct {
	Key       string    `gorm:"type:varchar(128);primaryKey"`
	Value     []byte    `gorm:"type:blob;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name for KVEntry.
func (KVEntry) TableName() string { return "kv_entries" }
