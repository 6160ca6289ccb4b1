package kvstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-eco-backend/internal/repo"
)

// SQLStore keeps blobs in the kv_entries table.
type SQLStore struct {
	DB *gorm.DB
}

// NewSQLStore wraps an already migrated database handle.
func NewSQLStore(db *gorm.DB) *SQLStore { return &SQLStore{DB: db} }

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return repo.GetValue(ctx, s.DB, key)
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	return repo.PutValue(ctx, s.DB, key, value)
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	return repo.DeleteValue(ctx, s.DB, key)
}

// UpdatedAt implements Versioned.
func (s *SQLStore) UpdatedAt(ctx context.Context, key string) (*time.Time, error) {
	return repo.ValueUpdatedAt(ctx, s.DB, key)
}
