// Package kvstore is the key-value persistence collaborator behind the
// history log. Values are opaque blobs; a missing key is reported with
// found=false rather than an error.
package kvstore

import (
	"context"
	"time"
)

// Store reads and writes opaque blobs by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Versioned is implemented by stores that can report when a key last
// changed. The HTTP layer uses it for weak ETags.
type Versioned interface {
	UpdatedAt(ctx context.Context, key string) (*time.Time, error)
}
