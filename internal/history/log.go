// Package history implements the append-only footprint log persisted as a
// single JSON array under one fixed key of a kvstore.Store.
//
// Entries are never edited or removed individually; the only mutations are
// Append (adds at the end) and Clear (empties the log). A stored blob that
// cannot be decoded is treated as an empty log and overwritten by the next
// Append.
//
// Concurrency: Append serializes read-modify-write within the process. Two
// processes sharing one store (for example two instances on one Redis) are
// not coordinated, so the last writer wins on the whole stored sequence.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-eco-backend/internal/domain"
	"github.com/tbourn/go-eco-backend/internal/kvstore"
)

// DefaultKey is the store key the log lives under.
const DefaultKey = "ecoHistory"

// ErrPersistence reports that the store could not read or durably write the
// log. An Append that fails with it did not save the entry.
var ErrPersistence = errors.New("history persistence failed")

// Log is the history log bound to one store key.
type Log struct {
	Store kvstore.Store
	Key   string

	mu sync.Mutex
}

// New returns a Log over store. An empty key selects DefaultKey.
func New(store kvstore.Store, key string) *Log {
	if key == "" {
		key = DefaultKey
	}
	return &Log{Store: store, Key: key}
}

// Append adds result at the end of the log.
func (l *Log) Append(ctx context.Context, result domain.FootprintResult) error {
	ctx, span := otel.Tracer("history").Start(ctx, "Log.Append")
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	entries = append(entries, result)

	blob, err := Encode(entries)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}
	if err := l.Store.Set(ctx, l.Key, blob); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	span.SetAttributes(attribute.Int("history.len", len(entries)))
	return nil
}

// ReadAll returns every entry, oldest first. An absent or undecodable blob
// yields an empty slice.
func (l *Log) ReadAll(ctx context.Context) ([]domain.FootprintResult, error) {
	ctx, span := otel.Tracer("history").Start(ctx, "Log.ReadAll")
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// Clear empties the log. The stored key is removed.
func (l *Log) Clear(ctx context.Context) error {
	ctx, span := otel.Tracer("history").Start(ctx, "Log.Clear")
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.Store.Delete(ctx, l.Key); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Export returns the stored serialization byte for byte. It returns "[]"
// when nothing is stored or the blob is corrupt.
func (l *Log) Export(ctx context.Context) ([]byte, error) {
	ctx, span := otel.Tracer("history").Start(ctx, "Log.Export")
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	blob, ok, err := l.Store.Get(ctx, l.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return []byte("[]"), nil
	}
	if _, err := Decode(blob); err != nil {
		log.Warn().Err(err).Str("key", l.Key).Msg("history: corrupt blob, exporting empty log")
		return []byte("[]"), nil
	}
	return blob, nil
}

func (l *Log) load(ctx context.Context) ([]domain.FootprintResult, error) {
	blob, ok, err := l.Store.Get(ctx, l.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return []domain.FootprintResult{}, nil
	}
	entries, err := Decode(blob)
	if err != nil {
		log.Warn().Err(err).Str("key", l.Key).Int("bytes", len(blob)).
			Msg("history: corrupt blob, treating log as empty")
		return []domain.FootprintResult{}, nil
	}
	return entries, nil
}

// Encode serializes entries in the stored format. A nil slice encodes as [].
func Encode(entries []domain.FootprintResult) ([]byte, error) {
	if entries == nil {
		entries = []domain.FootprintResult{}
	}
	return json.Marshal(entries)
}

// Decode parses the stored format. A JSON null decodes to an empty slice.
func Decode(blob []byte) ([]domain.FootprintResult, error) {
	var entries []domain.FootprintResult
	if err := json.Unmarshal(blob, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.FootprintResult{}
	}
	return entries, nil
}
