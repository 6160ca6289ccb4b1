// Package middleware contains the Gin middleware shared by every route.
//
// Idempotency makes retried POSTs safe. A client sends Idempotency-Key; the
// first successful (2xx) response for (route, key) is stored and any retry
// inside the TTL receives the stored status and body verbatim, with
// Idempotent-Replayed: true, without running the handler again. For
// POST /footprints this means a retried submission never appends a second
// history entry.
package middleware

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderIdempotencyKey carries the client-chosen key.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderReplayed is set on responses served from a stored record.
	HeaderReplayed = "Idempotent-Replayed"

	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyIdemSkip   = "idem.skip"
)

// StoredResponse is a previously recorded response.
type StoredResponse struct {
	Status int
	Body   []byte
}

// IdempotencyStore persists responses per (scope, key). Lookup returns
// (nil, nil) when nothing valid is stored.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string, now time.Time) (*StoredResponse, error)
	Save(ctx context.Context, scope, key string, resp StoredResponse) error
}

// IdempotencyOptions configures key validation.
type IdempotencyOptions struct {
	// MaxLen caps the key length; <= 0 selects 200.
	MaxLen int
	// Pattern restricts key characters; nil selects ^[A-Za-z0-9._~:-]+$.
	Pattern *regexp.Regexp
}

// GetIdempotencyKey returns the validated key for this request.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// IsReplay reports whether the response was served from a stored record.
func IsReplay(c *gin.Context) bool { return c.GetBool(ctxKeyIdemReplay) }

// SkipIdempotentSave keeps the current response out of the replay store
// even when it succeeds, so a retry with the same key runs the handler again.
func SkipIdempotentSave(c *gin.Context) { c.Set(ctxKeyIdemSkip, true) }

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency returns the middleware. Only POST requests that carry the header
// are affected. Store failures never fail the request; they are logged and
// the handler runs normally.
func Idempotency(store IdempotencyStore, opts IdempotencyOptions) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~:-]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		scope := c.Request.Method + " " + c.FullPath()
		if c.FullPath() == "" {
			scope = c.Request.Method + " " + c.Request.URL.Path
		}
		ctx := c.Request.Context()

		prev, err := store.Lookup(ctx, scope, key, time.Now().UTC())
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
		}
		if prev != nil {
			c.Set(ctxKeyIdemReplay, true)
			c.Header(HeaderReplayed, "true")
			c.Data(prev.Status, "application/json; charset=utf-8", prev.Body)
			c.Abort()
			return
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Next()

		status := cw.Status()
		if status < 200 || status >= 300 || c.GetBool(ctxKeyIdemSkip) {
			return
		}
		if err := store.Save(ctx, scope, key, StoredResponse{Status: status, Body: cw.buf.Bytes()}); err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("idempotency save failed")
		}
	}
}
