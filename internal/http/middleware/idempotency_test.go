package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type memIdem struct {
	mu      sync.Mutex
	data    map[string]StoredResponse
	lookErr error
	saves   int
}

func newMemIdem() *memIdem { return &memIdem{data: map[string]StoredResponse{}} }

func (m *memIdem) Lookup(_ context.Context, scope, key string, _ time.Time) (*StoredResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookErr != nil {
		return nil, m.lookErr
	}
	if r, ok := m.data[scope+"|"+key]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *memIdem) Save(_ context.Context, scope, key string, resp StoredResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.data[scope+"|"+key] = resp
	return nil
}

func idemRouter(store IdempotencyStore, calls *int, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Idempotency(store, IdempotencyOptions{}))
	r.POST("/footprints", func(c *gin.Context) {
		*calls++
		c.JSON(status, gin.H{"n": *calls})
	})
	return r
}

func post(r http.Handler, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/footprints", strings.NewReader("{}"))
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	store := newMemIdem()
	calls := 0
	r := idemRouter(store, &calls, http.StatusCreated)

	first := post(r, "k-1")
	second := post(r, "k-1")

	if calls != 1 {
		t.Fatalf("handler ran %d times", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Fatalf("replay mismatch: %d %q vs %q", second.Code, second.Body.String(), first.Body.String())
	}
	if second.Header().Get(HeaderReplayed) != "true" || first.Header().Get(HeaderReplayed) != "" {
		t.Fatalf("replay header wrong")
	}
	if _, ok := store.data["POST /footprints|k-1"]; !ok {
		t.Fatalf("scope not method+route: %v", store.data)
	}
}

func TestIdempotency_NoKeyAlwaysRuns(t *testing.T) {
	store := newMemIdem()
	calls := 0
	r := idemRouter(store, &calls, http.StatusCreated)
	post(r, "")
	post(r, "")
	if calls != 2 || store.saves != 0 {
		t.Fatalf("calls=%d saves=%d", calls, store.saves)
	}
}

func TestIdempotency_Non2xxNotStored(t *testing.T) {
	store := newMemIdem()
	calls := 0
	r := idemRouter(store, &calls, http.StatusBadRequest)
	post(r, "k-2")
	post(r, "k-2")
	if calls != 2 || store.saves != 0 {
		t.Fatalf("calls=%d saves=%d", calls, store.saves)
	}
}

func TestIdempotency_SkippedSaveRunsAgain(t *testing.T) {
	store := newMemIdem()
	calls := 0
	r := gin.New()
	r.Use(Idempotency(store, IdempotencyOptions{}))
	r.POST("/footprints", func(c *gin.Context) {
		calls++
		SkipIdempotentSave(c)
		c.JSON(http.StatusOK, gin.H{"saved": false})
	})
	post(r, "k-3")
	second := post(r, "k-3")
	if calls != 2 || store.saves != 0 || second.Header().Get(HeaderReplayed) != "" {
		t.Fatalf("calls=%d saves=%d", calls, store.saves)
	}
}

func TestIdempotency_InvalidKey(t *testing.T) {
	calls := 0
	r := idemRouter(newMemIdem(), &calls, http.StatusCreated)
	w := post(r, "has space")
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "bad_idempotency_key") {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
	w = post(r, strings.Repeat("a", 201))
	if w.Code != http.StatusBadRequest || calls != 0 {
		t.Fatalf("long key accepted")
	}
}

func TestIdempotency_LookupErrorFallsThrough(t *testing.T) {
	captureLogger(t)
	store := newMemIdem()
	store.lookErr = errors.New("db down")
	calls := 0
	r := idemRouter(store, &calls, http.StatusCreated)
	if w := post(r, "k-3"); w.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("code=%d calls=%d", w.Code, calls)
	}
}

func TestHelpers_KeyAndReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := GetIdempotencyKey(c); ok || IsReplay(c) {
		t.Fatal("expected empty defaults")
	}
	c.Set(ctxKeyIdemKey, "abc")
	c.Set(ctxKeyIdemReplay, true)
	if k, ok := GetIdempotencyKey(c); !ok || k != "abc" || !IsReplay(c) {
		t.Fatal("helpers did not read context")
	}
}
