package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tbourn/go-eco-backend/internal/domain"
	"github.com/tbourn/go-eco-backend/internal/events"
	"github.com/tbourn/go-eco-backend/internal/history"
	"github.com/tbourn/go-eco-backend/internal/kvstore"
)

type brokenStore struct {
	kvstore.Store
	setErr error
}

func (b brokenStore) Set(context.Context, string, []byte) error { return b.setErr }

type captured struct {
	mu  sync.Mutex
	evs []events.ComputedEvent
}

func (c *captured) OnComputed(_ context.Context, ev events.ComputedEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evs = append(c.evs, ev)
	return nil
}

var fixedNow = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

func newService(store kvstore.Store, obs events.Observer) *FootprintService {
	s := NewFootprintService(history.New(store, ""), obs)
	s.Estimator.Now = func() time.Time { return fixedNow }
	return s
}

func carInput() domain.FootprintInput {
	return domain.FootprintInput{
		ElectricityKWhPerMonth: 90,
		WaterLitresPerDay:      100,
		DistanceKmPerDay:       12,
		TransportMode:          domain.TransportCar,
		TreesOwned:             1,
		LightUsageDiscipline:   domain.LightsNever,
	}
}

func TestCompute_AppendsAndNotifies(t *testing.T) {
	obs := &captured{}
	s := newService(kvstore.NewMemoryStore(), obs)
	ctx := context.Background()

	res, err := s.Compute(ctx, carInput())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !res.Timestamp.Equal(fixedNow) || res.TotalGramsCO2 <= 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	all, _ := s.History(ctx)
	if len(all) != 1 || all[0].TotalGramsCO2 != res.TotalGramsCO2 {
		t.Fatalf("expected result appended, got %+v", all)
	}
	if len(obs.evs) != 1 || !obs.evs[0].Saved {
		t.Fatalf("expected one saved event, got %+v", obs.evs)
	}
}

func TestCompute_PersistenceFailureStillReturnsResult(t *testing.T) {
	obs := &captured{}
	s := newService(brokenStore{Store: kvstore.NewMemoryStore(), setErr: errors.New("quota")}, obs)

	res, err := s.Compute(context.Background(), carInput())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if res.TotalGramsCO2 <= 0 || res.Tier == "" {
		t.Fatalf("result should still be returned, got %+v", res)
	}
	if len(obs.evs) != 1 || obs.evs[0].Saved {
		t.Fatalf("expected unsaved event, got %+v", obs.evs)
	}
}

func TestCompute_InvalidInputNoSideEffects(t *testing.T) {
	obs := &captured{}
	s := newService(kvstore.NewMemoryStore(), obs)
	in := carInput()
	in.WaterLitresPerDay = -1

	if _, err := s.Compute(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	all, _ := s.History(context.Background())
	if len(all) != 0 || len(obs.evs) != 0 {
		t.Fatal("invalid input must not append or notify")
	}
}

func TestEstimate_DoesNotPersist(t *testing.T) {
	obs := &captured{}
	s := newService(kvstore.NewMemoryStore(), obs)
	if _, err := s.Estimate(context.Background(), carInput()); err != nil {
		t.Fatalf("estimate: %v", err)
	}
	all, _ := s.History(context.Background())
	if len(all) != 0 || len(obs.evs) != 0 {
		t.Fatal("estimate must be side-effect free")
	}
}

func TestHistoryPage(t *testing.T) {
	s := newService(kvstore.NewMemoryStore(), nil)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		in := carInput()
		in.DistanceKmPerDay = float64(i)
		_, _ = s.Compute(ctx, in)
	}

	items, total, err := s.HistoryPage(ctx, 2, 2)
	if err != nil || total != 5 || len(items) != 2 || items[0].DistanceKmPerDay != 2 {
		t.Fatalf("unexpected page: items=%+v total=%d err=%v", items, total, err)
	}
	items, _, _ = s.HistoryPage(ctx, 3, 2)
	if len(items) != 1 || items[0].DistanceKmPerDay != 4 {
		t.Fatalf("unexpected last page: %+v", items)
	}
	items, _, _ = s.HistoryPage(ctx, 9, 2)
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty page beyond end, got %+v", items)
	}
	items, _, _ = s.HistoryPage(ctx, 0, 0)
	if len(items) != 5 {
		t.Fatalf("defaults should return the first 20, got %d", len(items))
	}
}

func TestProjectionsAndClear(t *testing.T) {
	s := newService(kvstore.NewMemoryStore(), nil)
	ctx := context.Background()
	_, _ = s.Compute(ctx, carInput())
	_, _ = s.Compute(ctx, carInput())

	rows, _ := s.Table(ctx)
	pts, _ := s.Chart(ctx)
	sum, _ := s.Summary(ctx)
	if len(rows) != 2 || len(pts) != 2 || sum.Count != 2 {
		t.Fatalf("unexpected projections: %d rows, %d points, %+v", len(rows), len(pts), sum)
	}
	latest, err := s.Latest(ctx)
	if err != nil || latest == nil {
		t.Fatalf("expected latest, got %v %v", latest, err)
	}

	blob, err := s.Export(ctx)
	if err != nil || len(blob) < 2 || blob[0] != '[' {
		t.Fatalf("unexpected export: %s %v", blob, err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if latest, _ := s.Latest(ctx); latest != nil {
		t.Fatal("expected no latest after clear")
	}
}

func TestVersion(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	s := newService(store, nil)

	n, stamp, err := s.Version(ctx)
	if err != nil || n != 0 || stamp != 0 {
		t.Fatalf("empty log: %d %d %v", n, stamp, err)
	}
	_, _ = s.Compute(ctx, carInput())
	n, stamp, _ = s.Version(ctx)
	if n != 1 || stamp != fixedNow.UnixNano() {
		t.Fatalf("expected stamp from latest entry, got %d %d", n, stamp)
	}

	s.Versions, s.Key = store, history.DefaultKey
	_, stamp2, _ := s.Version(ctx)
	if stamp2 == 0 || stamp2 == stamp {
		t.Fatalf("expected store write time, got %d", stamp2)
	}
}
