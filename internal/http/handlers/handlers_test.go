package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-eco-backend/internal/history"
	"github.com/tbourn/go-eco-backend/internal/kvstore"
	"github.com/tbourn/go-eco-backend/internal/reminder"
	"github.com/tbourn/go-eco-backend/internal/services"
)

var fixedNow = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

type stubAssistant struct {
	reply string
	err   error
	got   string
}

func (s *stubAssistant) Reply(_ context.Context, prompt string) (string, error) {
	s.got = prompt
	return s.reply, s.err
}

type failingSetStore struct{ kvstore.Store }

func (failingSetStore) Set(context.Context, string, []byte) error { return errors.New("disk full") }

type env struct {
	r     *gin.Engine
	store kvstore.Store
	fp    *services.FootprintService
	asst  *stubAssistant
	queue *reminder.Queue
}

func newEnv(t *testing.T, store kvstore.Store) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fp := services.NewFootprintService(history.New(store, ""), nil)
	fp.Estimator.Now = func() time.Time { return fixedNow }
	asst := &stubAssistant{reply: "Take the bus."}
	q := reminder.NewQueue(reminder.ClockFunc(func() time.Time { return fixedNow }), reminder.LogNotifier{})
	h := New(fp, asst, q)

	r := gin.New()
	r.POST("/footprints", h.ComputeFootprint)
	r.POST("/footprints/estimate", h.EstimateFootprint)
	r.GET("/history", h.ListHistory)
	r.GET("/history/table", h.HistoryTable)
	r.GET("/history/chart", h.HistoryChart)
	r.GET("/history/summary", h.HistorySummary)
	r.GET("/history/export", h.ExportHistory)
	r.DELETE("/history", h.ClearHistory)
	r.POST("/assistant/chat", h.AssistantChat)
	r.GET("/reminders", h.ListReminders)
	r.POST("/reminders", h.ScheduleReminder)
	r.DELETE("/reminders/:id", h.CancelReminder)
	return &env{r: r, store: store, fp: fp, asst: asst, queue: q}
}

func (e *env) do(method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

const carJSON = `{
  "electricityKWhPerMonth": 90,
  "waterLitresPerDay": "100",
  "distanceKmPerDay": 12,
  "transportMode": "Car",
  "treesOwned": 1,
  "hasSolar": false,
  "segregatesWaste": "no",
  "reusesItems": "no",
  "lightUsageDiscipline": "never"
}`

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("json: %v body=%s", err, w.Body.String())
	}
	return v
}
