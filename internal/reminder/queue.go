// Package reminder schedules delayed user reminders and the periodic
// "log today's footprint" nudge.
//
// Queue is an explicit delayed-task queue driven by an injected Clock, so
// tests advance time instead of sleeping. Periodic wraps robfig/cron for the
// recurring nudge. Both deliver through a Notifier.
package reminder

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrInvalidReminder is returned for an empty message or a negative delay.
var ErrInvalidReminder = errors.New("invalid reminder")

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in UTC.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })

// Notifier delivers a due reminder.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, r Reminder) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, r Reminder) error { return f(ctx, r) }

// LogNotifier writes reminders to the global logger.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(_ context.Context, r Reminder) error {
	log.Info().Str("reminder_id", r.ID).Str("message", r.Message).Time("due_at", r.DueAt).Msg("reminder")
	return nil
}

// Reminder is one scheduled message.
type Reminder struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	DueAt     time.Time `json:"dueAt"`
}

// Queue holds pending reminders ordered by due time.
type Queue struct {
	clock    Clock
	notifier Notifier

	mu      sync.Mutex
	pending []Reminder
}

// NewQueue returns an empty queue. Nil arguments select SystemClock and
// LogNotifier.
func NewQueue(clock Clock, notifier Notifier) *Queue {
	if clock == nil {
		clock = SystemClock
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Queue{clock: clock, notifier: notifier}
}

// Schedule enqueues message to fire after delay.
func (q *Queue) Schedule(message string, delay time.Duration) (Reminder, error) {
	message = strings.TrimSpace(message)
	if message == "" || delay < 0 {
		return Reminder{}, ErrInvalidReminder
	}
	now := q.clock.Now()
	r := Reminder{ID: uuid.NewString(), Message: message, CreatedAt: now, DueAt: now.Add(delay)}

	q.mu.Lock()
	defer q.mu.Unlock()
	// Insert after any reminder with the same due time to keep FIFO order.
	i := sort.Search(len(q.pending), func(i int) bool { return q.pending[i].DueAt.After(r.DueAt) })
	q.pending = append(q.pending, Reminder{})
	copy(q.pending[i+1:], q.pending[i:])
	q.pending[i] = r
	return r, nil
}

// Cancel removes a pending reminder and reports whether it was found.
func (q *Queue) Cancel(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, r := range q.pending {
		if r.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns a snapshot of queued reminders, soonest first.
func (q *Queue) Pending() []Reminder {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Reminder(nil), q.pending...)
}

// RunDue removes every reminder due at or before now, hands each to the
// notifier and returns how many were delivered successfully. A reminder
// whose delivery fails is logged and dropped.
func (q *Queue) RunDue(ctx context.Context) int {
	now := q.clock.Now()

	q.mu.Lock()
	n := sort.Search(len(q.pending), func(i int) bool { return q.pending[i].DueAt.After(now) })
	due := append([]Reminder(nil), q.pending[:n]...)
	q.pending = append(q.pending[:0], q.pending[n:]...)
	q.mu.Unlock()

	delivered := 0
	for _, r := range due {
		if err := q.notifier.Notify(ctx, r); err != nil {
			log.Warn().Err(err).Str("reminder_id", r.ID).Msg("reminder delivery failed")
			continue
		}
		delivered++
	}
	return delivered
}

// Run calls RunDue every tick until ctx is done.
func (q *Queue) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			q.RunDue(ctx)
		}
	}
}
