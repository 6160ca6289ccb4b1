package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultNudge is the message sent by the periodic job.
const DefaultNudge = "Time to log today's eco footprint."

// Periodic sends Message through Notifier on a cron schedule.
type Periodic struct {
	Spec     string
	Message  string
	Notifier Notifier
	Clock    Clock

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPeriodic prepares a job for spec (standard 5-field cron or a descriptor
// such as "@every 2h"). Nothing runs until Start.
func NewPeriodic(spec, message string, n Notifier) *Periodic {
	if message == "" {
		message = DefaultNudge
	}
	if n == nil {
		n = LogNotifier{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Periodic{
		Spec:     spec,
		Message:  message,
		Notifier: n,
		Clock:    SystemClock,
		cron:     cron.New(cron.WithLocation(time.UTC)),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start registers the job and starts the cron loop.
func (p *Periodic) Start() error {
	if _, err := p.cron.AddFunc(p.Spec, p.fire); err != nil {
		return fmt.Errorf("failed to add cron job %q: %w", p.Spec, err)
	}
	p.cron.Start()
	log.Info().Str("spec", p.Spec).Msg("periodic reminder started")
	return nil
}

// Stop waits for a running job to finish and cancels its context.
func (p *Periodic) Stop() {
	<-p.cron.Stop().Done()
	p.cancel()
	log.Info().Msg("periodic reminder stopped")
}

// Next reports the next activation, or the zero time when not started.
func (p *Periodic) Next() time.Time {
	entries := p.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (p *Periodic) fire() {
	now := p.Clock.Now()
	r := Reminder{ID: "periodic", Message: p.Message, CreatedAt: now, DueAt: now}
	if err := p.Notifier.Notify(p.ctx, r); err != nil {
		log.Warn().Err(err).Msg("periodic reminder failed")
	}
}
