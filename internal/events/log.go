package events

import (
	"context"

	"github.com/rs/zerolog"
)

// LogPublisher writes each computed event as a structured log line.
type LogPublisher struct {
	Logger zerolog.Logger
}

// OnComputed implements Observer.
func (p LogPublisher) OnComputed(_ context.Context, ev ComputedEvent) error {
	p.Logger.Info().
		Time("timestamp", ev.Result.Timestamp).
		Float64("total_g", ev.Result.TotalGramsCO2).
		Str("tier", string(ev.Result.Tier)).
		Str("transport", string(ev.Result.TransportMode)).
		Bool("saved", ev.Saved).
		Msg("footprint computed")
	return nil
}
