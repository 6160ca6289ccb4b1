// Package events delivers the post-computation notification raised after a
// footprint is computed. Subscribers implement Observer; Dispatcher fans a
// single event out to all of them.
package events

import (
	"context"
	"errors"

	"github.com/tbourn/go-eco-backend/internal/domain"
)

// ComputedEvent is raised once per Compute call, after the append attempt.
// Saved is false when the history log could not persist the result.
type ComputedEvent struct {
	Result domain.FootprintResult `json:"result"`
	Saved  bool                   `json:"saved"`
}

// Observer receives computed events. Implementations must be safe for
// concurrent use.
type Observer interface {
	OnComputed(ctx context.Context, ev ComputedEvent) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev ComputedEvent) error

// OnComputed calls f.
func (f ObserverFunc) OnComputed(ctx context.Context, ev ComputedEvent) error { return f(ctx, ev) }

// Dispatcher fans events out to every observer in registration order. Every
// observer is called even if an earlier one fails; the failures are joined.
type Dispatcher struct {
	observers []Observer
}

// NewDispatcher builds a dispatcher over obs, skipping nil entries.
func NewDispatcher(obs ...Observer) *Dispatcher {
	d := &Dispatcher{}
	for _, o := range obs {
		d.Add(o)
	}
	return d
}

// Add registers o. Not safe to call concurrently with OnComputed.
func (d *Dispatcher) Add(o Observer) {
	if o != nil {
		d.observers = append(d.observers, o)
	}
}

// Len reports the number of registered observers.
func (d *Dispatcher) Len() int { return len(d.observers) }

// OnComputed implements Observer.
func (d *Dispatcher) OnComputed(ctx context.Context, ev ComputedEvent) error {
	var errs []error
	for _, o := range d.observers {
		if err := o.OnComputed(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
