// Package services – FootprintService
//
// FootprintService is the context object constructed once at startup and
// handed to the HTTP layer. It owns the estimator, the history log and the
// observers that receive the post-computation event. All public methods are
// OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-eco-backend/internal/domain"
	"github.com/tbourn/go-eco-backend/internal/events"
	"github.com/tbourn/go-eco-backend/internal/footprint"
	"github.com/tbourn/go-eco-backend/internal/history"
	"github.com/tbourn/go-eco-backend/internal/kvstore"
	"github.com/tbourn/go-eco-backend/internal/utils"
)

// HistoryLog is the subset of *history.Log used by the service.
type HistoryLog interface {
	Append(ctx context.Context, r domain.FootprintResult) error
	ReadAll(ctx context.Context) ([]domain.FootprintResult, error)
	Clear(ctx context.Context) error
	Export(ctx context.Context) ([]byte, error)
}

// FootprintService computes footprints and serves the history log.
type FootprintService struct {
	Estimator *footprint.Estimator
	Log       HistoryLog
	Observer  events.Observer

	// Versions, when set, supplies the store's last-write time for ETags.
	Versions kvstore.Versioned
	Key      string
}

// NewFootprintService wires the default estimator to log. A nil observer
// disables event delivery.
func NewFootprintService(log HistoryLog, obs events.Observer) *FootprintService {
	return &FootprintService{Estimator: footprint.New(), Log: log, Observer: obs}
}

// Compute estimates in, appends the result to the history log and raises a
// ComputedEvent. When the append fails the result is still returned together
// with an error matching ErrPersistence.
func (s *FootprintService) Compute(ctx context.Context, in domain.FootprintInput) (domain.FootprintResult, error) {
	ctx, span := otel.Tracer("services/FootprintService").Start(ctx, "Compute",
		trace.WithAttributes(attribute.String("transport.mode", string(in.TransportMode))),
	)
	defer span.End()

	res, err := s.Estimator.Estimate(in)
	if err != nil {
		return domain.FootprintResult{}, err
	}
	span.SetAttributes(
		attribute.Float64("footprint.total_g", res.TotalGramsCO2),
		attribute.String("footprint.tier", string(res.Tier)),
	)

	saveErr := s.Log.Append(ctx, res)
	if saveErr != nil {
		span.RecordError(saveErr)
		log.Warn().Err(saveErr).Msg("footprint computed but not saved")
	}

	if s.Observer != nil {
		ev := events.ComputedEvent{Result: res, Saved: saveErr == nil}
		if err := s.Observer.OnComputed(ctx, ev); err != nil {
			log.Warn().Err(err).Msg("footprint observer failed")
		}
	}

	if saveErr != nil && !errors.Is(saveErr, ErrPersistence) {
		saveErr = errors.Join(ErrPersistence, saveErr)
	}
	return res, saveErr
}

// Estimate computes a result without saving it or raising an event.
func (s *FootprintService) Estimate(ctx context.Context, in domain.FootprintInput) (domain.FootprintResult, error) {
	_, span := otel.Tracer("services/FootprintService").Start(ctx, "Estimate")
	defer span.End()
	return s.Estimator.Estimate(in)
}

// History returns the full log, oldest first.
func (s *FootprintService) History(ctx context.Context) ([]domain.FootprintResult, error) {
	ctx, span := otel.Tracer("services/FootprintService").Start(ctx, "History")
	defer span.End()
	return s.Log.ReadAll(ctx)
}

// HistoryPage returns one page of the log plus the total entry count. Pages
// are 1-based; invalid values fall back to page 1 and 20 items.
func (s *FootprintService) HistoryPage(ctx context.Context, page, pageSize int) ([]domain.FootprintResult, int, error) {
	ctx, span := otel.Tracer("services/FootprintService").Start(ctx, "HistoryPage",
		trace.WithAttributes(attribute.Int("page", page), attribute.Int("page_size", pageSize)),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	all, err := s.Log.ReadAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := len(all)
	start, end := utils.PageBounds(total, page, pageSize)
	if start == end {
		return []domain.FootprintResult{}, total, nil
	}
	return all[start:end], total, nil
}

// Latest returns the most recent entry, or nil when the log is empty.
func (s *FootprintService) Latest(ctx context.Context) (*domain.FootprintResult, error) {
	all, err := s.Log.ReadAll(ctx)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	r := all[len(all)-1]
	return &r, nil
}

// Table returns the table projection of the log.
func (s *FootprintService) Table(ctx context.Context) ([]history.TableRow, error) {
	all, err := s.History(ctx)
	if err != nil {
		return nil, err
	}
	return history.TableRows(all), nil
}

// Chart returns the chart projection of the log.
func (s *FootprintService) Chart(ctx context.Context) ([]history.ChartPoint, error) {
	all, err := s.History(ctx)
	if err != nil {
		return nil, err
	}
	return history.ChartSeries(all), nil
}

// Summary aggregates the log.
func (s *FootprintService) Summary(ctx context.Context) (history.Summary, error) {
	all, err := s.History(ctx)
	if err != nil {
		return history.Summary{}, err
	}
	return history.Summarize(all), nil
}

// Clear empties the log.
func (s *FootprintService) Clear(ctx context.Context) error {
	ctx, span := otel.Tracer("services/FootprintService").Start(ctx, "Clear")
	defer span.End()
	return s.Log.Clear(ctx)
}

// Export returns the stored serialization of the log.
func (s *FootprintService) Export(ctx context.Context) ([]byte, error) {
	ctx, span := otel.Tracer("services/FootprintService").Start(ctx, "Export")
	defer span.End()
	return s.Log.Export(ctx)
}

// Version returns the entry count and a change stamp for the log. The stamp
// is the store's last-write time when Versions is set, otherwise the latest
// entry's timestamp.
func (s *FootprintService) Version(ctx context.Context) (int, int64, error) {
	all, err := s.Log.ReadAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	var stamp time.Time
	if s.Versions != nil {
		ts, err := s.Versions.UpdatedAt(ctx, s.Key)
		if err != nil {
			return 0, 0, err
		}
		if ts != nil {
			stamp = *ts
		}
	} else if len(all) > 0 {
		stamp = all[len(all)-1].Timestamp
	}
	if stamp.IsZero() {
		return len(all), 0, nil
	}
	return len(all), stamp.UnixNano(), nil
}
