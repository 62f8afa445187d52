package workers

import (
	"context"
	"log/slog"
	"time"

	"courier-lab/contract"
	"courier-lab/observability"
	"courier-lab/runtime"
)

var _ contract.Worker = (*TelemetryWorker)(nil)

// TelemetryWorker periodically refreshes the delivery snapshot so the
// health endpoint serves fresh numbers without touching the counters.
type TelemetryWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	stats          *observability.DeliveryStats
	dispatcher     *runtime.Dispatcher
}

func NewTelemetryWorker(log *slog.Logger,
	metricInterval time.Duration,
	stats *observability.DeliveryStats,
	dispatcher *runtime.Dispatcher) *TelemetryWorker {
	return &TelemetryWorker{
		log:            log,
		metricInterval: metricInterval,
		stats:          stats,
		dispatcher:     dispatcher,
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case <-ticker.C:
			w.stats.Refresh(w.dispatcher.QueueDepth())
		}
	}
}
