package workers

import (
	"context"
	"log/slog"
	"time"

	"courier-lab/contract"
	"courier-lab/domain"
	"courier-lab/observability"
)

// Ensure *BotDispatchWorker implements the contract.Worker interface at
// compile time.
var _ contract.Worker = (*BotDispatchWorker)(nil)

// BotDispatchWorker drains the trigger queue and notifies the automated
// responder collaborator. Fire-and-forget: each trigger is independent,
// failures are logged, nothing is retried and nothing reaches back into
// the request lifecycle.
type BotDispatchWorker struct {
	responder contract.ResponderClient
	triggers  chan domain.BotTrigger
	timeout   time.Duration
	stats     *observability.DeliveryStats
	log       *slog.Logger
}

func NewBotDispatchWorker(
	responder contract.ResponderClient,
	triggers chan domain.BotTrigger,
	timeout time.Duration,
	stats *observability.DeliveryStats,
	log *slog.Logger) *BotDispatchWorker {
	return &BotDispatchWorker{
		responder: responder,
		triggers:  triggers,
		timeout:   timeout,
		stats:     stats,
		log:       log,
	}
}

func (w *BotDispatchWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case trigger, ok := <-w.triggers:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.fire(ctx, trigger)
		}
	}
}

// drain fires whatever is already buffered before stopping. Each call
// gets a fresh timeout since the run context is already canceled.
func (w *BotDispatchWorker) drain() {
	for {
		select {
		case trigger, ok := <-w.triggers:
			if !ok {
				return
			}
			w.fire(context.Background(), trigger)
		default:
			return
		}
	}
}

func (w *BotDispatchWorker) fire(ctx context.Context, trigger domain.BotTrigger) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.responder.Trigger(ctx, trigger); err != nil {
		w.stats.BotFailures.Add(1)
		w.log.Warn("Bot trigger failed",
			"conversation", trigger.ConversationID,
			"bot", trigger.BotID,
			"error", err)
		return
	}
	w.stats.BotTriggers.Add(1)
}
