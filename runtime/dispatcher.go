// Package runtime handles trigger propagation and background workers.
// It orchestrates the system without containing routing or ledger rules.
package runtime

import (
	"fmt"
	"log/slog"

	"courier-lab/domain"
)

// Dispatcher owns the bounded bot-trigger queue. Dispatch never blocks
// the send path: when the queue is full the trigger is dropped with a
// warning, because bot replies are best-effort by contract.
type Dispatcher struct {
	log      *slog.Logger
	triggers chan domain.BotTrigger
}

func NewDispatcher(log *slog.Logger, bufferSize int) *Dispatcher {
	return &Dispatcher{
		log:      log,
		triggers: make(chan domain.BotTrigger, bufferSize),
	}
}

// Dispatch enqueues one trigger, non-blocking.
func (d *Dispatcher) Dispatch(trigger domain.BotTrigger) {
	select {
	case d.triggers <- trigger:
	default:
		d.log.Warn(fmt.Sprintf("Trigger queue full for conversation %s, dropping trigger", trigger.ConversationID))
	}
}

// Triggers exposes the queue to the consuming worker.
func (d *Dispatcher) Triggers() chan domain.BotTrigger {
	return d.triggers
}

// QueueDepth reports the current backlog, for telemetry.
func (d *Dispatcher) QueueDepth() int {
	return len(d.triggers)
}

// Close seals the queue once no more sends can happen.
func (d *Dispatcher) Close() {
	close(d.triggers)
}
