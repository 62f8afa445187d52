// Package observability aggregates delivery metrics for the health
// endpoint and the telemetry worker. Counters are atomic so the send
// path never takes a lock to report progress.
package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/shirou/gopsutil/process"
)

// Snapshot is the aggregated view served on /healthz.
type Snapshot struct {
	MessagesRouted    uint64  `json:"messages_routed"`
	ExternalDelivered uint64  `json:"external_delivered"`
	CreditDebits      uint64  `json:"credit_debits"`
	NoCreditSkips     uint64  `json:"no_credit_skips"`
	FallbackFailures  uint64  `json:"fallback_failures"`
	BotTriggers       uint64  `json:"bot_triggers"`
	BotFailures       uint64  `json:"bot_failures"`
	TriggerQueueSize  int     `json:"trigger_queue_size"`
	AllocMemMb        uint64  `json:"alloc_mem_mb"`
	RSSBytes          uint64  `json:"rss_bytes"`
	CPUPercent        float64 `json:"cpu_percent"`
	NumGC             uint32  `json:"num_gc"`
}

// DeliveryStats collects counters from the router and the workers.
type DeliveryStats struct {
	MessagesRouted    atomic.Uint64
	ExternalDelivered atomic.Uint64
	CreditDebits      atomic.Uint64
	NoCreditSkips     atomic.Uint64
	FallbackFailures  atomic.Uint64
	BotTriggers       atomic.Uint64
	BotFailures       atomic.Uint64

	log  *slog.Logger
	mu   sync.RWMutex
	last Snapshot
	proc *process.Process
}

func NewDeliveryStats(log *slog.Logger) *DeliveryStats {
	// Self-inspection failures only degrade the snapshot, never startup.
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Process self-inspection unavailable", "error", err)
	}
	return &DeliveryStats{log: log, proc: proc}
}

// Refresh recomputes the snapshot, called by the telemetry worker.
// queueDepth comes from the dispatcher.
func (s *DeliveryStats) Refresh(queueDepth int) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snapshot := Snapshot{
		MessagesRouted:    s.MessagesRouted.Load(),
		ExternalDelivered: s.ExternalDelivered.Load(),
		CreditDebits:      s.CreditDebits.Load(),
		NoCreditSkips:     s.NoCreditSkips.Load(),
		FallbackFailures:  s.FallbackFailures.Load(),
		BotTriggers:       s.BotTriggers.Load(),
		BotFailures:       s.BotFailures.Load(),
		TriggerQueueSize:  queueDepth,
		AllocMemMb:        memStats.Alloc / 1024 / 1024,
		NumGC:             memStats.NumGC,
	}

	if s.proc != nil {
		if memInfo, err := s.proc.MemoryInfo(); err == nil {
			snapshot.RSSBytes = memInfo.RSS
		}
		if cpu, err := s.proc.CPUPercent(); err == nil {
			snapshot.CPUPercent = cpu
		}
	}

	s.mu.Lock()
	s.last = snapshot
	s.mu.Unlock()
}

// GetLatest returns the last refreshed snapshot.
func (s *DeliveryStats) GetLatest() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
