package scheduled

import (
	"time"

	"github.com/dfir-go/dfir/internal/dlog"
)

// SchedulerConfig bundles the Scheduler's optional ambient dependencies
// and tunables, following this codebase's convention of a plain *Config
// struct with a DefaultXConfig constructor rather than functional options.
type SchedulerConfig struct {
	// Logger receives one Error message per recovered subgraph panic; the
	// scheduler logs nothing else. Defaults to dlog.NoOpLogger{}.
	Logger dlog.Logger

	// Tracer receives structured tick/stratum/subgraph span events.
	// Defaults to nil (disabled).
	Tracer Tracer

	// IdleWait bounds how long RunAsync blocks waiting for the next
	// external event before re-checking its context for cancellation.
	IdleWait time.Duration
}

// DefaultSchedulerConfig returns a SchedulerConfig with a silent logger,
// no tracer, and a one-second idle wait.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Logger:   dlog.NoOpLogger{},
		Tracer:   nil,
		IdleWait: time.Second,
	}
}
