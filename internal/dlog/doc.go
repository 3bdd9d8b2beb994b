// Package dlog provides a minimal, pluggable logging abstraction used by
// the scheduled and ops packages.
//
// # Log levels
//
// Five severities are defined, from most to least verbose:
// LevelDebug, LevelInfo, LevelWarn, LevelError, LevelNone.
//
// # Logger interface
//
// Any type implementing Debug/Info/Warn/Error with a (format string, ...any)
// signature satisfies Logger. Three implementations are provided:
//
//   - NoOpLogger: discards everything. This is what a Scheduler uses by
//     default, so importing the scheduled package never forces a logging
//     backend on a caller that doesn't want one.
//   - StdLogger: writes through the standard library's log package.
//   - GologLogger: wraps a *golog.Logger (github.com/kataras/golog), for
//     callers who already standardized on golog elsewhere in their service.
//
// # Usage
//
//	cfg := scheduled.DefaultSchedulerConfig()
//	cfg.Logger = dlog.NewStdLogger(dlog.LevelDebug)
//	sched := scheduled.NewBuilder(cfg).Build()
//
// A Scheduler logs recovered subgraph panics at LevelError. Info, Warn and
// Debug are otherwise reserved for caller-supplied operators and hosts
// that choose to log through the same Logger.
package dlog
