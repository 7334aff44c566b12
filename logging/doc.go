// Package logging provides a minimal logging interface and adapters for chainmesh.
//
// The Logger interface defines the leveled methods (Debug, Info, Warn, Error)
// that the executor, chains, memory strategies and tools use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping an existing *slog.Logger
//   - StructuredLogger with run/component context and domain helpers
//   - NoOpLogger for silent operation (the default everywhere)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "tint", false)
//	exec, err := agent.NewExecutor(llm, tools, func(o *agent.Options) { o.Logger = logger })
//
// The interface is intentionally small to avoid vendor lock-in while supporting
// structured key/value logging where available.
package logging
