// Package runnable implements the composition protocol shared by every
// pipeline stage: a single synchronous Invoke(ctx, input) operation plus two
// explicit builders, Sequence (pipe) and Parallel (key-wise fan-out / merge).
//
// Composites are built once from their children and never mutated, so a
// pipeline graph is always acyclic and can be inspected via Steps / Keys.
//
// Execution is single-threaded: Parallel evaluates branches one after the
// other in insertion order, which keeps results deterministic for tests.
package runnable
