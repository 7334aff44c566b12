// Package core provides the foundational domain types shared by every other
// chainmesh package:
//
//   - Messages (immutable role-tagged text units, the universal currency)
//   - Documents (retrieved content with metadata)
//   - The construction-time error taxonomy (ConfigurationError)
//   - Collaborator contracts at the system boundary (Fetcher, Publisher)
//
// The package intentionally holds no behavior beyond small helpers so that
// model adapters, prompts, parsers, tools, memory and the agent executor can
// all depend on it without introducing dependency cycles.
package core
