package core

import "github.com/google/uuid"

// NewID generates a new unique identifier used to correlate the log entries of
// one invocation (agent runs, chain calls, evaluation cases).
func NewID() string { return uuid.NewString() }
