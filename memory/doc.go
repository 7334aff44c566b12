// Package memory contains the conversation-memory strategies consumed by
// chains and the agent executor. Every strategy implements Memory; select one
// (Buffer, Window, Summary) at wiring time.
//
// The human input and assistant output of a turn are read from explicitly
// named keys (Options.InputKey / Options.OutputKey), never from the first
// value of a map. Recovered history is exposed under Options.MemoryKey.
//
// Memory is process local; nothing survives a restart.
package memory
