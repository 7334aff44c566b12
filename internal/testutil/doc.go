// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing conversations, scripted ReAct completions and
// recording tools. They are not intended for production usage.
package testutil
