// Package prompt assembles ordered chat message lists from templates.
//
// A ChatTemplate is an immutable list of parts: role-tagged text templates
// (Go text/template syntax, e.g. {{.input}}) and message placeholders that
// splice in a []core.Message variable such as conversation history.
// Formatting with a missing variable is an error, never a silent blank.
//
// Guide is an explicit style-guide configuration object that can be bound
// to a template as a partial and refreshed on demand.
package prompt
