// Package parser turns raw assistant output into plain text or a
// schema-validated Go value.
package parser
