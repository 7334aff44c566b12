package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// ErrNoJSONObject is returned by ExtractJSONObject when text contains no object.
var ErrNoJSONObject = errors.New("no JSON object found")

// ValidationError represents a schema validation failure for a JSON payload.
type ValidationError struct {
	Value   string `json:"value"`   // payload that was validated
	Message string `json:"message"` // Human-readable error message
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Schema bundles an inferred JSON schema with its resolved (validatable) form.
type Schema struct {
	Schema   *jsonschema.Schema
	Resolved *jsonschema.Resolved
}

// SchemaFor infers the JSON schema of T. Fields without omitempty are required.
func SchemaFor[T any]() (*Schema, error) {
	s, err := jsonschema.For[T](&jsonschema.ForOptions{})
	if err != nil {
		return nil, fmt.Errorf("infer schema: %w", err)
	}
	allowExtraProperties(s)
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	return &Schema{Schema: s, Resolved: resolved}, nil
}

// allowExtraProperties drops the closed-object constraint that inference puts
// on struct schemas so that models may return keys the target type ignores.
// Map schemas keep their value schema.
func allowExtraProperties(s *jsonschema.Schema) {
	if s == nil {
		return
	}
	if s.Properties != nil {
		s.AdditionalProperties = nil
	}
	for _, p := range s.Properties {
		allowExtraProperties(p)
	}
	for _, d := range s.Defs {
		allowExtraProperties(d)
	}
	for _, d := range s.Definitions {
		allowExtraProperties(d)
	}
	for _, group := range [][]*jsonschema.Schema{s.PrefixItems, s.AllOf, s.AnyOf, s.OneOf} {
		for _, c := range group {
			allowExtraProperties(c)
		}
	}
	allowExtraProperties(s.Items)
	allowExtraProperties(s.AdditionalProperties)
}

// JSON returns the indented JSON form of the schema.
func (s *Schema) JSON() string {
	b, err := json.MarshalIndent(s.Schema, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Decode repairs raw, validates it against the schema and decodes it into v.
func (s *Schema) Decode(raw string, v any) error {
	fixed, err := RepairJSON(raw)
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal([]byte(fixed), &instance); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if err := s.Resolved.Validate(instance); err != nil {
		return &ValidationError{Value: fixed, Message: err.Error()}
	}
	if err := json.Unmarshal([]byte(fixed), v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// RepairJSON returns raw unchanged when it is valid JSON, otherwise the
// repaired document.
func RepairJSON(raw string) (string, error) {
	if json.Valid([]byte(raw)) {
		return raw, nil
	}
	fixed, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return "", fmt.Errorf("repair json: %w", err)
	}
	return fixed, nil
}

// StripCodeFence removes a surrounding markdown code fence (``` or ```json).
func StripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = ""
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// ExtractJSONObject returns the outermost {...} span of text. A missing
// closing brace is tolerated so RepairJSON can complete truncated output.
func ExtractJSONObject(text string) (string, error) {
	t := StripCodeFence(text)
	start := strings.IndexByte(t, '{')
	if start < 0 {
		return "", ErrNoJSONObject
	}
	end := strings.LastIndexByte(t, '}')
	if end < start {
		return t[start:], nil
	}
	return t[start : end+1], nil
}
