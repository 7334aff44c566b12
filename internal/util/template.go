package util

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"text/template/parse"
)

var funcs = template.FuncMap{
	"default": func(defaultVal any, val any) any {
		if val == nil || val == "" {
			return defaultVal
		}
		return val
	},
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
	"join": func(sep string, items []string) string {
		return strings.Join(items, sep)
	},
}

// ParseTemplate parses a prompt template. Rendering a parsed template with a
// missing variable fails instead of printing "<no value>".
//
// This lives in internal to avoid committing to public API stability prematurely.
func ParseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Funcs(funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tmpl, nil
}

// Execute renders a parsed template against vars.
func Execute(tmpl *template.Template, vars map[string]any) (string, error) {
	if vars == nil {
		vars = map[string]any{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTemplate parses and renders text in one step.
func RenderTemplate(text string, vars map[string]any) (string, error) {
	if !strings.Contains(text, "{{") { // fast path: no template markers
		return text, nil
	}
	tmpl, err := ParseTemplate("prompt", text)
	if err != nil {
		return "", err
	}
	return Execute(tmpl, vars)
}

// TemplateVariables lists the top-level fields (".name") a parsed template
// references, sorted.
func TemplateVariables(tmpl *template.Template) []string {
	seen := map[string]struct{}{}
	for _, t := range tmpl.Templates() {
		if t.Tree != nil {
			walk(t.Tree.Root, seen)
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func walk(node parse.Node, seen map[string]struct{}) {
	switch n := node.(type) {
	case nil:
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			walk(c, seen)
		}
	case *parse.ActionNode:
		walk(n.Pipe, seen)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, c := range n.Cmds {
			walk(c, seen)
		}
	case *parse.CommandNode:
		for _, a := range n.Args {
			walk(a, seen)
		}
	case *parse.FieldNode:
		if len(n.Ident) > 0 {
			seen[n.Ident[0]] = struct{}{}
		}
	case *parse.ChainNode:
		walk(n.Node, seen)
	case *parse.IfNode:
		walkBranch(&n.BranchNode, seen)
	case *parse.RangeNode:
		// fields inside range and with blocks are relative to the new dot
		walk(n.Pipe, seen)
		walk(n.ElseList, seen)
	case *parse.WithNode:
		walk(n.Pipe, seen)
		walk(n.ElseList, seen)
	}
}

func walkBranch(b *parse.BranchNode, seen map[string]struct{}) {
	walk(b.Pipe, seen)
	walk(b.List, seen)
	walk(b.ElseList, seen)
}
