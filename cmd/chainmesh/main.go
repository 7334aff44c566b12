// Package main provides the chainmesh CLI.
//
// Usage:
//
//	chainmesh [--config file] <command> [args]
//
// Commands:
//
//	chat   - multi-turn conversation with memory
//	agent  - ReAct agent with the built-in demo tools
//	rag    - answer a question from local text files
//	eval   - score a pipeline against a YAML dataset
package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/chainmesh/cmd/chainmesh/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
