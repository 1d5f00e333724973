package main

import (
	"fmt"
	"os"
)

type Command int

const (
	COMMAND_GEN Command = iota
	COMMAND_CHECK
	COMMAND_EVAL
	COMMAND_HELP
	COMMAND_ENV
)

// usesConfig is false for commands that must work even when the config
// directory is missing or broken.
func (c Command) usesConfig() bool {
	return c != COMMAND_HELP
}

type CliResult struct {
	Command Command
	// BookPath is the desugared book, in YAML, written by the upstream phases.
	BookPath string
	// Entries restricts gen and check to the named entries.
	Entries []string
}

var HELP_COMMAND string = `kindhvm - checks and runs desugared Kind books on a graph-reduction engine.

Usage:
  kindhvm <command> [arguments]

Available Commands:
  gen <book.yml> [entry...]         Prints the program given to the engine
  check <book.yml> [entry...]       Type checks the book, or only the given entries
  eval <book.yml>                   Evaluates Main

  env                               Shows the configuration in use

  help                              Shows this help message

Examples:
  kindhvm check book.yml            Check every entry of book.yml
  kindhvm check book.yml Nat.add    Check Nat.add only
  kindhvm eval book.yml             Run Main and print its value
`

func cli() (CliResult, error) {
	result := CliResult{}

	args := os.Args[1:]
	if len(args) == 0 {
		result.Command = COMMAND_HELP
		return result, nil
	}

	command := args[0]
	switch command {
	case "env":
		result.Command = COMMAND_ENV
		return result, nil
	case "help":
		result.Command = COMMAND_HELP
		return result, nil
	case "gen":
		result.Command = COMMAND_GEN
	case "check":
		result.Command = COMMAND_CHECK
	case "eval":
		result.Command = COMMAND_EVAL
	default:
		return result, fmt.Errorf("unknown command %q, see 'kindhvm help'", command)
	}

	if len(args) < 2 {
		return result, fmt.Errorf("%s: missing the book path", command)
	}
	result.BookPath = args[1]
	if _, err := os.Stat(result.BookPath); err != nil {
		return result, fmt.Errorf("no such file: %s", result.BookPath)
	}

	result.Entries = args[2:]
	if result.Command == COMMAND_EVAL && len(result.Entries) > 0 {
		return result, fmt.Errorf("eval takes no entries, it always runs Main")
	}
	return result, nil
}
