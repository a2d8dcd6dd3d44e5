// Package cli parses command-line input for the configkit tool.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSubcommand is returned when no subcommand is provided.
var ErrNoSubcommand = errors.New("missing subcommand: usage: configkit <hash|check|canon> --schema <file> --type <name> <config file>")

// ErrNoConfigFile is returned when no config file argument is provided.
var ErrNoConfigFile = errors.New("no config file provided")

// ErrMissingFlagValue is returned when a flag requires a value but none follows.
var ErrMissingFlagValue = errors.New("flag requires a value")

// Subcommand represents the CLI subcommand.
type Subcommand string

const (
	SubcommandHash  Subcommand = "hash"
	SubcommandCheck Subcommand = "check"
	SubcommandCanon Subcommand = "canon"
)

// Command represents the parsed CLI input.
type Command struct {
	Subcommand Subcommand
	ConfigPath string // positional: the config file to resolve

	SchemaPath string // --schema <path>: type declaration file
	TypeName   string // --type <name>: which declared type to resolve against
}

// ParseArgs parses CLI arguments into a Command. args is os.Args[1:].
func ParseArgs(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, ErrNoSubcommand
	}

	var cmd Command
	switch Subcommand(args[0]) {
	case SubcommandHash, SubcommandCheck, SubcommandCanon:
		cmd.Subcommand = Subcommand(args[0])
	default:
		return Command{}, fmt.Errorf("unknown subcommand %q: %w", args[0], ErrNoSubcommand)
	}

	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--schema":
			if i+1 >= len(rest) {
				return Command{}, fmt.Errorf("--schema: %w", ErrMissingFlagValue)
			}
			i++
			cmd.SchemaPath = rest[i]
		case arg == "--type":
			if i+1 >= len(rest) {
				return Command{}, fmt.Errorf("--type: %w", ErrMissingFlagValue)
			}
			i++
			cmd.TypeName = rest[i]
		case strings.HasPrefix(arg, "--"):
			return Command{}, fmt.Errorf("unknown flag %q", arg)
		default:
			if cmd.ConfigPath != "" {
				return Command{}, fmt.Errorf("unexpected extra argument %q", arg)
			}
			cmd.ConfigPath = arg
		}
	}

	if cmd.ConfigPath == "" {
		return Command{}, ErrNoConfigFile
	}
	if cmd.SchemaPath == "" {
		return Command{}, errors.New("--schema is required")
	}
	if cmd.TypeName == "" {
		return Command{}, errors.New("--type is required")
	}
	return cmd, nil
}
