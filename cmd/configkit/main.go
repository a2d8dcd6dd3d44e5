package main

import (
	"fmt"
	"io"
	"os"

	"configkit/fileio"
	"configkit/internal/cli"
	"configkit/record"
	"configkit/schema"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run orchestrates the tool: parse args, load type declarations, construct
// the record, emit the requested view. Separated from main for testing.
// Exit codes: 0 ok, 1 resolution failure, 2 usage error, 3 schema failure.
func run(args []string, stdout, stderr io.Writer) int {
	cmd, err := cli.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}

	types, err := schema.LoadTypes(cmd.SchemaPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(stderr, "schema file not found: %s\n", cmd.SchemaPath)
			return 3
		}
		fmt.Fprintf(stderr, "failed to parse schema: %v\n", err)
		return 3
	}

	t, ok := types[cmd.TypeName]
	if !ok {
		fmt.Fprintf(stderr, "schema %s declares no type %q\n", cmd.SchemaPath, cmd.TypeName)
		return 3
	}

	rec, err := record.Load(t, cmd.ConfigPath, fileio.Store{})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	switch cmd.Subcommand {
	case cli.SubcommandHash:
		fmt.Fprintln(stdout, rec.Hash())
	case cli.SubcommandCanon:
		fmt.Fprintln(stdout, string(rec.Canonical()))
	case cli.SubcommandCheck:
		fmt.Fprintf(stdout, "ok %s\n", rec.Hash())
	}
	return 0
}
