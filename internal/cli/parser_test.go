package cli

import (
	"errors"
	"testing"
)

func TestParseArgs_Subcommands(t *testing.T) {
	for _, sub := range []Subcommand{SubcommandHash, SubcommandCheck, SubcommandCanon} {
		cmd, err := ParseArgs([]string{string(sub), "--schema", "types.yaml", "--type", "big", "conf.json"})
		if err != nil {
			t.Fatalf("%s: ParseArgs failed: %v", sub, err)
		}
		if cmd.Subcommand != sub {
			t.Errorf("subcommand = %s, want %s", cmd.Subcommand, sub)
		}
		if cmd.SchemaPath != "types.yaml" || cmd.TypeName != "big" || cmd.ConfigPath != "conf.json" {
			t.Errorf("parsed wrong: %+v", cmd)
		}
	}
}

func TestParseArgs_FlagOrder(t *testing.T) {
	// Positional argument before flags
	cmd, err := ParseArgs([]string{"hash", "conf.json", "--schema", "t.yaml", "--type", "a"})
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if cmd.ConfigPath != "conf.json" {
		t.Errorf("config path = %s", cmd.ConfigPath)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no args", nil, ErrNoSubcommand},
		{"unknown subcommand", []string{"frobnicate"}, ErrNoSubcommand},
		{"no config file", []string{"hash", "--schema", "t.yaml", "--type", "a"}, ErrNoConfigFile},
		{"schema missing value", []string{"hash", "conf.json", "--schema"}, ErrMissingFlagValue},
		{"type missing value", []string{"hash", "conf.json", "--type"}, ErrMissingFlagValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.args)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ParseArgs([]string{"hash", "--bogus", "conf.json"}); err == nil {
		t.Error("unknown flag should fail")
	}
	if _, err := ParseArgs([]string{"hash", "a.json", "b.json", "--schema", "t.yaml", "--type", "a"}); err == nil {
		t.Error("extra positional argument should fail")
	}
	if _, err := ParseArgs([]string{"hash", "conf.json", "--type", "a"}); err == nil {
		t.Error("missing --schema should fail")
	}
	if _, err := ParseArgs([]string{"hash", "conf.json", "--schema", "t.yaml"}); err == nil {
		t.Error("missing --type should fail")
	}
}
