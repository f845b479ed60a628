// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "warden",
		Subcommands: []*Command{
			{
				Name: "purge",
				Run: func(args []string) error {
					called = "purge"
					return nil
				},
			},
			{
				Name: "count",
				Run: func(args []string) error {
					called = "count"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"count"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "count" {
		t.Errorf("dispatched to %q, want %q", called, "count")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "warden",
		Subcommands: []*Command{
			{
				Name: "expire",
				Subcommands: []*Command{
					{
						Name: "set",
						Run: func(args []string) error {
							called = "expire set"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"expire", "set", "Alice", "0", "1h"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "expire set" {
		t.Errorf("dispatched to %q, want %q", called, "expire set")
	}
	if strings.Join(receivedArgs, " ") != "Alice 0 1h" {
		t.Errorf("args = %v, want [Alice 0 1h]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var file string
	var holder string

	command := &Command{
		Name: "purge",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("purge", pflag.ContinueOnError)
			flagSet.StringVarP(&file, "file", "f", "world.yaml", "snapshot file")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				holder = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"-f", "/srv/world.cbor", "spawn-chest"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if file != "/srv/world.cbor" {
		t.Errorf("file = %q, want %q", file, "/srv/world.cbor")
	}
	if holder != "spawn-chest" {
		t.Errorf("holder = %q, want %q", holder, "spawn-chest")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "inspect",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			flagSet.Bool("cursor", false, "inspect the cursor")
			flagSet.Int("width", 60, "panel width")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--cusror"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --cursor?") {
		t.Errorf("error %q does not suggest --cursor", err)
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "warden",
		Subcommands: []*Command{
			{Name: "sweep", Run: func(args []string) error { return nil }},
			{Name: "soon", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute([]string{"swep"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "sweep"?`) {
		t.Errorf("error %q does not suggest sweep", err)
	}

	err = root.Execute([]string{"xyzzy-nothing-like-it"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("unexpected suggestion for distant input: %v", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "warden",
		Subcommands: []*Command{
			{Name: "sweep", Run: func(args []string) error { return nil }},
		},
	}
	err := root.Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("Execute(nil) = %v, want subcommand required", err)
	}
}

func TestCommand_Execute_RunFallbackTakesPositionalArgs(t *testing.T) {
	var received []string
	root := &Command{
		Name: "bind",
		Subcommands: []*Command{
			{Name: "clear", Run: func(args []string) error { return nil }},
		},
		Run: func(args []string) error {
			received = args
			return nil
		},
	}
	if err := root.Execute([]string{"Alice", "3"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if strings.Join(received, " ") != "Alice 3" {
		t.Errorf("Run received %v", received)
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	root := &Command{
		Name:        "warden",
		Description: "Item expiry and attribution tools.",
		Subcommands: []*Command{
			{Name: "purge", Summary: "Remove expired stacks"},
			{Name: "soon", Summary: "List stacks expiring soon"},
		},
	}
	child := &Command{
		Name:    "duration",
		Summary: "Parse a duration",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("duration", pflag.ContinueOnError)
			flagSet.Bool("json", false, "output as JSON")
			return flagSet
		},
		Examples: []Example{
			{Description: "Ninety minutes", Command: "warden duration 1h30m"},
		},
		parent: root,
	}

	var buffer bytes.Buffer
	root.PrintHelp(&buffer)
	output := buffer.String()
	for _, want := range []string{"Item expiry and attribution tools.", "purge", "Remove expired stacks", "warden <command> [flags]"} {
		if !strings.Contains(output, want) {
			t.Errorf("root help missing %q:\n%s", want, output)
		}
	}

	buffer.Reset()
	child.PrintHelp(&buffer)
	output = buffer.String()
	for _, want := range []string{"warden duration [flags]", "--json", "# Ninety minutes", "warden duration 1h30m"} {
		if !strings.Contains(output, want) {
			t.Errorf("child help missing %q:\n%s", want, output)
		}
	}
}

func TestRequireArgs(t *testing.T) {
	if err := RequireArgs([]string{"a", "b"}, 2, "x <a> <b>"); err != nil {
		t.Errorf("RequireArgs with the right count: %v", err)
	}
	err := RequireArgs([]string{"a"}, 2, "x <a> <b>")
	if CategoryOf(err) != CategoryValidation {
		t.Errorf("RequireArgs error category = %s, want validation", CategoryOf(err))
	}
}
