// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli dispatches the gxd command line. The command set is a
// single flat level — compress, decompress, seek, version — so the
// dispatcher is a name lookup plus pflag parsing, not a command tree.
// It also classifies engine errors for the exit path: integrity and
// format failures render as FATAL, usage mistakes render plainly.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/hejhdiss/gxd/lib/archive"
	"github.com/hejhdiss/gxd/lib/codec"
)

// Command is one gxd subcommand.
type Command struct {
	// Name is the subcommand name as typed by the user.
	Name string

	// Summary is the one-line description shown in the command list.
	Summary string

	// Usage is the full usage line, e.g.
	// "gxd seek ARCHIVE --offset N [flags]".
	Usage string

	// Examples are shown in the command's help output.
	Examples []Example

	// Flags returns the command's flag set. Called fresh for each
	// parse. Nil means the command takes no flags.
	Flags func() *pflag.FlagSet

	// Run executes the command with the positional arguments left
	// after flag parsing.
	Run func(args []string) error
}

// Example is a usage example shown in help output.
type Example struct {
	// Description explains what the example does.
	Description string
	// Command is the literal command line.
	Command string
}

// App is the gxd dispatcher.
type App struct {
	// Name is the program name ("gxd").
	Name string

	// Summary is the one-line program description.
	Summary string

	// Commands is the flat subcommand set.
	Commands []*Command

	// Output receives usage and help text. Nil means stderr.
	Output io.Writer
}

// Execute dispatches one invocation: resolves the subcommand, parses
// its flags, and runs it. Help requests ("gxd help", "gxd help seek",
// "gxd seek --help") print to Output and succeed without running
// anything.
func (a *App) Execute(args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return errors.New("no command given")
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		if len(args) > 1 {
			command := a.lookup(args[1])
			if command == nil {
				a.printUsage()
				return fmt.Errorf("unknown command %q", args[1])
			}
			a.printCommandHelp(command)
			return nil
		}
		a.printUsage()
		return nil
	}

	command := a.lookup(name)
	if command == nil {
		if suggestion := suggestCommand(name, a.Commands); suggestion != "" {
			return fmt.Errorf("unknown command %q, did you mean %q? ('%s help' lists commands)",
				name, suggestion, a.Name)
		}
		return fmt.Errorf("unknown command %q ('%s help' lists commands)", name, a.Name)
	}

	rest := args[1:]
	if len(rest) > 0 && (rest[0] == "-h" || rest[0] == "--help") {
		a.printCommandHelp(command)
		return nil
	}

	if command.Flags != nil {
		flagSet := command.Flags()
		flagSet.SetOutput(io.Discard)
		if err := flagSet.Parse(rest); err != nil {
			return fmt.Errorf("%s: %v ('%s help %s' shows the flags)",
				command.Name, err, a.Name, command.Name)
		}
		rest = flagSet.Args()
	}

	return command.Run(rest)
}

// lookup returns the named command, or nil.
func (a *App) lookup(name string) *Command {
	for _, command := range a.Commands {
		if command.Name == name {
			return command
		}
	}
	return nil
}

func (a *App) output() io.Writer {
	if a.Output != nil {
		return a.Output
	}
	return os.Stderr
}

// printUsage writes the program-level command listing.
func (a *App) printUsage() {
	w := a.output()
	fmt.Fprintf(w, "%s — %s\n\nUsage:\n  %s <command> [flags]\n\nCommands:\n",
		a.Name, a.Summary, a.Name)
	for _, command := range a.Commands {
		fmt.Fprintf(w, "  %-12s %s\n", command.Name, command.Summary)
	}
	fmt.Fprintf(w, "\n'%s help <command>' shows a command's flags and examples.\n", a.Name)
}

// printCommandHelp writes one command's summary, usage, flags, and
// examples.
func (a *App) printCommandHelp(command *Command) {
	w := a.output()
	fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", command.Summary, command.Usage)

	if command.Flags != nil {
		flagSet := command.Flags()
		fmt.Fprintf(w, "\nFlags:\n%s", flagSet.FlagUsages())
	}

	if len(command.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, example := range command.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
		}
	}
}

// Describe renders an error for the exit path. Failures that mean the
// archive cannot be trusted — bad magic, a corrupt footer, digest
// mismatches, an unknown or unreadable codec — render as FATAL so
// scripts scraping stderr can tell damaged data from a mistyped flag.
// Everything else renders as a plain error.
func Describe(err error) string {
	var mismatch *archive.BlockHashMismatchError
	switch {
	case errors.Is(err, archive.ErrBadMagic),
		errors.Is(err, archive.ErrCorruptFooter),
		errors.Is(err, archive.ErrGlobalHashMismatch),
		errors.Is(err, codec.ErrUnsupported),
		errors.Is(err, codec.ErrMalformed),
		errors.As(err, &mismatch):
		return "FATAL: " + err.Error()
	}
	return "error: " + err.Error()
}
