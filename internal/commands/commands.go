package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// Command is a subcommand with its own flags and a Run function.
// Flags are defined on FlagSet; Run is called after Parse and can read flag state.
type Command struct {
	Name    string
	Summary string
	FlagSet *flag.FlagSet
	Run     func() error
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	tool  string
	cmds  map[string]*Command
	order []string
}

// NewRegistry returns an empty command registry for the named tool.
func NewRegistry(tool string) *Registry {
	return &Registry{tool: tool, cmds: make(map[string]*Command)}
}

// Register adds a subcommand. name is the first argument after the tool name
// (e.g. "build"). fs is that command's FlagSet; run is called after
// fs.Parse(args[1:]) succeeds.
func (r *Registry) Register(name, summary string, fs *flag.FlagSet, run func() error) {
	if _, dup := r.cmds[name]; !dup {
		r.order = append(r.order, name)
	}
	r.cmds[name] = &Command{Name: name, Summary: summary, FlagSet: fs, Run: run}
}

// usageError marks failures of the command line itself, as opposed to
// failures of the command.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// Execute runs the subcommand in args[0] with args[1:] as flag/positional
// arguments. Asking for help is not an error; an unknown or missing
// subcommand is a usage error.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return usageError{"missing subcommand"}
	}
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		return flag.ErrHelp
	}
	cmd, ok := r.cmds[name]
	if !ok {
		return usageError{"unknown command: " + name}
	}
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{err.Error()}
	}
	return cmd.Run()
}

// IsHelp reports whether the error from Execute just means help was requested.
func IsHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// IsUsage reports whether the error from Execute means the command line was
// wrong, so callers can print usage and pick the exit code.
func IsUsage(err error) bool {
	var u usageError
	return errors.As(err, &u)
}

// Usage writes a summary of the registered subcommands in registration order.
func (r *Registry) Usage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s <command> [flags]\n\ncommands:\n", r.tool)
	for _, name := range r.order {
		fmt.Fprintf(w, "  %-8s %s\n", name, r.cmds[name].Summary)
	}
	fmt.Fprintf(w, "\nrun %s <command> -h for that command's flags\n", r.tool)
}
