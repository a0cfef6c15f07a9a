package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

type access int

const (
	accessAny access = iota
	accessUser
	accessAdmin
)

type command struct {
	name   string
	usage  string
	help   string
	access access
	run    func(ctx context.Context, args []string) error
}

// errUsage makes the REPL print the command's usage line.
var errUsage = errors.New("usage")

// execIface is the surface the REPL needs. App satisfies it; tests can
// provide a stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	commands() []command
}

func allowed(a execIface, c command) bool {
	switch c.access {
	case accessUser:
		return a.isLoggedIn()
	case accessAdmin:
		return a.isAdmin()
	default:
		return true
	}
}

func printHelp(a execIface, w io.Writer) {
	fmt.Fprintln(w, "Available commands:")
	for _, c := range a.commands() {
		if !allowed(a, c) {
			continue
		}
		fmt.Fprintf(w, "  %-28s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(w, "  %-28s %s\n", "exit", "leave the program")
}

// runREPL reads a line, splits it into fields and dispatches the first
// field to the matching command. It returns on EOF, "exit" or "quit".
// Command errors are printed and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "tikbook %s> ", statusFn())
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "help":
			printHelp(a, w)
			continue
		}

		cmd, ok := lookup(a, name)
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}
		if !allowed(a, cmd) {
			if cmd.access == accessAdmin {
				fmt.Fprintln(w, "This command is for admins only")
			} else {
				fmt.Fprintln(w, "Please login first")
			}
			continue
		}
		if err := cmd.run(ctx, args); err != nil {
			if errors.Is(err, errUsage) {
				fmt.Fprintln(w, "Usage:", cmd.usage)
				continue
			}
			fmt.Fprintln(w, "error:", err)
		}
	}
}

func lookup(a execIface, name string) (command, bool) {
	for _, c := range a.commands() {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}
