package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Dispatcher boundary failures.
var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrMalformedCommand = errors.New("wrong number of arguments")
)

// CommandError carries the keyword that failed to resolve or the usage of the
// command that received bad arguments.
type CommandError struct {
	Keyword string
	Usage   string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Keyword)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Handler executes a command and returns the text to print.
type Handler func(ctx context.Context, args []string) (string, error)

// Command describes one entry of the command table.
type Command struct {
	Name    string
	Aliases []string // accepted keywords besides Name
	Params  string   // argument synopsis for help and usage errors
	MinArgs int
	MaxArgs int // -1 accepts any number of arguments
	Exit    bool
	Handler Handler
}

// Keywords returns Name followed by the aliases.
func (c *Command) Keywords() []string {
	return append([]string{c.Name}, c.Aliases...)
}

// Usage renders "name params".
func (c *Command) Usage() string {
	if c.Params == "" {
		return c.Name
	}
	return c.Name + " " + c.Params
}

// Dispatcher resolves typed keywords against an explicit alias table.
// Keywords match exactly and case-insensitively; there is no prefix or
// substring guessing.
type Dispatcher struct {
	commands []*Command
	aliases  map[string]*Command
}

// NewDispatcher builds the alias table. A keyword claimed by two commands is an error.
func NewDispatcher(commands ...*Command) (*Dispatcher, error) {
	d := &Dispatcher{aliases: make(map[string]*Command)}
	for _, c := range commands {
		for _, kw := range c.Keywords() {
			kw = strings.ToLower(kw)
			if other, ok := d.aliases[kw]; ok {
				return nil, fmt.Errorf("keyword %q claimed by %q and %q", kw, other.Name, c.Name)
			}
			d.aliases[kw] = c
		}
		d.commands = append(d.commands, c)
	}
	return d, nil
}

// Commands returns the table in declaration order.
func (d *Dispatcher) Commands() []*Command {
	return d.commands
}

// Resolve maps a keyword to its command.
func (d *Dispatcher) Resolve(keyword string) (*Command, error) {
	c, ok := d.aliases[strings.ToLower(keyword)]
	if !ok {
		return nil, &CommandError{Keyword: keyword, Err: ErrUnknownCommand}
	}
	return c, nil
}

// Dispatch splits line on whitespace, resolves the keyword, checks the
// argument count and runs the handler. The resolved command is returned
// even when the handler fails.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) (*Command, string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, "", &CommandError{Err: ErrUnknownCommand}
	}

	c, err := d.Resolve(fields[0])
	if err != nil {
		return nil, "", err
	}

	args := fields[1:]
	if len(args) < c.MinArgs || (c.MaxArgs >= 0 && len(args) > c.MaxArgs) {
		return c, "", &CommandError{Keyword: fields[0], Usage: c.Usage(), Err: ErrMalformedCommand}
	}

	out, err := c.Handler(ctx, args)
	return c, out, err
}
