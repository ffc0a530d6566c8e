package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// UserInterface is the presentation layer the session talks to.
type UserInterface interface {
	// ReadLine prints prompt and blocks until a line is entered.
	// It returns io.EOF when the input is exhausted.
	ReadLine(prompt string) (string, error)
	Print(text string)
	DisplayHelp(header string, lines []string)
	// DisplayContacts prints pages, waiting for acknowledgment between them,
	// and returns the number of pages shown.
	DisplayContacts(pages iter.Seq[string], continuePrompt string) (int, error)
}

// Console is a line-oriented UserInterface over a reader and a writer.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole wraps in and out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// ReadLine returns the next line without its line terminator.
// A final line without a newline is returned before io.EOF.
func (c *Console) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		_, _ = fmt.Fprint(c.out, prompt)
	}
	line, err := c.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	if err != nil {
		if !errors.Is(err, io.EOF) {
			err = fmt.Errorf("%s: %w", config.ErrInputRead, err)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Print writes text followed by a newline.
func (c *Console) Print(text string) {
	_, _ = fmt.Fprintln(c.out, text)
}

// DisplayHelp prints the header and one line per command.
func (c *Console) DisplayHelp(header string, lines []string) {
	c.Print(header)
	for _, l := range lines {
		c.Print(l)
	}
}

// DisplayContacts prints each page; before every page but the first it waits
// for the user to press enter.
func (c *Console) DisplayContacts(pages iter.Seq[string], continuePrompt string) (int, error) {
	shown := 0
	for page := range pages {
		if shown > 0 {
			if _, err := c.ReadLine(continuePrompt); err != nil {
				return shown, err
			}
		}
		c.Print(page)
		shown++
	}
	return shown, nil
}

// separator is printed above every command prompt.
func separator() string {
	return strings.Repeat(config.PromptSeparatorChar, config.PromptSeparatorWidth)
}
