// Package console implements the interactive command loop: it reads a line,
// resolves it through the Dispatcher against the in-memory address book,
// prints the localized result and persists the book after every command.
package console

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// Store loads and saves the whole address book.
type Store interface {
	Load() (*book.AddressBook, error)
	Save(b *book.AddressBook) error
}

// Options wires the collaborators of a Session. Clock and Settings are optional.
type Options struct {
	Store      Store
	UI         UserInterface
	Translator *Translator
	Clock      book.Clock
	Settings   *config.Settings
}

// Session is the process-wide context object: the address book of the
// current cycle, the dispatcher and the user interface.
type Session struct {
	store      Store
	ui         UserInterface
	tr         *Translator
	clock      book.Clock
	settings   *config.Settings
	dispatcher *Dispatcher
	book       *book.AddressBook
}

// NewSession builds the command table around opts.
func NewSession(opts Options) (*Session, error) {
	s := &Session{
		store:    opts.Store,
		ui:       opts.UI,
		tr:       opts.Translator,
		clock:    opts.Clock,
		settings: opts.Settings,
		book:     book.New(),
	}
	if s.clock == nil {
		s.clock = book.RealClock{}
	}
	if s.settings == nil {
		s.settings = &config.Settings{
			BookPath:     config.BookFileName,
			Language:     config.DefaultLanguage,
			PageSize:     config.DefaultPageSize,
			UpcomingDays: config.DefaultUpcomingDays,
		}
	}
	if s.tr == nil {
		s.tr = NewTranslator(s.settings.Language)
	}

	d, err := NewDispatcher(s.commands()...)
	if err != nil {
		return nil, err
	}
	s.dispatcher = d
	return s, nil
}

// Book returns the address book of the current cycle.
func (s *Session) Book() *book.AddressBook {
	return s.book
}

// Run loops until an exit keyword is entered, the input ends or ctx is done.
// Every cycle reloads the book, runs one command and saves the book.
// A cancelled ctx interrupts the prompt, but a command already read runs to
// completion and is saved before Run returns ctx.Err().
func (s *Session) Run(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompConsole)
	log.Info(config.MsgSessionStart, config.LogKeyFile, s.settings.BookPath)
	defer log.Info(config.MsgSessionEnd)

	prompt := separator() + "\n" + s.tr.Msg(config.TKeyPrompt, nil) + "\n"

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.reload()

		line, err := s.readLine(ctx, prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		out, exit := s.Execute(ctx, line)
		s.ui.Print(out)
		s.persist()

		if exit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			log.Info(config.MsgCtxCancel)
			return err
		}
	}
}

// readLine waits for the next prompt answer or for ctx to be done.
// The pending read is abandoned on cancellation; Run returns right after.
func (s *Session) readLine(ctx context.Context, prompt string) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := s.ui.ReadLine(prompt)
		ch <- result{line, err}
	}()

	select {
	case r := <-ch:
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Execute runs one command line against the current book and returns the
// text to print and whether the loop should stop. Errors never escape: they
// are rendered as a single localized line.
func (s *Session) Execute(ctx context.Context, line string) (string, bool) {
	cmd, out, err := s.dispatcher.Dispatch(ctx, line)
	if err != nil {
		slog.Info(config.MsgCommandFailed,
			config.LogKeyComponent, config.CompConsole,
			config.LogKeyError, err,
		)
		return s.renderError(err), false
	}

	slog.Debug(config.MsgCommand,
		config.LogKeyComponent, config.CompConsole,
		config.LogKeyCommand, cmd.Name,
	)
	return out, cmd.Exit
}

// reload replaces the book with the persisted one. On an I/O failure the
// in-memory book is kept so that the next save does not wipe the file.
func (s *Session) reload() {
	b, err := s.store.Load()
	if err != nil {
		slog.Warn(config.ErrBookRead,
			config.LogKeyComponent, config.CompConsole,
			config.LogKeyError, err,
		)
		return
	}
	s.book = b
}

func (s *Session) persist() {
	if err := s.store.Save(s.book); err != nil {
		slog.Error(config.ErrBookWrite,
			config.LogKeyComponent, config.CompConsole,
			config.LogKeyError, err,
		)
		s.ui.Print(s.tr.Msg(config.TKeySaveFailed, map[string]any{"Error": err.Error()}))
	}
}

func (s *Session) renderError(err error) string {
	var (
		cmdErr  *CommandError
		pathErr *fs.PathError
	)

	switch {
	case errors.Is(err, ErrUnknownCommand) && errors.As(err, &cmdErr):
		return s.tr.Msg(config.TKeyErrUnknownCommand, map[string]any{"Command": cmdErr.Keyword})
	case errors.Is(err, ErrMalformedCommand) && errors.As(err, &cmdErr):
		return s.tr.Msg(config.TKeyErrMalformed, map[string]any{"Usage": cmdErr.Usage})
	case errors.Is(err, book.ErrInvalidName):
		return s.tr.Msg(config.TKeyErrInvalidName, nil)
	case errors.Is(err, book.ErrInvalidPhone):
		return s.tr.Msg(config.TKeyErrInvalidPhone, nil)
	case errors.Is(err, book.ErrInvalidDate):
		return s.tr.Msg(config.TKeyErrInvalidDate, nil)
	case errors.Is(err, book.ErrNotFound):
		return s.tr.Msg(config.TKeyErrNotFound, nil)
	case errors.Is(err, book.ErrNoBirthday):
		return s.tr.Msg(config.TKeyErrNoBirthday, nil)
	case errors.Is(err, errInvalidPageSize):
		return s.tr.Msg(config.TKeyErrPageSize, nil)
	case errors.As(err, &pathErr):
		return s.tr.Msg(config.TKeyErrFile, map[string]any{"Error": pathErr.Error()})
	default:
		return s.tr.Msg(config.TKeyErrUnexpected, map[string]any{"Error": err.Error()})
	}
}
