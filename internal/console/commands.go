package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/interchange"
)

var errInvalidPageSize = errors.New("page size must be a positive number")

// commands is the command table. Keywords are matched exactly.
func (s *Session) commands() []*Command {
	return []*Command{
		{Name: "hello", Aliases: []string{"hi"}, MaxArgs: -1, Handler: s.hello},
		{Name: "add", Params: "name phone [birthday]", MinArgs: 2, MaxArgs: 3, Handler: s.add},
		{Name: "change", Params: "name old_phone new_phone", MinArgs: 3, MaxArgs: 3, Handler: s.change},
		{Name: "delete", Aliases: []string{"del", "remove"}, Params: "name", MinArgs: 1, MaxArgs: 1, Handler: s.delete},
		{Name: "delphone", Aliases: []string{"unphone"}, Params: "name phone", MinArgs: 2, MaxArgs: 2, Handler: s.deletePhone},
		{Name: "birthday", Aliases: []string{"bday"}, Params: "name", MinArgs: 1, MaxArgs: 1, Handler: s.birthday},
		{Name: "find", Aliases: []string{"search"}, Params: "text", MinArgs: 1, MaxArgs: 1, Handler: s.find},
		{Name: "show", Aliases: []string{"list"}, Params: "[page_size]", MaxArgs: 1, Handler: s.show},
		{Name: "upcoming", Params: "[days]", MaxArgs: 1, Handler: s.upcoming},
		{Name: "export", Params: "file.vcf", MinArgs: 1, MaxArgs: 1, Handler: s.exportVCard},
		{Name: "import", Params: "file.vcf", MinArgs: 1, MaxArgs: 1, Handler: s.importVCard},
		{Name: "calendar", Aliases: []string{"ics"}, Params: "file.ics", MinArgs: 1, MaxArgs: 1, Handler: s.calendar},
		{Name: "help", Aliases: []string{"?"}, MaxArgs: -1, Handler: s.help},
		{Name: "exit", Aliases: []string{"good", "bye", "close", "quit"}, MaxArgs: -1, Exit: true, Handler: s.exit},
	}
}

func (s *Session) hello(context.Context, []string) (string, error) {
	return s.tr.Msg(config.TKeyGreeting, nil), nil
}

func (s *Session) exit(context.Context, []string) (string, error) {
	return s.tr.Msg(config.TKeyFarewell, nil), nil
}

// help lists every command with its arguments and aliases.
func (s *Session) help(context.Context, []string) (string, error) {
	cmds := s.dispatcher.Commands()
	lines := make([]string, 0, len(cmds))
	for _, c := range cmds {
		line := c.Usage()
		if len(c.Aliases) > 0 {
			line += " (" + strings.Join(c.Aliases, ", ") + ")"
		}
		lines = append(lines, line)
	}
	s.ui.DisplayHelp(s.tr.Msg(config.TKeyHelpHeader, nil), lines)
	return s.tr.Msg(config.TKeyHelpFooter, nil), nil
}

// add creates a contact, or appends a new phone to an existing one.
func (s *Session) add(_ context.Context, args []string) (string, error) {
	name, err := book.NewName(args[0])
	if err != nil {
		return "", err
	}
	phone, err := book.NewPhone(args[1])
	if err != nil {
		return "", err
	}
	var bday *book.Birthday
	if len(args) == 3 {
		b, err := book.NewBirthday(args[2])
		if err != nil {
			return "", err
		}
		bday = &b
	}

	if existing, ok := s.book.Get(name.String()); ok && !existing.HasPhone(phone) {
		existing.AddPhone(phone)
		return s.tr.Msg(config.TKeyPhoneAdded, map[string]any{"Phone": phone, "Name": name}), nil
	}

	rec := book.NewRecord(name, phone)
	if bday != nil {
		rec.SetBirthday(*bday)
	}
	if s.book.Add(rec) == book.AlreadyExists {
		return s.tr.Msg(config.TKeyContactExists, map[string]any{"Name": name}), nil
	}
	return s.tr.Msg(config.TKeyContactAdded, map[string]any{"Name": name}), nil
}

// change replaces one phone of a contact. A missing old phone is reported,
// not treated as a failure.
func (s *Session) change(_ context.Context, args []string) (string, error) {
	rec, ok := s.book.Get(args[0])
	if !ok {
		return "", fmt.Errorf("%w: %s", book.ErrNotFound, args[0])
	}
	oldPhone, err := book.NewPhone(args[1])
	if err != nil {
		return "", err
	}
	newPhone, err := book.NewPhone(args[2])
	if err != nil {
		return "", err
	}

	if err := rec.ChangePhone(oldPhone, newPhone); errors.Is(err, book.ErrPhoneNotFound) {
		return s.tr.Msg(config.TKeyErrPhoneNotFound, map[string]any{"Phone": oldPhone, "Name": rec.Name()}), nil
	}
	return s.tr.Msg(config.TKeyPhoneChanged, map[string]any{"Old": oldPhone, "New": newPhone}), nil
}

func (s *Session) delete(_ context.Context, args []string) (string, error) {
	if err := s.book.Delete(args[0]); err != nil {
		return "", err
	}
	return s.tr.Msg(config.TKeyContactDeleted, map[string]any{"Name": args[0]}), nil
}

// deletePhone removes one phone from a contact. Like change, a phone the
// contact lacks is reported rather than failing.
func (s *Session) deletePhone(_ context.Context, args []string) (string, error) {
	rec, ok := s.book.Get(args[0])
	if !ok {
		return "", fmt.Errorf("%w: %s", book.ErrNotFound, args[0])
	}
	phone, err := book.NewPhone(args[1])
	if err != nil {
		return "", err
	}

	if err := rec.RemovePhone(phone); errors.Is(err, book.ErrPhoneNotFound) {
		return s.tr.Msg(config.TKeyErrPhoneNotFound, map[string]any{"Phone": phone, "Name": rec.Name()}), nil
	}
	return s.tr.Msg(config.TKeyPhoneRemoved, map[string]any{"Phone": phone, "Name": rec.Name()}), nil
}

func (s *Session) birthday(_ context.Context, args []string) (string, error) {
	rec, ok := s.book.Get(args[0])
	if !ok {
		return "", fmt.Errorf("%w: %s", book.ErrNotFound, args[0])
	}
	days, err := rec.DaysToBirthday(s.clock.Now())
	if err != nil {
		return "", err
	}
	return s.tr.Plural(config.TKeyDaysToBirthday, days, map[string]any{"Name": rec.Name()}), nil
}

func (s *Session) find(_ context.Context, args []string) (string, error) {
	rec, ok := s.book.Find(args[0])
	if !ok {
		return s.tr.Msg(config.TKeyFindNone, map[string]any{"Query": args[0]}), nil
	}
	return s.tr.Msg(config.TKeyFindResult, map[string]any{"Record": rec}), nil
}

// show pages through the book. Without an argument it asks for the page size;
// an empty answer selects the configured default.
func (s *Session) show(_ context.Context, args []string) (string, error) {
	var raw string
	if len(args) == 1 {
		raw = args[0]
	} else {
		line, err := s.ui.ReadLine(s.tr.Msg(config.TKeyPromptPageSize, map[string]any{"Default": s.settings.PageSize}))
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		raw = strings.TrimSpace(line)
	}

	size := s.settings.PageSize
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return "", fmt.Errorf("%w: %q", errInvalidPageSize, raw)
		}
		size = n
	}

	shown, err := s.ui.DisplayContacts(s.book.Pages(size), s.tr.Msg(config.TKeyPromptContinue, nil))
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if shown == 0 {
		return s.tr.Msg(config.TKeyShowEmpty, nil), nil
	}
	return s.tr.Msg(config.TKeyShowEnd, nil), nil
}

func (s *Session) upcoming(_ context.Context, args []string) (string, error) {
	days := s.settings.UpcomingDays
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return "", &CommandError{Keyword: args[0], Usage: "upcoming [days]", Err: ErrMalformedCommand}
		}
		days = n
	}

	entries := s.book.UpcomingBirthdays(s.clock.Now(), days)
	if len(entries) == 0 {
		return s.tr.Msg(config.TKeyUpcomingNone, map[string]any{"Days": days}), nil
	}

	now := s.clock.Now()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, s.tr.Msg(config.TKeyUpcomingEntry, map[string]any{
			"Name": e.Record.Name(),
			"Date": e.Record.Birthday.NextOccurrence(now).Format(config.DateFormatBirthday),
			"Days": e.Days,
		}))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Session) exportVCard(_ context.Context, args []string) (string, error) {
	var count int
	err := writeTo(args[0], func(w io.Writer) error {
		var err error
		count, err = interchange.ExportVCard(w, s.book)
		return err
	})
	if err != nil {
		return "", err
	}
	return s.tr.Msg(config.TKeyExported, map[string]any{"Count": count, "File": args[0]}), nil
}

func (s *Session) importVCard(ctx context.Context, args []string) (string, error) {
	f, err := os.Open(args[0])
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	stats, err := interchange.ImportVCard(ctx, f, s.book)
	if err != nil {
		return "", err
	}
	return s.tr.Msg(config.TKeyImported, map[string]any{
		"File":    args[0],
		"Added":   stats.Added,
		"Merged":  stats.Merged,
		"Skipped": stats.Skipped,
	}), nil
}

func (s *Session) calendar(_ context.Context, args []string) (string, error) {
	gen := &interchange.Calendar{
		Clock: s.clock,
		FormatSummary: func(name string, age int) string {
			return s.tr.Msg(config.TKeyEvtSummaryAge, map[string]any{"Name": name, "Age": age})
		},
	}

	var count int
	err := writeTo(args[0], func(w io.Writer) error {
		var err error
		count, err = gen.Generate(w, s.book)
		return err
	})
	if err != nil {
		return "", err
	}
	return s.tr.Msg(config.TKeyCalendarWritten, map[string]any{"Count": count, "File": args[0]}), nil
}

// writeTo creates path and hands it to write. The file is closed on every path.
func writeTo(path string, write func(io.Writer) error) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
