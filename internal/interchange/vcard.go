package interchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// ImportStats summarizes a vCard import.
type ImportStats struct {
	Total   int // cards decoded
	Added   int // new contacts
	Merged  int // existing contacts that gained phones or a birthday
	Skipped int // cards without a usable name
}

// ExportVCard writes every contact of b as a vCard 4.0 and returns the number written.
func ExportVCard(w io.Writer, b *book.AddressBook) (int, error) {
	enc := vcard.NewEncoder(w)
	count := 0

	for r := range b.All() {
		card := make(vcard.Card)
		card.SetValue(vcard.FieldFormattedName, r.Name().String())
		card.SetName(&vcard.Name{GivenName: r.Name().String()})
		for _, p := range r.Phones {
			card.AddValue(vcard.FieldTelephone, p.String())
		}
		if r.Birthday != nil {
			card.SetValue(vcard.FieldBirthday, r.Birthday.Date().Format(config.DateFormatFullDash))
		}
		vcard.ToV4(card)

		if err := enc.Encode(card); err != nil {
			return count, fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
		count++
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompInterchange,
		config.LogKeyCount, count,
	)
	return count, nil
}

// ImportVCard decodes cards from r and merges them into b using the same rules
// as the add command: unknown names become new contacts, known names gain the
// phones they lack and a birthday if they have none.
// Malformed cards, invalid phones, unreadable dates and dates without a year
// are skipped and logged.
func ImportVCard(ctx context.Context, r io.Reader, b *book.AddressBook) (ImportStats, error) {
	var stats ImportStats
	dec := vcard.NewDecoder(r)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A decoder error leaves the stream in an unknown state.
			return stats, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}
		stats.Total++

		rec, ok := recordFromCard(card)
		if !ok {
			stats.Skipped++
			continue
		}

		existing, found := b.Get(rec.Name().String())
		if !found {
			b.Add(rec)
			stats.Added++
			continue
		}
		if merge(existing, rec) {
			stats.Merged++
		}
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompInterchange,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Total),
			slog.Int(config.LogKeyAdded, stats.Added),
			slog.Int(config.LogKeyMerged, stats.Merged),
			slog.Int(config.LogKeySkipped, stats.Skipped),
		),
	)
	return stats, nil
}

// merge copies what dst lacks from src and reports whether anything changed.
func merge(dst, src *book.Record) bool {
	changed := false
	for _, p := range src.Phones {
		if !dst.HasPhone(p) {
			dst.AddPhone(p)
			changed = true
		}
	}
	if dst.Birthday == nil && src.Birthday != nil {
		dst.SetBirthday(*src.Birthday)
		changed = true
	}
	return changed
}

// recordFromCard maps a vCard onto a record.
// Name Strategy: FN > N given name > letters of FN.
func recordFromCard(card vcard.Card) (*book.Record, bool) {
	var candidates []string
	fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName))
	if fn != "" {
		candidates = append(candidates, fn)
	}
	if n := card.Name(); n != nil && n.GivenName != "" {
		candidates = append(candidates, strings.TrimSpace(n.GivenName))
	}
	if fn != "" {
		candidates = append(candidates, lettersOnly(fn))
	}

	var (
		name  book.Name
		valid bool
	)
	for _, c := range candidates {
		if n, err := book.NewName(c); err == nil {
			name, valid = n, true
			break
		}
	}
	if !valid {
		slog.Warn(config.MsgSkippedCard,
			config.LogKeyComponent, config.CompInterchange,
			config.LogKeyName, fn,
			config.LogKeyError, book.ErrInvalidName,
		)
		return nil, false
	}

	rec := book.NewRecord(name)
	for _, raw := range card.Values(vcard.FieldTelephone) {
		p, err := book.NewPhone(digitsOnly(raw))
		if err != nil {
			slog.Debug(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompInterchange,
				config.LogKeyValue, raw,
				config.LogKeyError, err,
			)
			continue
		}
		if !rec.HasPhone(p) {
			rec.AddPhone(p)
		}
	}

	if bday := card.Get(vcard.FieldBirthday); bday != nil && bday.Value != "" {
		t, yearKnown, err := parseVCardDate(bday.Value)
		switch {
		case err != nil:
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompInterchange,
				config.LogKeyValue, bday.Value)
		case !yearKnown:
			// A stored birthday always has a year; inventing one would fake ages.
			slog.Debug(config.MsgSkippedNoYear,
				config.LogKeyComponent, config.CompInterchange,
				config.LogKeyValue, bday.Value)
		default:
			rec.SetBirthday(book.BirthdayFromDate(t))
		}
	}
	return rec, true
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}
