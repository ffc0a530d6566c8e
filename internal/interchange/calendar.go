package interchange

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// Calendar renders the birthdays of an address book as an iCalendar feed.
type Calendar struct {
	Clock book.Clock

	// FormatSummary lets the console inject localized event titles.
	FormatSummary func(name string, age int) string
}

// Generate writes one all-day event per contact with a birthday for the
// previous, current and next year, and returns the number of events written.
func (c *Calendar) Generate(w io.Writer, b *book.AddressBook) (int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	now := c.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for r := range b.All() {
		if r.Birthday == nil {
			continue
		}
		for _, e := range c.createEvents(r.Name().String(), r.Birthday.Date(), now) {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	var buf bytes.Buffer
	if len(cal.Children) == 0 {
		// An empty VCALENDAR cannot be produced by the encoder.
		buf.WriteString(config.StubVCalendar)
	} else if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return 0, err
	}

	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompInterchange,
		config.LogKeyEvents, len(cal.Children),
	)
	return len(cal.Children), nil
}

// createEvents skips years before the person was born.
func (c *Calendar) createEvents(name string, birthDate time.Time, now time.Time) []*ical.Event {
	currentYear := now.Year()
	targetYears := []int{currentYear - 1, currentYear, currentYear + 1}

	input := fmt.Sprintf(config.FormatHashInput, name, birthDate.Format(time.RFC3339), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

	var events []*ical.Event
	for _, y := range targetYears {
		if y < birthDate.Year() {
			continue
		}
		age := y - birthDate.Year()

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))

		summary := fmt.Sprintf(config.FallbackSummaryAge, name, age)
		if c.FormatSummary != nil {
			summary = c.FormatSummary(name, age)
		}
		event.Props.SetText(config.PropSummary, summary)
		event.Props.SetText(config.PropCategories, config.ICalCategory)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(time.Date(y, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, time.UTC))
		event.Props.Set(dtStartProp)

		events = append(events, event)
	}
	return events
}
