package book

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"
)

// AddResult tells whether Add inserted a record or found its name taken.
type AddResult int

const (
	Added AddResult = iota
	AlreadyExists
)

// AddressBook maps a contact name to its Record and remembers the order in
// which names were first inserted. It is not safe for concurrent use.
type AddressBook struct {
	keys    []string
	records map[string]*Record
}

// New returns an empty address book.
func New() *AddressBook {
	return &AddressBook{records: make(map[string]*Record)}
}

// Len returns the number of contacts.
func (b *AddressBook) Len() int {
	return len(b.keys)
}

// Add inserts r under its name unless that name is already present.
func (b *AddressBook) Add(r *Record) AddResult {
	key := r.Name().String()
	if _, ok := b.records[key]; ok {
		return AlreadyExists
	}
	b.keys = append(b.keys, key)
	b.records[key] = r
	return Added
}

// Get returns the record stored under name.
func (b *AddressBook) Get(name string) (*Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the record stored under name.
func (b *AddressBook) Delete(name string) error {
	if _, ok := b.records[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(b.records, name)
	b.keys = slices.DeleteFunc(b.keys, func(k string) bool { return k == name })
	return nil
}

// All iterates over the records in insertion order.
func (b *AddressBook) All() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		for _, k := range b.keys {
			if !yield(b.records[k]) {
				return
			}
		}
	}
}

// Find returns the first record whose name contains text (ignoring case)
// or whose phones contain text.
func (b *AddressBook) Find(text string) (*Record, bool) {
	if text == "" {
		return nil, false
	}
	needle := strings.ToLower(text)
	for r := range b.All() {
		if strings.Contains(strings.ToLower(r.Name().String()), needle) {
			return r, true
		}
		for _, p := range r.Phones {
			if strings.Contains(p.String(), text) {
				return r, true
			}
		}
	}
	return nil, false
}

// Pages returns a lazy sequence of text pages, each listing up to size
// consecutive records one per line. Every call starts from the first record.
// A size below 1 yields nothing.
func (b *AddressBook) Pages(size int) iter.Seq[string] {
	return func(yield func(string) bool) {
		if size < 1 {
			return
		}
		for start := 0; start < len(b.keys); start += size {
			end := min(start+size, len(b.keys))
			lines := make([]string, 0, end-start)
			for _, k := range b.keys[start:end] {
				lines = append(lines, b.records[k].String())
			}
			if !yield(strings.Join(lines, "\n")) {
				return
			}
		}
	}
}

// Upcoming pairs a record with the days left until its birthday.
type Upcoming struct {
	Record *Record
	Days   int
}

// UpcomingBirthdays lists the records whose birthday falls within the next
// days days (today included), soonest first. Ties keep insertion order.
func (b *AddressBook) UpcomingBirthdays(now time.Time, days int) []Upcoming {
	var out []Upcoming
	for r := range b.All() {
		if r.Birthday == nil {
			continue
		}
		if d := r.Birthday.DaysUntil(now); d <= days {
			out = append(out, Upcoming{Record: r, Days: d})
		}
	}
	slices.SortStableFunc(out, func(x, y Upcoming) int {
		return cmp.Compare(x.Days, y.Days)
	})
	return out
}
