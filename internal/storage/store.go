// Package storage persists the address book as a single JSON document.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// recordDTO is the on-disk form of a record.
type recordDTO struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Birthday string   `json:"birthday"`
}

// FileStore reads and writes the address book at Path.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the address book. A missing or malformed file yields an empty
// book. Records that fail field validation are skipped.
// The returned error is only set for I/O failures other than a missing file;
// the book is still usable (empty) in that case.
func (s *FileStore) Load() (*book.AddressBook, error) {
	log := slog.With(config.LogKeyComponent, config.CompStorage, config.LogKeyFile, s.Path)

	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug(config.MsgBookMissing)
		return book.New(), nil
	}
	if err != nil {
		return book.New(), fmt.Errorf("%s: %w", config.ErrBookRead, err)
	}
	defer func() { _ = f.Close() }()

	b, err := decode(f)
	if err != nil {
		log.Warn(config.MsgBookMalformed, config.LogKeyError, err)
		return book.New(), nil
	}

	log.Debug(config.MsgBookLoaded, config.LogKeyCount, b.Len())
	return b, nil
}

// Save overwrites the file with the full contents of b.
func (s *FileStore) Save(b *book.AddressBook) error {
	data, err := encode(b)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrBookEncode, err)
	}
	if err := writeFile(s.Path, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrBookWrite, err)
	}

	slog.Debug(config.MsgBookSaved,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyFile, s.Path,
		config.LogKeyCount, b.Len(),
	)
	return nil
}

// encode writes one object member per contact, in book order.
// encoding/json sorts map keys, so the object is assembled by hand.
func encode(b *book.AddressBook) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for r := range b.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(r.Name().String())
		if err != nil {
			return nil, err
		}
		dto := recordDTO{
			Name:     r.Name().String(),
			Phones:   make([]string, len(r.Phones)),
			Birthday: r.BirthdayText(),
		}
		for i, p := range r.Phones {
			dto.Phones[i] = p.String()
		}
		value, err := json.Marshal(dto)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decode streams the top-level object so that key order is preserved.
func decode(r io.Reader) (*book.AddressBook, error) {
	dec := json.NewDecoder(r)
	b := book.New()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBookDecode, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%s: expected object, got %v", config.ErrBookDecode, tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrBookDecode, err)
		}
		key, _ := tok.(string)

		var dto recordDTO
		if err := dec.Decode(&dto); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrBookDecode, err)
		}

		rec, err := toRecord(key, dto)
		if err != nil {
			slog.Warn(config.MsgSkippedRecord,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyName, key,
				config.LogKeyError, err,
			)
			continue
		}
		b.Add(rec)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBookDecode, err)
	}
	return b, nil
}

// toRecord applies the same validation as interactive entry.
// The object key is authoritative for the name.
func toRecord(key string, dto recordDTO) (*book.Record, error) {
	name, err := book.NewName(key)
	if err != nil {
		return nil, err
	}

	rec := book.NewRecord(name)
	for _, raw := range dto.Phones {
		p, err := book.NewPhone(raw)
		if err != nil {
			return nil, err
		}
		rec.AddPhone(p)
	}

	if dto.Birthday != "" && dto.Birthday != config.BirthdayPlaceholder {
		bd, err := book.NewBirthday(dto.Birthday)
		if err != nil {
			return nil, err
		}
		rec.SetBirthday(bd)
	}
	return rec, nil
}
