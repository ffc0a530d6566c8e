package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/storage"
)

func newRecord(t *testing.T, name, bday string, phones ...string) *book.Record {
	t.Helper()
	n, err := book.NewName(name)
	require.NoError(t, err)
	r := book.NewRecord(n)
	for _, v := range phones {
		p, err := book.NewPhone(v)
		require.NoError(t, err)
		r.AddPhone(p)
	}
	if bday != "" {
		b, err := book.NewBirthday(bday)
		require.NoError(t, err)
		r.SetBirthday(b)
	}
	return r
}

func TestFileStore_SaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "address_book.json")
	store := storage.NewFileStore(path)

	b := book.New()
	b.Add(newRecord(t, "Ann", "01-01-2000", "123456789012"))
	b.Add(newRecord(t, "Zoe", "", "111111111111", "222222222222"))
	b.Add(newRecord(t, "Bob", "29-02-1996"))

	require.NoError(t, store.Save(b))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, 3, loaded.Len())

	var names []string
	for r := range loaded.All() {
		names = append(names, r.Name().String())
	}
	assert.Equal(t, []string{"Ann", "Zoe", "Bob"}, names, "File order must be preserved")

	ann, ok := loaded.Get("Ann")
	require.True(t, ok)
	require.Len(t, ann.Phones, 1)
	assert.Equal(t, "123456789012", ann.Phones[0].String())
	assert.Equal(t, "01-01-2000", ann.BirthdayText())

	zoe, _ := loaded.Get("Zoe")
	assert.Nil(t, zoe.Birthday)
	assert.Len(t, zoe.Phones, 2)
}

func TestFileStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "address_book.json")
	store := storage.NewFileStore(path)

	b := book.New()
	b.Add(newRecord(t, "Ann", "01-01-2000", "123456789012"))
	b.Add(newRecord(t, "Bob", ""))
	require.NoError(t, store.Save(b))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Ann": {"name": "Ann", "phones": ["123456789012"], "birthday": "01-01-2000"},
		"Bob": {"name": "Bob", "phones": [], "birthday": "None"}
	}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_Load_Missing(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	b, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
}

func TestFileStore_Load_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"truncated", `{"Ann": {"name": "Ann", "phones": [`},
		{"array", `[1, 2, 3]`},
		{"garbage", `not json at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "address_book.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			b, err := storage.NewFileStore(path).Load()
			require.NoError(t, err)
			assert.Equal(t, 0, b.Len())
		})
	}
}

// TestFileStore_Load_SkipsInvalidRecords checks that validation matches interactive entry.
func TestFileStore_Load_SkipsInvalidRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "address_book.json")
	content := `{
		"Ann": {"name": "Ann", "phones": ["123456789012"], "birthday": "None"},
		"B0b": {"name": "B0b", "phones": ["123456789012"], "birthday": "None"},
		"Cid": {"name": "Cid", "phones": ["12345"], "birthday": "None"},
		"Dan": {"name": "Dan", "phones": [], "birthday": "2000-01-01"},
		"Eve": {"name": "Eve", "phones": [], "birthday": "31-12-1999"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	b, err := storage.NewFileStore(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 2, b.Len())
	_, ok := b.Get("Ann")
	assert.True(t, ok)
	eve, ok := b.Get("Eve")
	require.True(t, ok)
	assert.Equal(t, "31-12-1999", eve.BirthdayText())
}

func TestFileStore_Save_UnwritableDir(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "missing", "address_book.json"))
	assert.Error(t, store.Save(book.New()))
}
