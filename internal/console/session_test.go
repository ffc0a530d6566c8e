package console_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/console"
	"github.com/tartampluch/go-addressbook/internal/storage"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockStore simulates persistence using `testify/mock`.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load() (*book.AddressBook, error) {
	args := m.Called()
	b, _ := args.Get(0).(*book.AddressBook)
	return b, args.Error(1)
}

func (m *MockStore) Save(b *book.AddressBook) error {
	return m.Called(b).Error(0)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

var fixedNow = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

// newSession wires a session reading input and writing to the returned buffer.
func newSession(t *testing.T, store console.Store, input string, lang string) (*console.Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	settings := &config.Settings{
		BookPath:     "memory",
		Language:     lang,
		PageSize:     2,
		UpcomingDays: 30,
	}
	s, err := console.NewSession(console.Options{
		Store:      store,
		UI:         console.NewConsole(strings.NewReader(input), &out),
		Translator: console.NewTranslator(lang),
		Clock:      MockClock{CurrentTime: fixedNow},
		Settings:   settings,
	})
	require.NoError(t, err)
	return s, &out
}

func newFileSession(t *testing.T, input string) (*console.Session, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.BookFileName)
	s, out := newSession(t, storage.NewFileStore(path), input, "en")
	return s, out, path
}

// -----------------------------------------------------------------------------
// End-to-end
// -----------------------------------------------------------------------------

func TestSession_Run_EndToEnd(t *testing.T) {
	input := strings.Join([]string{
		"add Ann 123456789012 01-01-2000",
		"birthday Ann",
		"delete Ann",
		"find Ann",
		"exit",
		"hello", // never read
	}, "\n") + "\n"

	s, out, path := newFileSession(t, input)
	require.NoError(t, s.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Contact Ann created successfully")
	assert.Contains(t, text, "Days to birthday of Ann: 0 days")
	assert.Contains(t, text, "Contact Ann deleted successfully")
	assert.Contains(t, text, `Contact matching "Ann" not found`)
	assert.Contains(t, text, "Good bye!")
	assert.NotContains(t, text, "How can I help you?")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestSession_Run_PersistsBetweenSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.BookFileName)

	first, _ := newSession(t, storage.NewFileStore(path), "add Ann 123456789012 01-01-2000\nclose\n", "en")
	require.NoError(t, first.Run(context.Background()))

	second, out := newSession(t, storage.NewFileStore(path), "find 4567\nbye\n", "en")
	require.NoError(t, second.Run(context.Background()))

	assert.Contains(t, out.String(), "Contact Ann: +123456789012, birthday 01-01-2000")
}

func TestSession_Run_EndOfInput(t *testing.T) {
	s, out, path := newFileSession(t, "add Ann 123456789012")
	require.NoError(t, s.Run(context.Background()), "EOF ends the session cleanly")

	assert.Contains(t, out.String(), "Contact Ann created successfully")
	_, err := os.Stat(path)
	assert.NoError(t, err, "The command before EOF was saved")
}

func TestSession_Run_SkipsBlankLines(t *testing.T) {
	store := new(MockStore)
	store.On("Load").Return(book.New(), nil)
	store.On("Save", mock.Anything).Return(nil)

	s, _ := newSession(t, store, "\n   \nexit\n", "en")
	require.NoError(t, s.Run(context.Background()))

	store.AssertNumberOfCalls(t, "Save", 1)
}

func TestSession_Run_Cancelled(t *testing.T) {
	store := new(MockStore)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := newSession(t, store, "hello\n", "en")
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
	store.AssertNotCalled(t, "Load")
}

// TestSession_Run_CancelledDuringCommand checks that a cancellation arriving
// while a command runs lets that command finish and be saved, and that no
// further line is read.
func TestSession_Run_CancelledDuringCommand(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := new(MockStore)
	store.On("Load").Return(book.New(), nil)
	store.On("Save", mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(nil)

	s, out := newSession(t, store, "add Ann 123456789012\nhello\n", "en")
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)

	store.AssertNumberOfCalls(t, "Save", 1)
	saved := store.Calls[len(store.Calls)-1].Arguments.Get(0).(*book.AddressBook)
	_, ok := saved.Get("Ann")
	assert.True(t, ok, "The in-flight command is saved")
	assert.Contains(t, out.String(), "Contact Ann created successfully")
	assert.NotContains(t, out.String(), "How can I help you?")
}

// blockingUI never answers a prompt, like a terminal nobody types into.
type blockingUI struct {
	console.UserInterface
	release chan struct{}
}

func (u *blockingUI) ReadLine(string) (string, error) {
	<-u.release
	return "", io.EOF
}

func TestSession_Run_CancelledAtPrompt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := new(MockStore)
	store.On("Load").Run(func(mock.Arguments) { cancel() }).Return(book.New(), nil)

	ui := &blockingUI{UserInterface: console.NewConsole(strings.NewReader(""), io.Discard), release: make(chan struct{})}
	defer close(ui.release)

	s, err := console.NewSession(console.Options{Store: store, UI: ui, Clock: MockClock{CurrentTime: fixedNow}})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
	store.AssertNotCalled(t, "Save", mock.Anything)
}

// TestSession_Run_SaveFailure verifies a failed save is reported and the loop continues.
func TestSession_Run_SaveFailure(t *testing.T) {
	store := new(MockStore)
	store.On("Load").Return(book.New(), nil)
	store.On("Save", mock.Anything).Return(errors.New("disk full"))

	s, out := newSession(t, store, "hello\nexit\n", "en")
	require.NoError(t, s.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "How can I help you?")
	assert.Contains(t, text, "Good bye!")
	assert.Equal(t, 2, strings.Count(text, "Could not save the address book: disk full"))
	store.AssertNumberOfCalls(t, "Save", 2)
}

func TestSession_Run_LoadFailureKeepsBook(t *testing.T) {
	store := new(MockStore)
	store.On("Load").Return(book.New(), errors.New("permission denied"))
	store.On("Save", mock.Anything).Return(nil)

	s, out := newSession(t, store, "add Ann 123456789012\nfind Ann\nexit\n", "en")
	require.NoError(t, s.Run(context.Background()))

	assert.Contains(t, out.String(), "Contact Ann: +123456789012, birthday None")
	assert.Equal(t, 1, s.Book().Len())
}

func TestSession_Execute_DeletePhone(t *testing.T) {
	s, _ := newSession(t, new(MockStore), "", "en")
	s.Execute(context.Background(), "add Ann 123456789012")
	s.Execute(context.Background(), "add Ann 210987654321")

	_, exit := s.Execute(context.Background(), "delphone Ann 123456789012")
	assert.False(t, exit)

	ann, ok := s.Book().Get("Ann")
	require.True(t, ok)
	assert.Equal(t, "Ann: +210987654321, birthday None", ann.String())
}

// TestSession_Run_Show pages through the book, pausing between pages.
func TestSession_Run_Show(t *testing.T) {
	input := strings.Join([]string{
		"add Ann 111111111111",
		"add Bob 222222222222",
		"add Cid 333333333333",
		"show",
		"2",
		"",
		"exit",
	}, "\n") + "\n"

	s, out, _ := newFileSession(t, input)
	require.NoError(t, s.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Input page size (empty for 2): ")
	assert.Contains(t, text, "Ann: +111111111111, birthday None\nBob: +222222222222, birthday None\n")
	assert.Contains(t, text, "Press enter to continue Cid: +333333333333, birthday None\n")
	assert.Equal(t, 1, strings.Count(text, "Press enter to continue"))
	assert.Contains(t, text, "End of the iteration")
}

// -----------------------------------------------------------------------------
// Single commands
// -----------------------------------------------------------------------------

func TestSession_Execute(t *testing.T) {
	tests := []struct {
		name     string
		setup    []string
		line     string
		want     string
		wantExit bool
	}{
		{"greeting", nil, "hello", "How can I help you?", false},
		{"keyword case", nil, "HELLO", "How can I help you?", false},
		{"exit alias", nil, "good bye", "Good bye!", true},
		{"unknown", nil, "fly", `Command "fly" doesn't exist. Type 'help' for the list of commands`, false},
		{"no substring match", nil, "ad Ann 123456789012", `Command "ad" doesn't exist. Type 'help' for the list of commands`, false},
		{"malformed", nil, "add Ann", "Wrong number of arguments. Usage: add name phone [birthday]", false},
		{"invalid name", nil, "add A1 123456789012", "Name must contain only letters and be at least 2 characters long", false},
		{"invalid phone", nil, "add Ann 12345", "Phone must be in 123456789876 format", false},
		{"invalid date", nil, "add Ann 123456789012 2000-01-01", "Invalid date format. Please use format: DD-MM-YYYY", false},
		{"add", nil, "add Ann 123456789012", "Contact Ann created successfully", false},
		{"add phone", []string{"add Ann 123456789012"}, "add Ann 210987654321", "210987654321 added to contact Ann", false},
		{"add existing", []string{"add Ann 123456789012"}, "add Ann 123456789012", "Contact Ann already exists", false},
		{"change", []string{"add Ann 123456789012"}, "change Ann 123456789012 210987654321", "Phone 123456789012 changed to 210987654321", false},
		{"change missing phone", []string{"add Ann 123456789012"}, "change Ann 111111111111 210987654321", "Phone 111111111111 not in Ann phones", false},
		{"change missing contact", nil, "change Ann 123456789012 210987654321", "Contact not found", false},
		{"delete missing", nil, "delete Ann", "Contact not found", false},
		{"delete phone", []string{"add Ann 123456789012", "add Ann 210987654321"}, "delphone Ann 123456789012", "Phone 123456789012 removed from contact Ann", false},
		{"delete phone missing", []string{"add Ann 123456789012"}, "unphone Ann 111111111111", "Phone 111111111111 not in Ann phones", false},
		{"delete phone missing contact", nil, "delphone Ann 123456789012", "Contact not found", false},
		{"delete alias", []string{"add Ann 123456789012"}, "remove Ann", "Contact Ann deleted successfully", false},
		{"birthday unset", []string{"add Ann 123456789012"}, "birthday Ann", "Birthday is not set for this contact", false},
		{"birthday one day", []string{"add Ann 123456789012 02-01-1990"}, "bday Ann", "Days to birthday of Ann: 1 day", false},
		{"birthday missing", nil, "birthday Ann", "Contact not found", false},
		{"find by phone", []string{"add Ann 123456789012"}, "find 6789", "Contact Ann: +123456789012, birthday None", false},
		{"show empty", nil, "show 3", "No contacts to show", false},
		{"show bad size", nil, "show zero", "Page size must be a positive number", false},
		{"upcoming", []string{"add Ann 123456789012 05-01-1990"}, "upcoming 10", "Ann: 05-01-2025, days left: 4", false},
		{"upcoming none", []string{"add Ann 123456789012 05-06-1990"}, "upcoming", "No birthdays in the next 30 days", false},
		{"upcoming bad", nil, "upcoming soon", "Wrong number of arguments. Usage: upcoming [days]", false},
		{"import missing file", nil, "import /nonexistent/contacts.vcf", "File error: open /nonexistent/contacts.vcf: no such file or directory", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSession(t, new(MockStore), "", "en")
			for _, l := range tt.setup {
				s.Execute(context.Background(), l)
			}

			got, exit := s.Execute(context.Background(), tt.line)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantExit, exit)
		})
	}
}

func TestSession_Execute_Help(t *testing.T) {
	s, out := newSession(t, new(MockStore), "", "en")

	got, _ := s.Execute(context.Background(), "help")
	assert.Equal(t, "End of the list", got)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Available commands:\n"))
	for _, kw := range []string{"add name phone [birthday]", "change name old_phone new_phone", "delete name (del, remove)", "delphone name phone (unphone)", "exit (good, bye, close, quit)"} {
		assert.Contains(t, text, kw)
	}
}

func TestSession_Execute_Ukrainian(t *testing.T) {
	s, _ := newSession(t, new(MockStore), "", "uk")
	ctx := context.Background()

	got, _ := s.Execute(ctx, "delete Ann")
	assert.Equal(t, "Контакт не знайдено", got)

	s.Execute(ctx, "add Ann 123456789012 03-01-1990")
	got, _ = s.Execute(ctx, "birthday Ann")
	assert.Equal(t, "До дня народження Ann: 2 дні", got)
}

// TestSession_Execute_Interchange writes a vCard and a calendar, then imports the vCard back.
func TestSession_Execute_Interchange(t *testing.T) {
	dir := t.TempDir()
	vcf := filepath.Join(dir, "contacts.vcf")
	ics := filepath.Join(dir, "birthdays.ics")
	ctx := context.Background()

	s, _ := newSession(t, new(MockStore), "", "en")
	s.Execute(ctx, "add Ann 123456789012 01-01-2000")
	s.Execute(ctx, "add Bob 210987654321")

	got, _ := s.Execute(ctx, "export "+vcf)
	assert.Equal(t, "2 contacts exported to "+vcf, got)

	got, _ = s.Execute(ctx, "calendar "+ics)
	assert.Equal(t, "3 birthday events written to "+ics, got)
	data, err := os.ReadFile(ics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Birthday: Ann (25)")

	s.Execute(ctx, "delete Bob")
	got, _ = s.Execute(ctx, "import "+vcf)
	assert.Equal(t, "Imported from "+vcf+": 1 added, 0 updated, 0 skipped", got)

	_, ok := s.Book().Get("Bob")
	assert.True(t, ok)
}
