package config

import (
	"io/fs"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName          = "Go Address Book"
	AppID            = "com.github.tartampluch.go-addressbook"
	CommandName      = "addressbook"
	LogFileName      = "addressbook.log"
	BookFileName     = "address_book.json"
	SettingsFileName = "config.yml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for the address book and logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagBook         = "book"
	FlagConfig       = "config"
	FlagLanguage     = "lang"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stderr"
	FlagDescBook     = "Path to the address book JSON file"
	FlagDescConfig   = "Path to the YAML settings file"
	FlagDescLanguage = "Console language (en, uk)"
	CmdShort         = "Interactive console contact manager"
	MsgVersionOutput = "%s version %s (commit %s, built %s) %s/%s\n"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultLanguage     = "en"
	DefaultPageSize     = 5
	DefaultUpcomingDays = 30

	// NameMinLength is the minimum number of letters in a contact name.
	NameMinLength = 2
	// PhoneDigits is the exact number of digits a phone number must have.
	PhoneDigits = 12

	// BirthdayPlaceholder is persisted in place of an unset birthday.
	BirthdayPlaceholder = "None"

	DefaultLeapYear = 2000 // Leap year fallback for vCard dates like --02-29
	UIDSalt         = "go-addressbook-v1-"
)

// SupportedLanguages defines the list of available console languages (ISO 639-1).
var SupportedLanguages = []string{"en", "uk"}

// -----------------------------------------------------------------------------
// Console Layout
// -----------------------------------------------------------------------------

const (
	PromptSeparatorWidth = 50
	PromptSeparatorChar  = "-"
	PhonePrefix          = "+"
	PhoneSeparator       = ", "
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyPrompt          = "prompt_input"
	TKeyPromptPageSize  = "prompt_page_size"
	TKeyPromptContinue  = "prompt_continue"
	TKeyHelpHeader      = "help_header"
	TKeyHelpFooter      = "help_footer"
	TKeyGreeting        = "msg_greeting"
	TKeyFarewell        = "msg_farewell"
	TKeyContactAdded    = "msg_contact_added"
	TKeyContactExists   = "msg_contact_exists"
	TKeyPhoneAdded      = "msg_phone_added"
	TKeyPhoneChanged    = "msg_phone_changed"
	TKeyPhoneRemoved    = "msg_phone_removed"
	TKeyContactDeleted  = "msg_contact_deleted"
	TKeyDaysToBirthday  = "msg_days_to_birthday"
	TKeyFindResult      = "msg_find_result"
	TKeyFindNone        = "msg_find_none"
	TKeyShowEnd         = "msg_show_end"
	TKeyShowEmpty       = "msg_show_empty"
	TKeyUpcomingEntry   = "msg_upcoming_entry"
	TKeyUpcomingNone    = "msg_upcoming_none"
	TKeyExported        = "msg_exported"
	TKeyImported        = "msg_imported"
	TKeyCalendarWritten = "msg_calendar_written"
	TKeySaveFailed      = "msg_save_failed"
	TKeyEvtSummaryAge   = "event_summary_age" // Requires Name, Age

	// Errors rendered to the console.
	TKeyErrInvalidName    = "err_invalid_name"
	TKeyErrInvalidPhone   = "err_invalid_phone"
	TKeyErrInvalidDate    = "err_invalid_date"
	TKeyErrNotFound       = "err_not_found"
	TKeyErrPhoneNotFound  = "err_phone_not_found"
	TKeyErrNoBirthday     = "err_no_birthday"
	TKeyErrUnknownCommand = "err_unknown_command"
	TKeyErrMalformed      = "err_malformed_command"
	TKeyErrPageSize       = "err_page_size"
	TKeyErrFile           = "err_file"
	TKeyErrUnexpected     = "err_unexpected"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Address Book//Interchange//EN"
	ICalCalName = "Birthdays"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "goaddressbook"

	PropXWRCalName = "X-WR-CALNAME"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	FallbackSummaryAge = "Birthday: %s (%d)"

	// iCal Properties
	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"
	PropCategories = "CATEGORIES"
	ICalCategory   = "BIRTHDAY"
)

// -----------------------------------------------------------------------------
// Data Formats
// -----------------------------------------------------------------------------

const (
	// DateFormatBirthday is the console and storage layout (day-month-year).
	DateFormatBirthday = "02-01-2006"

	// Date layouts used for vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	ExtTemp = ".tmp-*"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrAppFailed       = "application failed unexpectedly"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrConfigDir       = "could not determine user config dir"
	ErrCreateDir       = "could not create app directory"
	ErrSettingsRead    = "failed to read settings file"
	ErrSettingsParse   = "failed to parse settings file"
	ErrSettingsInvalid = "invalid settings"
	ErrBookRead        = "failed to read address book"
	ErrBookWrite       = "failed to write address book"
	ErrBookEncode      = "failed to encode address book"
	ErrBookDecode      = "failed to decode address book"
	ErrVCardEncode     = "failed to encode vCard"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrInputRead       = "failed to read console input"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, ending console session"
	MsgSessionStart   = "Console session started"
	MsgSessionEnd     = "Console session ended"
	MsgCommand        = "Command dispatched"
	MsgCommandFailed  = "Command failed"
	MsgBookLoaded     = "Address book loaded"
	MsgBookSaved      = "Address book saved"
	MsgBookMissing    = "Address book file not found, starting empty"
	MsgBookMalformed  = "Address book file is malformed, starting empty"
	MsgSkippedRecord  = "Skipping invalid record"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgSkippedNoYear  = "Skipping birthday without a year"
	MsgImportDone     = "vCard import finished"
	MsgExportDone     = "vCard export finished"
	MsgGenSuccess     = "Calendar generation successful"
	MsgSettingsLoaded = "Settings loaded"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyCommand   = "command"
	LogKeyName      = "name"
	LogKeyValue     = "value"
	LogKeyCount     = "count"
	LogKeyStats     = "stats"
	LogKeyTotal     = "total_cards"
	LogKeyAdded     = "added"
	LogKeyMerged    = "merged"
	LogKeySkipped   = "skipped"
	LogKeyEvents    = "events"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain        = "main"
	CompConsole     = "console"
	CompStorage     = "storage"
	CompInterchange = "interchange"
	CompSettings    = "settings"
	CompI18n        = "i18n"
)
