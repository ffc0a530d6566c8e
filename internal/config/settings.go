package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/creasty/defaults"
	"github.com/goccy/go-yaml"
)

// Settings holds the user-tunable options read from the YAML settings file.
// Any field missing from the file falls back to its default tag.
type Settings struct {
	BookPath     string `yaml:"book-path" default:"address_book.json"`
	Language     string `yaml:"language" default:"en"`
	PageSize     int    `yaml:"page-size" default:"5"`
	UpcomingDays int    `yaml:"upcoming-days" default:"30"`
}

// Validate checks that the loaded values are usable by the console.
func (s *Settings) Validate() error {
	if s.BookPath == "" {
		return fmt.Errorf("%s: book-path is empty", ErrSettingsInvalid)
	}
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: unsupported language %q", ErrSettingsInvalid, s.Language)
	}
	if s.PageSize < 1 {
		return fmt.Errorf("%s: page-size must be positive", ErrSettingsInvalid)
	}
	if s.UpcomingDays < 0 {
		return fmt.Errorf("%s: upcoming-days must not be negative", ErrSettingsInvalid)
	}
	return nil
}

// LoadSettings reads the YAML file at path and applies defaults.
// A missing file is not an error: the defaults are returned instead.
// The result is not validated so that command-line overrides can still be
// applied; callers run Validate once they are done.
func LoadSettings(path string) (*Settings, error) {
	s := new(Settings)

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
		default:
			if err := yaml.Unmarshal(data, s); err != nil {
				return nil, fmt.Errorf("%s: %w", ErrSettingsParse, err)
			}
		}
	}

	if err := defaults.Set(s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}

	slog.Debug(MsgSettingsLoaded,
		LogKeyComponent, CompSettings,
		LogKeyFile, path,
	)
	return s, nil
}

// DefaultSettingsPath returns the platform-specific location of the settings file.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}
