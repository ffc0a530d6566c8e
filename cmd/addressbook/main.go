package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/console"
	"github.com/tartampluch/go-addressbook/internal/storage"
)

// main is the application entry point.
// It delegates execution to runMain so that deferred calls (like closing the
// log file) run before the process terminates.
func main() {
	os.Exit(runMain())
}

// flags holds the values bound to the root command.
type flags struct {
	version  bool
	debug    bool
	bookPath string
	cfgPath  string
	language string
}

// runMain parses arguments and maps the outcome to an exit code.
func runMain() int {
	var f flags

	root := &cobra.Command{
		Use:           config.CommandName,
		Short:         config.CmdShort,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.version {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return run(cmd.Context(), f, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.Flags().BoolVar(&f.version, config.FlagVersion, false, config.FlagDescVersion)
	root.Flags().BoolVar(&f.debug, config.FlagDebug, false, config.FlagDescDebug)
	root.Flags().StringVar(&f.bookPath, config.FlagBook, "", config.FlagDescBook)
	root.Flags().StringVar(&f.cfgPath, config.FlagConfig, "", config.FlagDescConfig)
	root.Flags().StringVar(&f.language, config.FlagLanguage, "", config.FlagDescLanguage)

	// Create a root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	// The session stops at the next cycle boundary.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	}
	return config.ExitCodeSuccess
}

// run loads settings, wires the session and blocks until the user exits.
func run(ctx context.Context, f flags, in io.Reader, out io.Writer) error {
	logCloser := setupLogging(f.debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}
	logStartupInfo()

	cfgPath := f.cfgPath
	if cfgPath == "" {
		if p, err := config.DefaultSettingsPath(); err == nil {
			cfgPath = p
		}
	}
	settings, err := config.LoadSettings(cfgPath)
	if err != nil {
		return err
	}

	// Flags override the settings file.
	if f.bookPath != "" {
		settings.BookPath = f.bookPath
	}
	if f.language != "" {
		settings.Language = f.language
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	session, err := console.NewSession(console.Options{
		Store:      storage.NewFileStore(settings.BookPath),
		UI:         console.NewConsole(in, out),
		Translator: console.NewTranslator(settings.Language),
		Clock:      book.RealClock{},
		Settings:   settings,
	})
	if err != nil {
		return err
	}

	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return nil
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
// Stdout belongs to the console, so logs go to a file in the user's cache
// directory, and to stderr as well in debug mode.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if debugMode {
		writers = append(writers, os.Stderr)
	}

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
