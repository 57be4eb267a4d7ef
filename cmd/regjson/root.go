package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/joshuapare/regjson/internal/config"
	"github.com/joshuapare/regjson/internal/logger"
	"github.com/joshuapare/regjson/internal/watch"
	"github.com/joshuapare/regjson/internal/writer"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// env carries the process dependencies so tests can swap them.
type env struct {
	fs     afero.Fs
	clock  clockwork.Clock
	stdout io.Writer
	stderr io.Writer

	// newSink builds the output destination; nil writes files on fs.
	newSink func(fs afero.Fs, path string) writer.Sink
}

func defaultEnv() env {
	return env{
		fs:     afero.NewOsFs(),
		clock:  clockwork.NewRealClock(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// exitCodeError carries a process exit code. Its message has already been
// shown to the user.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

// normalizeArgs accepts the single-dash long form -watch.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i, a := range out {
		if a == "--" {
			break
		}
		if a == "-watch" || strings.HasPrefix(a, "-watch=") {
			out[i] = "-" + a
		}
	}
	return out
}

func run(ctx context.Context, e env, args []string) int {
	cmd := newRootCmd(e)
	cmd.SetArgs(normalizeArgs(args))
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var codeErr *exitCodeError
	if errors.As(err, &codeErr) {
		return codeErr.code
	}
	if msg := missingValueMessage(err); msg != nil {
		fmt.Fprintln(e.stdout, msg)
		return exitUsage
	}
	// flag parsing and other cobra errors
	fmt.Fprintln(e.stderr, "Error:", err)
	return exitUsage
}

// missingValueMessage maps a bare -r or -o at the end of the command line
// to the same message as an omitted flag.
func missingValueMessage(err error) error {
	var required *pflag.ValueRequiredError
	if !errors.As(err, &required) || required.GetFlag() == nil {
		return nil
	}
	switch required.GetFlag().Name {
	case config.KeyRegistry:
		return config.ErrMissingRegistry
	case config.KeyOutput:
		return config.ErrMissingOutput
	}
	return nil
}

func newRootCmd(e env) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "regjson -r <registry path> -o <output file> [-watch]",
		Short: "Export a registry subtree to JSON",
		Long: `regjson reads a registry key and everything beneath it and writes the
result as one JSON object: values by name, subkeys as nested objects.

The registry path may carry a prefix before the root key, so paths copied
from the Registry Editor address bar work as-is.

Example:
  regjson -r "Computer\HKEY_CURRENT_USER\Software\Test" -o test.json
  regjson -r HKLM\System\Setup -o setup.json -watch
  regjson --from-reg export.reg -r HKCU\Software -o software.yaml --format yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(e.fs, cmd.Flags(), configFile)
			if err != nil {
				fmt.Fprintln(e.stderr, "Error:", err)
				return &exitCodeError{code: exitError, err: err}
			}
			if err := cfg.Validate(); err != nil {
				if errors.Is(err, config.ErrMissingRegistry) || errors.Is(err, config.ErrMissingOutput) {
					fmt.Fprintln(e.stdout, err)
				} else {
					fmt.Fprintln(e.stderr, "Error:", err)
				}
				return &exitCodeError{code: exitUsage, err: err}
			}
			if err := initLogging(cfg, e.stderr); err != nil {
				fmt.Fprintln(e.stderr, "Error:", err)
				return &exitCodeError{code: exitError, err: err}
			}
			if cfg.File != "" {
				logger.Debug("loaded config", "file", cfg.File)
			}
			return execute(cmd.Context(), e, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP(config.KeyRegistry, "r", "", "Registry key to export, e.g. HKEY_CURRENT_USER\\Software\\Test")
	flags.StringP(config.KeyOutput, "o", "", "Output file, overwritten on every export")
	flags.BoolP(config.KeyWatch, "w", false, "Re-export until interrupted (also accepted as -watch)")
	flags.Duration(config.KeyInterval, watch.DefaultInterval, "Pause between exports in watch mode")
	flags.String(config.KeyFormat, "json", "Output format: json or yaml")
	flags.String(config.KeyFromReg, "", "Read keys from a .reg file instead of the live registry")
	flags.Bool(config.KeyDebug, false, "Log every skipped key and value")
	flags.BoolP(config.KeyQuiet, "q", false, "Suppress all output except errors")
	flags.String(config.KeyLogFile, "", "Write JSON logs to this file instead of stderr")
	flags.StringVar(&configFile, "config", "", "YAML config file (default ./regjson.yaml if present)")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func initLogging(cfg *config.Config, stderr io.Writer) error {
	level := slog.LevelInfo
	switch {
	case cfg.Debug:
		level = slog.LevelDebug
	case cfg.Quiet:
		level = slog.LevelError
	}
	return logger.Init(logger.Options{
		Enabled: true,
		Level:   level,
		Output:  stderr,
		LogFile: cfg.LogFile,
	})
}
