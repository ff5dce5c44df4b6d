package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minipas/internal/config"
	"github.com/arnavsurve/minipas/internal/history"
)

var (
	outDir     string
	configPath string
	verbose    bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "minipas",
	Short: "A tiny Pascal-subset interpreter",
	Long: `minipas evaluates arithmetic expressions and BEGIN ... END. programs
built from assignments and nested blocks.

Commands:
  init     Scaffold a new minipas project
  run      Run one or more .pas programs and print their variables
  eval     Evaluate a single arithmetic expression
  emit     Translate a program to pascal, rpn or lisp notation
  tokens   Dump the token stream of a source file
  repl     Start an interactive prompt
  serve    Serve /run and /eval over HTTP
  history  Show recently recorded runs
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		slog.Debug("config loaded", "path", cfg.Path, "project", cfg.Project)
		return nil
	},
}

// reportedError marks an error whose details were already printed.
type reportedError struct {
	error
}

func reported(err error) error {
	return &reportedError{err}
}

func (e *reportedError) Unwrap() error { return e.error }

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		var rep *reportedError
		if !errors.As(err, &rep) {
			errColor.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "output directory for emitted files (default from config)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFile, "project config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(InitCmd, RunCmd, EvalCmd, EmitCmd, TokensCmd, ReplCmd, ServeCmd, HistoryCmd)
}

// openRecorder returns the history store when history is enabled, else nil.
func openRecorder() (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.Resolve(cfg.History.Path))
	if err != nil {
		return nil, err
	}
	slog.Debug("history enabled", "path", cfg.Resolve(cfg.History.Path))
	return store, nil
}

// record logs a run if store is non-nil. Failures only warn.
func record(store *history.Store, mode, src, result string, runErr error) {
	if store == nil {
		return
	}
	entry := &history.Entry{Mode: mode, Source: src, Result: result}
	if runErr != nil {
		entry.ErrorKind = classify(runErr)
		entry.Error = runErr.Error()
	}
	if err := store.Record(entry); err != nil {
		slog.Warn("could not record run", "err", err)
	}
}
