package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/arnavsurve/minipas/internal/compiler"
	"github.com/arnavsurve/minipas/internal/history"
)

const (
	promptMain = "minipas> "
	promptCont = "     ... "
)

const replHelp = `Enter an expression such as 7 + 3 * (10 / 4), or a program
starting with BEGIN; a program is read until a line ends with "." .
Every entry runs with a fresh set of variables.

  :help    show this text
  :quit    exit (Ctrl+D also exits)
`

// repl: interactive prompt
var ReplCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openRecorder()
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)

		histPath := cfg.Resolve(cfg.Repl.HistoryFile)
		if f, err := os.Open(histPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer saveReplHistory(line, histPath)

		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		fmt.Fprintln(out, "minipas REPL. Type :help for help, :quit to exit.")

		for {
			input, err := line.Prompt(promptMain)
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			if err != nil {
				return err
			}

			switch strings.TrimSpace(input) {
			case "":
				continue
			case ":quit", ":q":
				return nil
			case ":help":
				fmt.Fprint(out, replHelp)
				continue
			}

			src := input
			if compiler.IsProgram(src) {
				src, err = readProgram(line, src)
				if err != nil {
					// Ctrl+C / Ctrl+D inside a program drops it.
					fmt.Fprintln(out)
					continue
				}
			}
			line.AppendHistory(oneLine(src))

			result, mode, evalErr := evalEntry(src)
			if evalErr != nil {
				printError(errOut, evalErr, src)
			} else {
				valColor.Fprint(out, result)
			}
			record(store, mode, src, strings.TrimSuffix(result, "\n"), evalErr)
		}
	},
}

// readProgram keeps prompting until the accumulated source ends with ".".
func readProgram(line *liner.State, src string) (string, error) {
	for !strings.HasSuffix(strings.TrimSpace(src), ".") {
		more, err := line.Prompt(promptCont)
		if err != nil {
			return "", err
		}
		src += "\n" + more
	}
	return src, nil
}

// evalEntry runs src as a program if it opens with BEGIN, otherwise as an
// expression, and returns the text to show.
func evalEntry(src string) (string, string, error) {
	if compiler.IsProgram(src) {
		env, err := compiler.Run(src)
		if err != nil {
			return "", history.ModeProgram, err
		}
		if env.Len() == 0 {
			return "(no variables)\n", history.ModeProgram, nil
		}
		return compiler.FormatBindings(env), history.ModeProgram, nil
	}
	val, err := compiler.EvalExpression(src)
	if err != nil {
		return "", history.ModeExpression, err
	}
	return val.String() + "\n", history.ModeExpression, nil
}

func saveReplHistory(line *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		slog.Debug("could not save repl history", "path", path, "err", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		slog.Debug("could not save repl history", "path", path, "err", err)
	}
}
