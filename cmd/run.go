package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arnavsurve/minipas/internal/compiler"
	"github.com/arnavsurve/minipas/internal/compiler/scope"
	"github.com/arnavsurve/minipas/internal/history"
)

var runFormat string

// run: execute programs and print their final variables
var RunCmd = &cobra.Command{
	Use:   "run [source.pas ...]",
	Short: "Run programs and print their final variables",
	Long: `Run each program in a fresh environment and print the variables it
assigned. With no arguments every .pas file in the configured source
directory is run.`,
	RunE: runRun,
}

func init() {
	RunCmd.Flags().StringVarP(&runFormat, "format", "f", "text", "output format: text, yaml or json")
}

func runRun(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		matches, err := filepath.Glob(filepath.Join(cfg.Resolve(cfg.Source), "*"+compiler.SourceExt))
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no %s files in %s", compiler.SourceExt, cfg.Resolve(cfg.Source))
		}
		files = matches
	}

	store, err := openRecorder()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed := 0
	for _, file := range files {
		if len(files) > 1 {
			fmt.Fprintf(out, "↪ %s\n", file)
		}
		slog.Debug("running", "file", file)

		env, src, runErr := compiler.RunFile(file)
		if runErr != nil {
			failed++
			if compiler.Classify(runErr) == compiler.KindInternal {
				errColor.Fprintln(errOut, runErr)
				continue
			}
			printError(errOut, runErr, src)
			record(store, history.ModeProgram, src, "", runErr)
			continue
		}

		text, err := formatEnvironment(env, runFormat)
		if err != nil {
			return err
		}
		valColor.Fprint(out, text)
		record(store, history.ModeProgram, src, compiler.FormatBindings(env), nil)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d program(s) failed", failed, len(files))
	}
	return nil
}

func formatEnvironment(env *scope.Environment, format string) (string, error) {
	switch format {
	case "text":
		return compiler.FormatBindings(env), nil
	case "yaml":
		b, err := yaml.Marshal(env.Snapshot())
		if err != nil {
			return "", err
		}
		if env.Len() == 0 {
			return "", nil
		}
		return string(b), nil
	case "json":
		b, err := json.MarshalIndent(env.Snapshot(), "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, yaml or json)", format)
}
