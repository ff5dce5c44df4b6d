package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minipas/internal/history"
)

var historyLimit int

// history: list recorded runs
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently recorded runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Resolve(cfg.History.Path)
		out := cmd.OutOrStdout()
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(out, "no history at %s (enable history in %s)\n", path, configPath)
			return nil
		}

		store, err := history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(out, "#%d %s %-10s %s  %s\n", e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Mode, shortHash(e.SourceHash), oneLine(e.Source))
			if e.Failed() {
				errColor.Fprintf(out, "    ✘ %s\n", e.Error)
			} else {
				valColor.Fprintf(out, "    %s\n", oneLine(e.Result))
			}
		}
		return nil
	},
}

func init() {
	HistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// shortHash abbreviates a source hash for listing; rows written by other
// tools may carry shorter values.
func shortHash(h string) string {
	return h[:min(len(h), 12)]
}
