package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minipas/internal/compiler"
	"github.com/arnavsurve/minipas/internal/history"
)

// eval: evaluate one arithmetic expression
var EvalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an arithmetic expression",
	Example: `  minipas eval "7 + 3 * (10 / (12 / (3 + 1) - 1))"
  minipas eval -- -5 + 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := strings.Join(args, " ")

		store, err := openRecorder()
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		val, evalErr := compiler.EvalExpression(src)
		if evalErr != nil {
			printError(cmd.ErrOrStderr(), evalErr, src)
			record(store, history.ModeExpression, src, "", evalErr)
			return reported(evalErr)
		}
		printValue(cmd.OutOrStdout(), val)
		record(store, history.ModeExpression, src, val.String(), nil)
		return nil
	},
}
