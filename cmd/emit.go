package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minipas/internal/compiler"
	"github.com/arnavsurve/minipas/internal/compiler/emitter"
)

var emitFormat string

// emit: translate .pas -> pascal/rpn/lisp
var EmitCmd = &cobra.Command{
	Use:   "emit <source.pas>",
	Short: "Translate a program into pascal, rpn or lisp notation",
	Args:  cobra.ExactArgs(1),
	RunE:  emitRun,
}

func init() {
	EmitCmd.Flags().StringVarP(&emitFormat, "format", "f", "", "pascal, rpn or lisp (default from config)")
}

func emitRun(cmd *cobra.Command, args []string) error {
	src := args[0]

	format := cfg.EmitFormat()
	if emitFormat != "" {
		f, err := emitter.ParseFormat(emitFormat)
		if err != nil {
			return err
		}
		format = f
	}

	dir := outDir
	if dir == "" {
		dir = cfg.Resolve(cfg.Out)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "↪ emitting %q as %s → %q ...\n", src, format, dir+"/")

	outFile, err := compiler.EmitFile(src, dir, format)
	if err != nil {
		return err
	}

	okColor.Fprintf(out, "✔︎ wrote %s\n", outFile)
	return nil
}
