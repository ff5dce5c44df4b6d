package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minipas/internal/compiler/lexer"
)

var tokensExpr string

// tokens: dump the lexer output
var TokensCmd = &cobra.Command{
	Use:   "tokens [source.pas]",
	Short: "Print the token stream of a file or an inline source (-e)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := tokensExpr
		switch {
		case len(args) == 1:
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			src = string(b)
		case src == "":
			return fmt.Errorf("give a source file or -e <source>")
		}

		toks, err := lexer.Tokenize(src)
		out := cmd.OutOrStdout()
		for _, tok := range toks {
			fmt.Fprintf(out, "%4d:%-3d %s\n", tok.Line, tok.Column, tok)
		}
		if err != nil {
			printError(cmd.ErrOrStderr(), err, src)
			return reported(err)
		}
		return nil
	},
}

func init() {
	TokensCmd.Flags().StringVarP(&tokensExpr, "expr", "e", "", "inline source to tokenize")
}
