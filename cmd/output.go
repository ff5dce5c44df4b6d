package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/arnavsurve/minipas/internal/compiler"
)

var (
	errColor  = color.New(color.FgRed)
	okColor   = color.New(color.FgGreen)
	valColor  = color.New(color.FgBlue)
	kindColor = color.New(color.FgYellow, color.Bold)
)

func classify(err error) string {
	return compiler.Classify(err).String()
}

// printError writes err with its caret snippet against src.
func printError(w io.Writer, err error, src string) {
	kindColor.Fprintf(w, "✘ %s error\n", classify(err))
	errColor.Fprintln(w, compiler.Describe(err, src))
}

func printValue(w io.Writer, v fmt.Stringer) {
	valColor.Fprintln(w, v.String())
}
