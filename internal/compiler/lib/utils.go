package lib

import (
	"fmt"
	"strings"
)

// Snippet renders the source line at (line, col) with up to one line of
// context either side and a caret under the column:
//
//	   1 | BEGIN
//	   2 |   a := END.
//	     |        ^
//
// line and col are 1-indexed and clamped to the source.
func Snippet(src string, line, col int) string {
	lines := strings.Split(src, "\n")
	line = clamp(line, 1, len(lines))

	width := len(fmt.Sprint(min(line+1, len(lines))))
	var out strings.Builder
	for n := max(line-1, 1); n <= min(line+1, len(lines)); n++ {
		text := strings.TrimRight(lines[n-1], "\r")
		fmt.Fprintf(&out, "  %*d | %s\n", width, n, text)
		if n == line {
			c := clamp(col, 1, len(text)+1)
			fmt.Fprintf(&out, "  %*s | %s^\n", width, "", caretPadding(text, c))
		}
	}
	return out.String()
}

// caretPadding keeps tabs so the caret lines up with the original text.
func caretPadding(text string, col int) string {
	var pad strings.Builder
	for i := 0; i < col-1 && i < len(text); i++ {
		if text[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	for i := len(text); i < col-1; i++ {
		pad.WriteByte(' ')
	}
	return pad.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
