package repl

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"

	"github.com/sunholo/piekernel/internal/ctx"
	"github.com/sunholo/piekernel/internal/value"
)

// printSigma lists every Sigma entry, oldest first, with the name
// column aligned. Claims show the claimed type's normal form; defines
// show the value's canonical printing.
func (r *REPL) printSigma(out io.Writer) {
	entries := r.driver.Sigma.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(out, dim("(empty)"))
		return
	}
	widest := 0
	for _, e := range entries {
		if w := displayWidth(e.Name); w > widest {
			widest = w
		}
	}
	bound := r.driver.Sigma.Bound()
	for _, e := range entries {
		name := padName(e.Name, widest)
		switch e.Kind {
		case ctx.ClaimKind:
			fmt.Fprintf(out, "%s %s %s\n", bold(name), dim(":"), cyan(typeString(bound, e.Type)))
		case ctx.DefineKind:
			fmt.Fprintf(out, "%s %s %s\n", bold(name), dim("="), e.Val)
		}
	}
}

func typeString(bound value.Bound, ty value.Value) string {
	term, err := value.ReadBackType(bound, ty)
	if err != nil {
		return ty.String()
	}
	return term.String()
}

// displayWidth measures a name in terminal columns: names are free to
// contain the same non-ASCII glyphs the grammar's keywords use, and
// East Asian wide runes occupy two cells.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

func padName(s string, to int) string {
	if pad := to - displayWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
