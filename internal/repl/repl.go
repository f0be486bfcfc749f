// Package repl implements the interactive read-eval-print loop over
// the same Sigma-threading driver the batch tool uses. A line is
// either a colon-command, a top-level form (claim/define/data/
// check-same), or a bare expression, which is synthesized, evaluated,
// and read back to its normal form.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/piekernel/internal/checker"
	"github.com/sunholo/piekernel/internal/config"
	kerrors "github.com/sunholo/piekernel/internal/errors"
	"github.com/sunholo/piekernel/internal/parser"
	"github.com/sunholo/piekernel/internal/toplevel"
	"github.com/sunholo/piekernel/internal/value"
)

// Color functions for pretty output
var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

// REPL wraps a toplevel.Driver with line editing and history.
type REPL struct {
	driver  *toplevel.Driver
	cfg     *config.Config
	history []string
}

// New creates a REPL over an empty Sigma.
func New(cfg *config.Config) *REPL {
	if cfg == nil {
		cfg = config.Default()
	}
	return &REPL{driver: toplevel.New(), cfg: cfg}
}

var commands = []string{":help", ":quit", ":sigma", ":type", ":history", ":reset"}

// Start begins the REPL session.
func (r *REPL) Start(out io.Writer) {
	color.NoColor = color.NoColor || !r.cfg.Color

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".pie_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(prefix string) (c []string) {
		if strings.HasPrefix(prefix, ":") {
			for _, cmd := range commands {
				if strings.HasPrefix(cmd, prefix) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Fprintf(out, "%s\n", bold("Pie"))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	for {
		input, err := line.Prompt(r.cfg.Prompt)
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" || input == ":exit" {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			r.handleCommand(input, out)
			continue
		}

		r.handleInput(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) handleCommand(input string, out io.Writer) {
	cmd, rest, _ := strings.Cut(input, " ")
	switch cmd {
	case ":help", ":h":
		fmt.Fprintln(out, bold("Commands:"))
		fmt.Fprintf(out, "  %s           Show this help\n", cyan(":help"))
		fmt.Fprintf(out, "  %s           Exit the REPL\n", cyan(":quit"))
		fmt.Fprintf(out, "  %s          List the entries of Sigma\n", cyan(":sigma"))
		fmt.Fprintf(out, "  %s <expr>    Show the synthesized type of an expression\n", cyan(":type"))
		fmt.Fprintf(out, "  %s        Show input history\n", cyan(":history"))
		fmt.Fprintf(out, "  %s          Discard all claims and definitions\n", cyan(":reset"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, dim("Anything else is a top-level form or an expression:"))
		fmt.Fprintln(out, dim("  (claim x Nat)  (define x zero)  (add1 x)"))
	case ":sigma", ":context":
		r.printSigma(out)
	case ":type", ":t":
		r.showType(rest, out)
	case ":history":
		for _, h := range r.history {
			fmt.Fprintln(out, h)
		}
	case ":reset":
		r.driver = toplevel.New()
		fmt.Fprintln(out, green("Sigma cleared"))
	default:
		fmt.Fprintf(out, "%s: unknown command %s\n", red("Error"), cmd)
	}
}

// handleInput dispatches a non-command line: top-level forms go to the
// driver, everything else is treated as an expression to normalize.
func (r *REPL) handleInput(input string, out io.Writer) {
	if isToplevelForm(input) {
		forms, err := parser.ParseProgram(input, "<repl>")
		if err != nil {
			r.printError(err, out)
			return
		}
		for _, form := range forms {
			outcome, err := r.driver.Handle(form)
			if err != nil {
				r.printError(err, out)
				return
			}
			fmt.Fprintln(out, green(outcome.String()))
		}
		return
	}

	e, err := parser.ParseExpr(input, "<repl>")
	if err != nil {
		r.printError(err, out)
		return
	}
	ty, c, err := checker.Synth(e, r.driver.Sigma)
	if err != nil {
		r.printError(err, out)
		return
	}
	rho := r.driver.Sigma.ToRho()
	v, err := value.Eval(c, rho)
	if err != nil {
		r.printError(err, out)
		return
	}
	bound := r.driver.Sigma.Bound()
	norm, err := value.ReadBack(bound, ty, v)
	if err != nil {
		r.printError(err, out)
		return
	}
	tyNorm, err := value.ReadBackType(bound, ty)
	if err != nil {
		r.printError(err, out)
		return
	}
	fmt.Fprintf(out, "%s %s %s\n", norm, dim(":"), cyan(tyNorm.String()))
}

func (r *REPL) showType(src string, out io.Writer) {
	e, err := parser.ParseExpr(strings.TrimSpace(src), "<repl>")
	if err != nil {
		r.printError(err, out)
		return
	}
	ty, _, err := checker.Synth(e, r.driver.Sigma)
	if err != nil {
		r.printError(err, out)
		return
	}
	tyNorm, err := value.ReadBackType(r.driver.Sigma.Bound(), ty)
	if err != nil {
		r.printError(err, out)
		return
	}
	fmt.Fprintln(out, cyan(tyNorm.String()))
}

func (r *REPL) printError(err error, out io.Writer) {
	if rep, ok := kerrors.AsReport(err); ok {
		if r.cfg.JSON {
			if js, jerr := rep.ToJSON(false); jerr == nil {
				fmt.Fprintln(out, js)
				return
			}
		}
		fmt.Fprintf(out, "%s %s\n", red(rep.Code+":"), rep.Message)
		return
	}
	fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
}

func isToplevelForm(input string) bool {
	for _, kw := range []string{"(claim", "(define", "(check-same", "(data"} {
		if strings.HasPrefix(input, kw) {
			return true
		}
	}
	return false
}
