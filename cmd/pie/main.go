package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/sunholo/piekernel/internal/config"
	kerrors "github.com/sunholo/piekernel/internal/errors"
	"github.com/sunholo/piekernel/internal/parser"
	"github.com/sunholo/piekernel/internal/repl"
	"github.com/sunholo/piekernel/internal/toplevel"
)

var (
	// Version info - set by ldflags during build
	Version = "dev"

	// Color output
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		jsonFlag    = flag.Bool("json", false, "Emit errors as JSON reports")
		configFlag  = flag.String("config", "", "Path to a pie.yaml config file")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("pie %s\n", bold(Version))
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read config '%s': %v\n", red("Error"), *configFlag, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *jsonFlag {
		cfg.JSON = true
	}
	color.NoColor = color.NoColor || !cfg.Color

	switch command := flag.Arg(0); command {
	case "run":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: pie run <file.pie>")
			os.Exit(1)
		}
		os.Exit(runFile(flag.Arg(1), cfg, os.Stdout, true))

	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: pie check <file.pie>")
			os.Exit(1)
		}
		os.Exit(runFile(flag.Arg(1), cfg, os.Stdout, false))

	case "repl":
		repl.New(cfg).Start(os.Stdout)

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("pie - a little dependently-typed language"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pie <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file>    Elaborate a file top to bottom, printing each outcome (- for stdin)\n", cyan("run"))
	fmt.Printf("  %s <file>  Elaborate a file, printing only errors\n", cyan("check"))
	fmt.Printf("  %s           Start the interactive REPL\n", cyan("repl"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version        Print version information")
	fmt.Println("  --json           Emit errors as JSON reports")
	fmt.Println("  --config <file>  Read presentation settings from a pie.yaml")
}

// runFile elaborates every top-level form of a file in order, printing
// each outcome (or just errors, for `check`). One error per form; the
// driver continues with Sigma unchanged, and the exit code is 1 if any
// form failed (spec §6, §7).
func runFile(filename string, cfg *config.Config, out io.Writer, verbose bool) int {
	var content []byte
	var err error
	if filename == "-" {
		content, err = io.ReadAll(os.Stdin)
		filename = "<stdin>"
	} else {
		content, err = os.ReadFile(filename)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read '%s': %v\n", red("Error"), filename, err)
		return 1
	}
	forms, err := parser.ParseProgram(string(content), filename)
	if err != nil {
		printError(err, cfg, out)
		return 1
	}

	driver := toplevel.New()
	failures := 0
	for _, form := range forms {
		outcome, err := driver.Handle(form)
		if err != nil {
			failures++
			printError(err, cfg, out)
			continue
		}
		if verbose {
			fmt.Fprintln(out, green(outcome.String()))
		}
	}
	if failures > 0 {
		return 1
	}
	return 0
}

func printError(err error, cfg *config.Config, out io.Writer) {
	if rep, ok := kerrors.AsReport(err); ok {
		if cfg.JSON {
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
