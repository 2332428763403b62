// Command idlc checks IDL definitions and dumps the resolved model.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"idlc/internal/ast"
	"idlc/internal/prof"
	"idlc/internal/trace"
	"idlc/internal/version"
)

// errCompileFailed is returned after the diagnostics have already been shown.
var errCompileFailed = errors.New("compilation failed")

// app is the state shared by all subcommands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	tracer trace.Tracer
	prof   *prof.Session
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "idlc",
		Short:         "IDL compiler front end",
		Long:          `idlc parses IDL definitions, resolves every type reference and checks them against their encoding mode`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setupProfiling(cmd); err != nil {
				return err
			}
			return a.setupTracing(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			a.closeTracing(cmd)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in memory for crash dumps")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(
		newCheckCmd(a),
		newDumpCmd(a),
		newTokenizeCmd(a),
		newInitCmd(a),
		newVersionCmd(a),
	)
	return root
}

// execute runs the CLI and returns the process exit code:
// 0 success, 1 failed compilation or usage error, 2 internal compiler error.
func execute(args []string, stdout, stderr io.Writer) (code int) {
	a := &app{stdout: stdout, stderr: stderr, tracer: trace.Nop}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var ice ast.InternalError
		err, isErr := r.(error)
		if !isErr || !errors.As(err, &ice) {
			a.dumpTrace()
			panic(r)
		}
		fmt.Fprintf(stderr, "idlc: %v\n", ice)
		fmt.Fprintln(stderr, "this is a bug in idlc; please report it together with the input")
		a.dumpTrace()
		code = 2
	}()

	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.Execute()
	// PersistentPostRun не вызывается, если RunE вернул ошибку
	if cerr := a.tracer.Close(); cerr != nil {
		fmt.Fprintf(stderr, "trace: close error: %v\n", cerr)
	}
	if perr := a.prof.Stop(); perr != nil {
		fmt.Fprintf(stderr, "idlc: %v\n", perr)
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errCompileFailed):
		return 1
	default:
		fmt.Fprintf(stderr, "idlc: %v\n", err)
		return 1
	}
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// useColor resolves --color for w.
func useColor(cmd *cobra.Command, w io.Writer) bool {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
