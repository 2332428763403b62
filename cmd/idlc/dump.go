package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"idlc/internal/diagfmt"
	"idlc/internal/driver"
	"idlc/internal/modeldump"
	"idlc/internal/stats"
)

func newDumpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [flags] [file.idl|directory]...",
		Short: "Print the resolved model",
		Long: `Dump compiles the inputs and, when there are no errors, walks the resolved
model and prints it. Reference files are resolved against but not printed.`,
		RunE: a.runDump,
	}
	addCompileFlags(cmd)
	cmd.Flags().String("format", "tree", "output format (tree|json|yaml)")
	cmd.Flags().Bool("stats", false, "print construct counts instead of the model")
	return cmd
}

func (a *app) runDump(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := modeldump.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	showStats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}

	opts, err := compileOptions(cmd, args)
	if err != nil {
		return err
	}
	opts.NeedModel = true
	st, err := driver.Compile(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if st.Bag.Len() > 0 {
		diagfmt.Pretty(a.stderr, st.Bag, st.FileSet, diagfmt.PrettyOpts{
			Color:    useColor(cmd, a.stderr),
			Context:  1,
			PathMode: diagfmt.PathModeRelative,
		})
	}
	if !st.Succeeded() {
		return errCompileFailed
	}

	if showStats {
		s, err := stats.Collect(st.Unit())
		if err != nil {
			return err
		}
		return s.Write(a.stdout)
	}
	m, err := modeldump.Build(st.Unit(), st.FileSet)
	if err != nil {
		return err
	}
	return modeldump.Encode(a.stdout, m, format)
}
