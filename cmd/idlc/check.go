package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"idlc/internal/diag"
	"idlc/internal/diagfmt"
	"idlc/internal/driver"
	"idlc/internal/stats"
	"idlc/internal/version"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file.idl|directory]...",
		Short: "Parse, resolve and validate IDL files",
		Long: `Check runs the full front end over the given files (directories expand to
every *.idl file inside). Without arguments the sources listed in idl.toml are used.`,
		RunE: a.runCheck,
	}
	addCompileFlags(cmd)
	f := cmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json|sarif)")
	f.Bool("no-warnings", false, "hide warnings")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.Bool("fullpath", false, "emit absolute file paths in output")
	f.Bool("disk-cache", false, "reuse diagnostics of unchanged inputs across runs")
	f.Bool("stats", false, "print model statistics after a successful check")
	f.String("ui", "off", "progress view (auto|on|off)")
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	format, err := f.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	noWarnings, err := f.GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	withNotes, err := f.GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := f.GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	useDiskCache, err := f.GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	showStats, err := f.GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}

	opts, err := compileOptions(cmd, args)
	if err != nil {
		return err
	}
	if noWarnings && opts.WarningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if useDiskCache {
		if opts.DiskCache, err = driver.OpenDiskCache("idlc"); err != nil {
			return err
		}
	}
	opts.NeedModel = showStats

	uiValue, err := f.GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	var st *driver.State
	if format == "pretty" && shouldUseTUI(mode, a.stderr) {
		st, err = compileWithUI(cmd.Context(), a.stderr, "idlc check", opts)
	} else {
		st, err = driver.Compile(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}

	bag := st.Bag
	if noWarnings {
		bag = onlyErrors(bag)
	}
	pathMode := diagfmt.PathModeRelative
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(a.stderr, bag, st.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, a.stderr),
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
	case "short":
		err = diagfmt.Short(a.stderr, bag, st.FileSet, withNotes)
	case "json":
		err = diagfmt.JSON(a.stdout, bag, st.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		})
	case "sarif":
		err = diagfmt.Sarif(a.stdout, bag, st.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "idlc",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		})
	}
	if err != nil {
		return err
	}

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(a.stderr, st.Timer.Summary())
	}
	if format == "pretty" {
		a.summary(cmd, st)
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
	return nil
}

// summary prints the closing line of a pretty run unless --quiet.
func (a *app) summary(cmd *cobra.Command, st *driver.State) {
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); quiet {
		return
	}
	w := a.stderr
	if st.Bag.Len() > 0 {
		fmt.Fprintln(w)
	}
	cached := ""
	if st.Cached {
		cached = " (cached)"
	}
	if st.Succeeded() {
		fmt.Fprintf(w, "ok: %d files checked, %d warnings%s\n", len(st.FileSet.Files()), st.Bag.WarningCount(), cached)
		return
	}
	fmt.Fprintf(w, "failed: %d errors, %d warnings%s\n", st.Bag.ErrorCount(), st.Bag.WarningCount(), cached)
}

func onlyErrors(bag *diag.Bag) *diag.Bag {
	out := diag.NewBag(bag.Cap())
	for _, d := range bag.Filter(diag.SevError) {
		out.Add(d)
	}
	return out
}
