package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"idlc/internal/ast"
	"idlc/internal/driver"
	"idlc/internal/project"
)

// addCompileFlags registers the flags shared by check and dump.
func addCompileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceP("ref", "R", nil, "reference file or directory (resolvable, never emitted)")
	f.String("mode", "", "default encoding mode for files without one (Slice1|Slice2)")
	f.Bool("warnings-as-errors", false, "treat warnings as errors")
	f.Int("jobs", 0, "max parallel parsers (0=auto)")
}

// compileOptions layers flags over idl.toml: an explicitly set flag wins,
// otherwise the manifest value, otherwise the flag default.
func compileOptions(cmd *cobra.Command, args []string) (driver.Options, error) {
	f := cmd.Flags()
	pf := cmd.Root().PersistentFlags()
	var opts driver.Options

	wd, err := os.Getwd()
	if err != nil {
		return opts, err
	}
	opts.BaseDir = wd
	manifest, _, err := project.Load(wd)
	if err != nil {
		return opts, err
	}
	var cfg project.CompileConfig
	if manifest != nil {
		cfg = manifest.Config.Compile
	}

	opts.Sources = args
	if len(opts.Sources) == 0 {
		if manifest == nil {
			return opts, errors.New("no inputs: pass files or directories, or run inside a project with " + project.ManifestName)
		}
		opts.Sources = manifest.Sources()
	}

	if opts.References, err = f.GetStringSlice("ref"); err != nil {
		return opts, fmt.Errorf("failed to get ref flag: %w", err)
	}
	if !f.Changed("ref") && manifest != nil {
		opts.References = manifest.References()
	}

	modeStr, err := f.GetString("mode")
	if err != nil {
		return opts, fmt.Errorf("failed to get mode flag: %w", err)
	}
	if modeStr == "" {
		modeStr = cfg.Mode
	}
	if modeStr != "" {
		mode, ok := ast.ParseMode(modeStr, false)
		if !ok {
			return opts, fmt.Errorf("invalid mode %q (expected Slice1 or Slice2)", modeStr)
		}
		opts.DefaultMode = mode
	}

	if opts.WarningsAsErrors, err = f.GetBool("warnings-as-errors"); err != nil {
		return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if !f.Changed("warnings-as-errors") {
		opts.WarningsAsErrors = cfg.WarningsAsErrors
	}

	if opts.MaxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if !pf.Changed("max-diagnostics") && cfg.MaxDiagnostics > 0 {
		opts.MaxDiagnostics = cfg.MaxDiagnostics
	}

	if opts.Jobs, err = f.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.Timings, err = pf.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return opts, nil
}
