package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"idlc/internal/prof"
)

// setupProfiling starts the profilers requested by the persistent flags.
// They are stopped by execute once the command returns.
func (a *app) setupProfiling(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = pf.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	a.prof, err = prof.Start(opts)
	return err
}
