package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"idlc/internal/trace"
)

// setupTracing builds the tracer from the --trace* flags and puts it into
// the command context.
func (a *app) setupTracing(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	output, err := pf.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := pf.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := pf.GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := pf.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := pf.GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	// --trace без уровня включает фазы
	if output != "" && !pf.Changed("trace-level") {
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	}
	if output == "-" || (output == "" && mode != trace.ModeRing) {
		cfg.Output = a.stderr
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	a.tracer = tracer
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	return nil
}

func (a *app) closeTracing(cmd *cobra.Command) {
	if err := a.tracer.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
	}
	a.tracer = trace.Nop
}

// dumpTrace writes the ring buffer, if any, after a crash.
func (a *app) dumpTrace() {
	ring, ok := trace.Ring(a.tracer)
	if !ok {
		return
	}
	fmt.Fprintln(a.stderr, "--- last trace events ---")
	if err := ring.Dump(a.stderr, trace.FormatText); err != nil {
		fmt.Fprintf(a.stderr, "trace: dump error: %v\n", err)
	}
}
