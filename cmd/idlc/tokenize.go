package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"idlc/internal/diagfmt"
	"idlc/internal/driver"
)

func newTokenizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.idl",
		Short: "Print the token stream of an IDL file",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func (a *app) runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// диагностику лексера в stderr, токены всё равно печатаем
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(a.stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   useColor(cmd, a.stderr),
			Context: 1,
		})
	}

	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(a.stdout, result.Tokens, result.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(a.stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors(false) {
		return errCompileFailed
	}
	return nil
}
