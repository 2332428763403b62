package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"idlc/internal/project"
)

func newInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an idl.toml project with a sample definition file",
		Long: `Init writes idl.toml and a sample .idl file into path (default: the
current directory), creating the directory when needed. An existing idl.toml
is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runInit,
	}
	cmd.Flags().String("mode", "Slice2", "default encoding mode recorded in idl.toml")
	return cmd
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if info, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", target, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", target)
	}

	mode, err := cmd.Flags().GetString("mode")
	if err != nil {
		return fmt.Errorf("failed to get mode flag: %w", err)
	}
	name := filepath.Base(target)
	manifestPath, err := project.Write(target, project.Config{
		Package: project.PackageConfig{Name: name},
		Compile: project.CompileConfig{Mode: mode, Sources: []string{"."}},
	})
	if err != nil {
		return err
	}

	module := moduleName(name)
	samplePath := filepath.Join(target, strings.ToLower(module)+".idl")
	sample := fmt.Sprintf("module %s {\n    /// A greeting sent to clients.\n    struct Greeting {\n        text: string,\n    }\n\n    interface Greeter {\n        greet(name: string) -> Greeting;\n    }\n}\n", module)
	if _, err := os.Stat(samplePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(samplePath, []byte(sample), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", samplePath, err)
		}
		fmt.Fprintf(a.stdout, "created %s\n", samplePath)
	}
	fmt.Fprintf(a.stdout, "created %s\n", manifestPath)
	return nil
}

// moduleName turns a directory name into a CamelCase IDL identifier.
func moduleName(dir string) string {
	var sb strings.Builder
	upper := true
	for _, r := range dir {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if sb.Len() == 0 && unicode.IsDigit(r) {
			sb.WriteString("M")
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	if sb.Len() == 0 {
		return "Project"
	}
	return sb.String()
}
