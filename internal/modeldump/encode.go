package modeldump

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the dump encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTree Format = "tree"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatTree:
		return f, nil
	}
	return "", fmt.Errorf("unknown dump format %q (want json, yaml or tree)", s)
}

// Encode writes the model in the given format.
func Encode(w io.Writer, m *Model, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(m)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			_ = enc.Close()
			return fmt.Errorf("modeldump: encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTree:
		return writeTree(w, m)
	}
	return fmt.Errorf("modeldump: unsupported format %q", format)
}

// writeTree prints the model with box-drawing guides:
//
//	test.idl (mode: Slice2)
//	└─ module M
//	   └─ struct P
func writeTree(w io.Writer, m *Model) error {
	for _, f := range m.Files {
		if _, err := fmt.Fprintf(w, "%s%s\n", f.Name, formatProps(f.Props)); err != nil {
			return err
		}
		if err := writeChildren(w, f.Children, ""); err != nil {
			return err
		}
	}
	return nil
}

func writeChildren(w io.Writer, children []*Node, prefix string) error {
	for i, n := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, label(n)); err != nil {
			return err
		}
		if err := writeChildren(w, n.Children, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

func label(n *Node) string {
	var sb strings.Builder
	sb.WriteString(n.Kind)
	if n.Name != "" {
		sb.WriteByte(' ')
		sb.WriteString(n.Name)
	}
	if n.Type != "" {
		sb.WriteString(": ")
		sb.WriteString(n.Type)
	}
	sb.WriteString(formatProps(n.Props))
	return sb.String()
}

func formatProps(props map[string]string) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + props[k]
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
