package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultIndentSize = 2
)

// Format specifies the output document format.
type Format string

const (
	// FormatJSON outputs an indented JSON object.
	FormatJSON Format = "json"

	// FormatYAML outputs a YAML mapping.
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or yaml)", s)
	}
}

// EncodeOptions controls document encoding.
type EncodeOptions struct {
	// Format specifies output format.
	// Default: FormatJSON
	Format Format

	// IndentSize is the number of spaces per nesting level.
	// Default: 2
	IndentSize int
}

// DefaultEncodeOptions returns indented JSON.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Format:     FormatJSON,
		IndentSize: DefaultIndentSize,
	}
}

// Encode writes node to w as a complete document.
func Encode(w io.Writer, node *Node, opts EncodeOptions) error {
	data, err := Marshal(node, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal renders node as a complete document.
func Marshal(node *Node, opts EncodeOptions) ([]byte, error) {
	if node == nil {
		node = NewNode()
	}
	indent := opts.IndentSize
	if indent <= 0 {
		indent = DefaultIndentSize
	}

	switch opts.Format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(indent)
		if err := enc.Encode(node); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		data, err := json.MarshalIndent(node, "", strings.Repeat(" ", indent))
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.Format)
	}
}
