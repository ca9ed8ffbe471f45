package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a journal export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Export writes every record in j to w, oldest first. An empty journal is
// written as an empty list.
func Export(ctx context.Context, j Journal, w io.Writer, format Format) error {
	records, err := j.List(ctx)
	if err != nil {
		return errors.Join(ErrExportFailed, err)
	}
	if records == nil {
		records = []Record{}
	}

	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return errors.Join(ErrExportFailed, err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return errors.Join(ErrExportFailed, err)
		}
		if err := enc.Close(); err != nil {
			return errors.Join(ErrExportFailed, err)
		}
	default:
		return errors.Join(ErrExportFailed, fmt.Errorf("%w: %q", ErrUnknownFormat, format))
	}
	return nil
}
