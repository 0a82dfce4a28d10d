// Package util provides shared utilities for the CLI
package util

import (
	"encoding/json"
	"io"
	"text/tabwriter"
)

// PrintJSON writes a JSON representation of v to w with proper indentation
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintRawJSON re-indents an already encoded JSON document
func PrintRawJSON(w io.Writer, raw json.RawMessage) error {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		_, werr := w.Write(append(raw, '\n'))
		return werr
	}
	return PrintJSON(w, v)
}

// NewTabWriter creates a new tabwriter configured for CLI output
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// YesNo formats a boolean for table output
func YesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
