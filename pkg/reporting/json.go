package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DefaultJSONFormatter implements JSON output functionality
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

// Format renders v as indented JSON
func (f *DefaultJSONFormatter) Format(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Print writes v as indented JSON to out
func (f *DefaultJSONFormatter) Print(out io.Writer, v interface{}) error {
	data, err := f.Format(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// WriteDecisionJSON writes a decision, or a slice of them, to path as indented JSON
func WriteDecisionJSON(v interface{}, path string) error {
	data, err := NewDefaultJSONFormatter().Format(v)
	if err != nil {
		return err
	}

	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
