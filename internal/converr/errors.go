// Package converr defines the error types the conversion pipeline reports.
// Each failure kind is its own flat struct type so that callers branch on the
// type rather than on message text.
package converr

import "fmt"

// ConfigError represents missing or malformed configuration data, including
// an unreadable or unparsable mapping file.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// InputError represents an unreadable input file.
type InputError struct {
	FilePath string
	Err      error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("cannot read input file '%s': %v", e.FilePath, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// StructureError represents structurally invalid input: a bad or missing
// header, or text that cannot be parsed as delimited records at all.
type StructureError struct {
	Msg string
	Err error
}

func (e *StructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input structure: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("invalid input structure: %s", e.Msg)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

// RowError represents a single field-level failure in one data row.
type RowError struct {
	LineNumber int
	Field      string
	Msg        string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s %s", e.LineNumber, e.Field, e.Msg)
}

// UnmappedPayeeError reports one distinct payee with no configured
// organization mapping. The preflight gate aggregates one per unmapped name.
type UnmappedPayeeError struct {
	Payee string
}

func (e *UnmappedPayeeError) Error() string {
	return fmt.Sprintf("no organization mapping for payee '%s'", e.Payee)
}

// OutputError represents a failure to persist the generated output.
type OutputError struct {
	FilePath string
	Err      error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("cannot write output file '%s': %v", e.FilePath, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}
