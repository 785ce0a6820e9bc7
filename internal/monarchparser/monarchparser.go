// Package monarchparser parses the 9-column transaction CSV export into raw
// row records for the conversion pipeline. It validates the header
// positionally and tags every data row with its record position in the file.
package monarchparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"monarch-txf/internal/converr"
	"monarch-txf/internal/logging"
	"monarch-txf/internal/models"
)

var log logging.Logger = logging.NewLogrusAdapter("info", "text")

// SetLogger allows setting a configured logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// ParseFile reads and parses a transaction export file.
// The whole file is materialized before parsing begins.
func ParseFile(filePath string) ([]models.RawRow, error) {
	log.WithField(logging.FieldFile, filePath).Info("Reading transaction export")

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to read input file")
		return nil, &converr.InputError{FilePath: filePath, Err: err}
	}

	return Parse(strings.NewReader(string(data)))
}

// Parse parses transaction export text from a reader and returns one RawRow
// per data record, in file order. A header-only input yields an empty slice.
func Parse(r io.Reader) ([]models.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &converr.InputError{FilePath: "", Err: err}
	}

	text := strings.TrimPrefix(string(data), "\uFEFF")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1 // ragged rows are tolerated

	records, err := reader.ReadAll()
	if err != nil {
		log.WithError(err).Error("Failed to parse CSV records")
		return nil, &converr.StructureError{Msg: "cannot parse delimited records", Err: err}
	}

	if len(records) == 0 {
		return nil, &converr.StructureError{Msg: "input contains no records"}
	}

	if err := validateHeader(records[0]); err != nil {
		return nil, err
	}

	rows := make([]models.RawRow, 0, len(records)-1)
	for i, record := range records[1:] {
		// Record positions are 1-based with the header at position 1.
		lineNumber := i + 2

		if isBlank(record) {
			continue
		}

		rows = append(rows, buildRow(record, lineNumber))
	}

	log.WithField(logging.FieldCount, len(rows)).Info("Parsed transaction rows")
	return rows, nil
}

// validateHeader checks the first record positionally against the expected
// column names. Any mismatch fails the whole parse with a single error.
func validateHeader(header []string) error {
	if len(header) != len(models.ExpectedColumns) {
		return &converr.StructureError{
			Msg: fmt.Sprintf("header has %d columns, expected %d",
				len(header), len(models.ExpectedColumns)),
		}
	}

	for i, want := range models.ExpectedColumns {
		got := strings.TrimSpace(header[i])
		if got != want {
			return &converr.StructureError{
				Msg: fmt.Sprintf("header column %d is '%s', expected '%s'",
					i+1, got, want),
			}
		}
	}

	return nil
}

// isBlank reports whether every field of a record trims to the empty string.
func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// buildRow maps one data record to a RawRow, trimming each field and treating
// missing trailing columns as empty strings.
func buildRow(record []string, lineNumber int) models.RawRow {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	return models.RawRow{
		Date:              field(0),
		Merchant:          field(1),
		Category:          field(2),
		Account:           field(3),
		OriginalStatement: field(4),
		Notes:             field(5),
		Amount:            field(6),
		Tags:              field(7),
		Owner:             field(8),
		LineNumber:        lineNumber,
	}
}

// ValidateFormat checks whether a file looks like a transaction export by
// parsing its header without materializing the data rows as RawRow values.
func ValidateFormat(filePath string) (bool, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return false, &converr.InputError{FilePath: filePath, Err: err}
	}

	text := strings.TrimPrefix(string(data), "\uFEFF")
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return false, nil
	}

	return validateHeader(header) == nil, nil
}
