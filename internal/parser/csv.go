// Package parser provides CSV parsing for print history files
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "remainder/internal/errors"
	"remainder/internal/models"
)

// column identifies a print field in a CSV row
type column int

const (
	columnDuration column = iota
	columnWeight
	columnLength
)

// headerNames maps accepted header spellings to columns.
// The print_* names match the filament table.
var headerNames = map[string]column{
	"duration":     columnDuration,
	"print_time":   columnDuration,
	"time":         columnDuration,
	"weight":       columnWeight,
	"print_weight": columnWeight,
	"length":       columnLength,
	"print_length": columnLength,
}

// defaultLayout is the column order assumed when the file has no header row
var defaultLayout = []column{columnDuration, columnWeight, columnLength}

// ParseCSV reads a print history file.
// Expected CSV format: duration, weight, length
// - duration: seconds (integer) or a Go duration such as 1h5m
// - weight: grams, may be empty
// - length: meters, may be empty
// A header row is optional; when present it may list the columns in any order.
func ParseCSV(filePath string) ([]models.PrintRequest, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads print rows from r
func Parse(r io.Reader) ([]models.PrintRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // weight and length columns may be left off
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var prints []models.PrintRequest
	layout := defaultLayout
	first := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "error reading CSV", err)
		}

		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if isHeaderRow(record) {
				layout, err = parseHeader(record)
				if err != nil {
					return nil, err
				}
				continue
			}
		}

		req, err := parsePrint(record, layout, line)
		if err != nil {
			return nil, err
		}
		prints = append(prints, req)
	}

	if len(prints) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "no prints found in CSV file")
	}

	return prints, nil
}

// parseHeader builds the column layout from a header row
func parseHeader(record []string) ([]column, error) {
	layout := make([]column, len(record))
	seen := make(map[column]bool)

	for i, field := range record {
		name := strings.ToLower(strings.TrimSpace(field))
		col, ok := headerNames[name]
		if !ok {
			return nil, apperrors.Newf(apperrors.CodeInvalidInput, "unknown column %q in header", field)
		}
		if seen[col] {
			return nil, apperrors.Newf(apperrors.CodeInvalidInput, "column %q appears twice in header", field)
		}
		seen[col] = true
		layout[i] = col
	}

	if !seen[columnDuration] {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "header has no duration column")
	}
	return layout, nil
}

// parsePrint converts a CSV record into a PrintRequest.
// Missing measurements stay nil; the accounting service derives them.
func parsePrint(record []string, layout []column, line int) (models.PrintRequest, error) {
	if len(record) > len(layout) {
		return models.PrintRequest{}, apperrors.Newf(apperrors.CodeInvalidInput,
			"line %d: expected at most %d fields, got %d", line, len(layout), len(record))
	}

	req := models.PrintRequest{Line: line}
	hasDuration := false

	for i, field := range record {
		field = strings.TrimSpace(field)
		switch layout[i] {
		case columnDuration:
			duration, err := ParseDuration(field)
			if err != nil {
				return models.PrintRequest{}, apperrors.Wrap(apperrors.CodeInvalidInput,
					fmt.Sprintf("line %d: invalid duration '%s'", line, field), err)
			}
			req.Duration = duration
			hasDuration = true
		case columnWeight:
			weight, err := parseQuantity(field)
			if err != nil {
				return models.PrintRequest{}, apperrors.Wrap(apperrors.CodeInvalidInput,
					fmt.Sprintf("line %d: invalid weight '%s'", line, field), err)
			}
			req.Weight = weight
		case columnLength:
			length, err := parseQuantity(field)
			if err != nil {
				return models.PrintRequest{}, apperrors.Wrap(apperrors.CodeInvalidInput,
					fmt.Sprintf("line %d: invalid length '%s'", line, field), err)
			}
			req.Length = length
		}
	}

	if !hasDuration {
		return models.PrintRequest{}, apperrors.Newf(apperrors.CodeInvalidInput, "line %d: duration is required", line)
	}
	return req, nil
}

// ParseDuration parses a print duration given as whole seconds or as a Go
// duration string such as 1h5m. Negative durations are rejected.
func ParseDuration(field string) (int64, error) {
	if field == "" {
		return 0, fmt.Errorf("duration is required")
	}

	seconds, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		d, durErr := time.ParseDuration(field)
		if durErr != nil {
			return 0, fmt.Errorf("expected seconds or a duration like 1h5m")
		}
		seconds = int64(d / time.Second)
	}

	if seconds < 0 {
		return 0, fmt.Errorf("duration cannot be negative")
	}
	return seconds, nil
}

// parseQuantity parses an optional non-negative number. An empty field is nil.
func parseQuantity(field string) (*float64, error) {
	if field == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil, fmt.Errorf("must be a number: %w", err)
	}
	if value < 0 {
		return nil, fmt.Errorf("cannot be negative")
	}
	return &value, nil
}

// isHeaderRow reports whether the record looks like a header: every field
// contains letters and none parses as a number or a duration
func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}

	for _, field := range record {
		field = strings.TrimSpace(field)
		if field == "" || isPurelyNumeric(field) || !containsLetters(field) {
			return false
		}
		if _, err := time.ParseDuration(field); err == nil {
			return false
		}
	}
	return true
}

// containsLetters checks if a string contains alphabetic characters
func containsLetters(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// isPurelyNumeric checks if a string is purely numeric (including decimals)
func isPurelyNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
