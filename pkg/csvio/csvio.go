// Package csvio reads proxy source files and streams test results to CSV.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"proxy-tester/pkg/models"
)

// ResultHeader is the column order of every output file.
var ResultHeader = []string{"proxy", "status", "location", "real_location", "error"}

// ReadRecords loads all rows of a CSV file as ProxyRecords, keyed by the
// header row with surrounding whitespace stripped from each column name.
// Field content is not validated.
func ReadRecords(path string) ([]models.ProxyRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []models.ProxyRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		record := make(models.ProxyRecord, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// ResultWriter writes ProxyResults to a CSV file one row at a time,
// flushing after every row so a partial batch is still readable.
type ResultWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewResultWriter creates (or truncates) the output file and writes the
// header row.
func NewResultWriter(path string) (*ResultWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(ResultHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	return &ResultWriter{file: file, writer: writer}, nil
}

// Write appends one result row and flushes it.
func (w *ResultWriter) Write(result models.ProxyResult) error {
	row := []string{
		result.Proxy,
		strconv.Itoa(result.Status),
		result.Location,
		result.RealLocation,
		result.Error,
	}
	if err := w.writer.Write(row); err != nil {
		return err
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes any buffered output and closes the file. Safe to call twice.
func (w *ResultWriter) Close() error {
	if w.file == nil {
		return nil
	}
	w.writer.Flush()
	err := w.writer.Error()
	if closeErr := w.file.Close(); err == nil {
		err = closeErr
	}
	w.file = nil
	return err
}
