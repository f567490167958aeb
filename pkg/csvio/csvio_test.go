package csvio

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"proxy-tester/pkg/models"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestReadRecords(t *testing.T) {
	path := writeTempCSV(t, " IP Address , Country ,Https\n1.2.3.4:8080,US,yes\n5.6.7.8:3128,DE,no\n")

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ReadRecords() returned %d records, want 2", len(records))
	}

	want := models.ProxyRecord{"IP Address": "1.2.3.4:8080", "Country": "US", "Https": "yes"}
	if !reflect.DeepEqual(records[0], want) {
		t.Errorf("records[0] = %v, want %v", records[0], want)
	}
	if records[1]["IP Address"] != "5.6.7.8:3128" {
		t.Errorf("records[1] out of order: %v", records[1])
	}
}

func TestReadRecordsShortRow(t *testing.T) {
	path := writeTempCSV(t, "proxy,country\n1.2.3.4:8080\n")

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ReadRecords() returned %d records, want 1", len(records))
	}
	if records[0]["proxy"] != "1.2.3.4:8080" {
		t.Errorf("proxy = %q, want %q", records[0]["proxy"], "1.2.3.4:8080")
	}
	if _, ok := records[0]["country"]; ok {
		t.Errorf("country should be absent from a short row, got %q", records[0]["country"])
	}
}

func TestReadRecordsMissingFile(t *testing.T) {
	if _, err := ReadRecords(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("ReadRecords() expected error for missing file")
	}
}

func TestResultWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	writer, err := NewResultWriter(path)
	if err != nil {
		t.Fatalf("NewResultWriter() error = %v", err)
	}
	results := []models.ProxyResult{
		{Proxy: "1.2.3.4:8080", Status: 200, Location: "US", RealLocation: "America/New_York"},
		{Proxy: "203.0.113.5:3128", Status: 0, Location: "Unknown", RealLocation: "Failed", Error: "ConnectionError: dial tcp: connection refused"},
	}
	for _, result := range results {
		if err := writer.Write(result); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("output has %d rows, want header + 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], ResultHeader) {
		t.Errorf("header = %v, want %v", rows[0], ResultHeader)
	}
	wantRow := []string{"203.0.113.5:3128", "0", "Unknown", "Failed", "ConnectionError: dial tcp: connection refused"}
	if !reflect.DeepEqual(rows[2], wantRow) {
		t.Errorf("rows[2] = %v, want %v", rows[2], wantRow)
	}
}
