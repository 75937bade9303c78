package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// WriteCSV writes header and rows to dir/name and returns the full path
func WriteCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return path
}

// WriteChunkCSV writes a numeric chunk table. columns[i] holds the samples of header[i].
func WriteChunkCSV(t *testing.T, dir, name string, header []string, columns [][]float64) string {
	t.Helper()

	if len(header) != len(columns) {
		t.Fatalf("header has %d names but %d columns were given", len(header), len(columns))
	}
	n := 0
	if len(columns) > 0 {
		n = len(columns[0])
	}

	rows := make([][]string, n)
	for i := range rows {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = strconv.FormatFloat(col[i], 'f', -1, 64)
		}
		rows[i] = row
	}
	return WriteCSV(t, dir, name, header, rows)
}

// WriteFile writes content to dir/name and returns the full path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadCSV reads every record from path
func ReadCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}
