package surveyio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retailops/auditpulse/schema"
	"github.com/xuri/excelize/v2"
)

// LoadMasterDirectory reads the master site directory keyed by site code.
// CSV and XLSX are both accepted; the format is chosen by extension.
//
// A missing or unreadable file is a data anomaly, not a fatal error: the
// wave processor falls back to identity fields embedded in each row, so an
// empty directory is returned alongside the error for the caller to log.
func LoadMasterDirectory(path string) (schema.MasterDirectory, error) {
	master := make(schema.MasterDirectory)
	if path == "" {
		return master, nil
	}

	rows, err := readTable(path)
	if err != nil {
		return master, fmt.Errorf("load master directory %s: %w", path, err)
	}
	if len(rows) < 2 {
		return master, nil
	}

	idx := headerIndex(rows[0])
	for _, row := range rows[1:] {
		code := cell(row, idx, "site code")
		if code == "" {
			continue
		}
		master[code] = schema.MasterSite{
			SiteCode: code,
			SiteName: cell(row, idx, "site name"),
			Region:   normalizeUpper(cell(row, idx, "region")),
			Branch:   normalizeUpper(cell(row, idx, "branch")),
			City:     cell(row, idx, "city"),
		}
	}
	return master, nil
}

// readTable returns the rows of a CSV or XLSX table file.
func readTable(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	return f.GetRows(sheets[0])
}

// headerIndex maps lowercased header names to column positions.
func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// cell returns a trimmed cell value by header name, tolerating short rows
// and absent headers.
func cell(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func normalizeUpper(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return schema.UnknownLabel
	}
	return s
}
