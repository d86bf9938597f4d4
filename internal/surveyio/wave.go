// Package surveyio reads the external survey exports and static config
// tables: wave CSVs, the master site directory and the section weight table.
package surveyio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/retailops/auditpulse/schema"
)

// Metadata column names in wave exports.
const (
	colSiteCode   = "Site Code"
	colSiteName   = "Site Name"
	colBranch     = "Branch"
	colRegional   = "Regional"
	colFinalScore = "Final Score"
)

// textColumnSuffix marks free-text sibling columns that are never scored.
const textColumnSuffix = "- Text"

var (
	// itemPattern matches per-item columns, e.g. "(759220) Apakah RA ...".
	itemPattern = regexp.MustCompile(`^\((\d+)\)\s*(.*)$`)

	// sectionPattern matches the external tool's own section aggregate
	// columns, e.g. "(Section) F. Pengalaman Mencoba Produk".
	sectionPattern = regexp.MustCompile(`^\(Section\)\s*([A-K])\.`)

	// parenValuePattern extracts an embedded numeric result, e.g. "(85.5)".
	parenValuePattern = regexp.MustCompile(`\((\d+(?:\.\d+)?)\)`)
)

// ReadWaveFile parses one wave export: semicolon-delimited, UTF-8 with an
// optional BOM, header row, relaxed column counts. Returns one RawSurveyRow
// per record; rows are immutable once read.
func ReadWaveFile(path string) ([]schema.RawSurveyRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wave file %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // exports are ragged; tolerate it
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse wave file %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("wave file %s has no data rows", path)
	}

	headers := records[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	rows := make([]schema.RawSurveyRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, parseRow(headers, record))
	}
	return rows, nil
}

// parseRow maps one CSV record onto the row model by header shape.
func parseRow(headers, record []string) schema.RawSurveyRow {
	row := schema.RawSurveyRow{
		Items:         make(map[int]string),
		Labels:        make(map[int]string),
		SectionChecks: make(map[schema.Letter]float64),
	}

	for i, header := range headers {
		if i >= len(record) {
			break
		}
		value := strings.TrimSpace(record[i])

		switch header {
		case colSiteCode:
			row.SiteCode = value
			continue
		case colSiteName:
			row.SiteName = value
			continue
		case colBranch:
			row.Branch = value
			continue
		case colRegional:
			row.Region = value
			continue
		case colFinalScore:
			if v, ok := parseDecimal(value); ok && v > 0 {
				row.FinalScore = v
			}
			continue
		}

		if m := sectionPattern.FindStringSubmatch(header); m != nil {
			if v, ok := parseSectionCheck(value); ok {
				row.SectionChecks[schema.Letter(m[1])] = v
			}
			continue
		}

		if m := itemPattern.FindStringSubmatch(header); m != nil {
			code, _ := strconv.Atoi(m[1])
			if strings.HasSuffix(header, textColumnSuffix) {
				if value != "" {
					row.FreeText = append(row.FreeText, schema.FreeTextCell{Code: code, Column: header, Text: value})
				}
				continue
			}
			row.Items[code] = value
			row.Labels[code] = strings.TrimSpace(m[2])
			continue
		}

		// Uncoded open-text columns (e.g. the general feedback prompt).
		if value != "" && strings.Contains(strings.ToLower(header), schema.FeedbackMarker) {
			row.FreeText = append(row.FreeText, schema.FreeTextCell{Column: header, Text: value})
		}
	}
	return row
}

// parseDecimal reads a number that may use a decimal comma.
func parseDecimal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseSectionCheck reads the external tool's section percentage, which
// appears either bare ("85,5") or parenthesized ("(85.5)"). Values on the
// legacy 1-5 scale are rescaled to percent.
func parseSectionCheck(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	var v float64
	var ok bool
	if m := parenValuePattern.FindStringSubmatch(s); m != nil {
		v, ok = parseDecimal(m[1])
	} else {
		v, ok = parseDecimal(s)
	}
	if !ok {
		return 0, false
	}
	if v > 0 && v <= 5 {
		v *= 20
	}
	return v, true
}
