package surveyio

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/retailops/auditpulse/schema"
)

// letterPrefixPattern extracts the section letter from a weight table row
// name, e.g. "F. Pengalaman Mencoba Produk" -> F.
var letterPrefixPattern = regexp.MustCompile(`([A-K])\.`)

// LoadSectionWeights reads the section weight table (name;weight rows, CSV
// or XLSX). Weights must sum to exactly 100 across all eleven sections;
// anything else means the scoring model is broken and is a ConfigError.
func LoadSectionWeights(path string) (schema.WeightTable, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, schema.NewConfigError("load section weights %s: %v", path, err)
	}

	weights := make(schema.WeightTable)
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		m := letterPrefixPattern.FindStringSubmatch(row[0])
		if m == nil {
			continue // header or stray row
		}
		w, err := strconv.Atoi(trimDecimalSuffix(row[1]))
		if err != nil || w <= 0 {
			continue
		}
		weights[schema.Letter(m[1])] = float64(w)
	}

	var sum float64
	for _, letter := range schema.AllSections {
		w, ok := weights[letter]
		if !ok {
			return nil, schema.NewConfigError("weight table %s: no weight for section %s", path, letter)
		}
		sum += w
	}
	if sum != 100 {
		return nil, schema.NewConfigError("weight table %s: weights sum to %v, want 100", path, sum)
	}
	return weights, nil
}

// trimDecimalSuffix tolerates "10.0"/"10,0" style integer weights.
func trimDecimalSuffix(s string) string {
	for i, r := range s {
		if r == '.' || r == ',' {
			return s[:i]
		}
	}
	return s
}

// FormatWeights renders a weight table in section order for diagnostics.
func FormatWeights(weights schema.WeightTable) string {
	out := ""
	for _, letter := range schema.AllSections {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%s:%v", letter, weights[letter])
	}
	return out
}
