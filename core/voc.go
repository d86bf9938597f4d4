package core

import (
	"strings"

	"github.com/retailops/auditpulse/schema"
)

// Voice-of-customer annotation. A small deterministic lexicon matcher:
// the same text always yields the same sentiment, category and themes, so
// plan derivation stays a pure function of its inputs.

// themeLexicon maps theme names to their trigger keywords. Feedback is
// largely Indonesian with some English; keywords cover both.
var themeLexicon = []struct {
	name     string
	keywords []string
}{
	{"Cleanliness", []string{"kotor", "bau", "debu", "sampah", "dirty", "smell", "bersih"}},
	{"Service", []string{"ramah", "jutek", "cuek", "sapa", "sambut", "layan", "senyum", "service", "greeting"}},
	{"Product", []string{"produk", "stok", "ukuran", "barang", "harga", "size", "stock", "product"}},
	{"Facility", []string{"toilet", "ac ", "panas", "fitting", "parkir", "musik", "lampu", "kasir antri", "antri", "antre"}},
	{"Staff", []string{"kasir", "staf", "staff", "karyawan", "retail assistant", "pegawai"}},
}

// negativeMarkers flip sentiment; checked before positive markers because
// Indonesian negation prefixes positive words ("tidak ramah").
var negativeMarkers = []string{
	"tidak", "kurang", "kotor", "bau", "lama", "lambat", "jutek", "cuek",
	"panas", "rusak", "antri", "antre", "kecewa", "buruk", "jelek", "complain",
}

var positiveMarkers = []string{
	"ramah", "bagus", "bersih", "baik", "cepat", "nyaman", "puas", "senang",
	"mantap", "good", "great", "helpful",
}

// AnalyzeFeedback annotates one free-text cell with sentiment, category and
// themes. Neutral sentiment with no themes is the default for text that
// matches nothing.
func AnalyzeFeedback(cell schema.FreeTextCell, waveKey string) schema.QualitativeEntry {
	lower := strings.ToLower(cell.Text)

	entry := schema.QualitativeEntry{
		Text:         cell.Text,
		Sentiment:    schema.SentimentNeutral,
		Category:     "General",
		SourceColumn: cell.Column,
		WaveKey:      waveKey,
	}

	for _, marker := range negativeMarkers {
		if strings.Contains(lower, marker) {
			entry.Sentiment = schema.SentimentNegative
			break
		}
	}
	if entry.Sentiment == schema.SentimentNeutral {
		for _, marker := range positiveMarkers {
			if strings.Contains(lower, marker) {
				entry.Sentiment = schema.SentimentPositive
				break
			}
		}
	}

	for _, theme := range themeLexicon {
		for _, kw := range theme.keywords {
			if strings.Contains(lower, kw) {
				entry.Themes = append(entry.Themes, theme.name)
				break
			}
		}
	}
	if len(entry.Themes) > 0 {
		entry.Category = entry.Themes[0]
	}
	return entry
}

// NormalizeThemes returns the entry's themes, falling back to its category
// so every entry contributes at least one theme bucket.
func NormalizeThemes(entry schema.QualitativeEntry) []string {
	if len(entry.Themes) > 0 {
		return entry.Themes
	}
	if entry.Category != "" {
		return []string{entry.Category}
	}
	return []string{"Other"}
}
