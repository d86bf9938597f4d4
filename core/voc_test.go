package core

import (
	"testing"

	"github.com/retailops/auditpulse/schema"
	"github.com/stretchr/testify/assert"
)

func feedbackCell(text string) schema.FreeTextCell {
	return schema.FreeTextCell{Code: schema.FeedbackItemCode, Column: "Feedback", Text: text}
}

func TestAnalyzeFeedback_Sentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want schema.Sentiment
	}{
		{"positive", "Staf sangat ramah dan toko bersih", schema.SentimentPositive},
		{"negative", "Toilet kotor dan bau", schema.SentimentNegative},
		{"negated positive", "Kasir tidak ramah", schema.SentimentNegative},
		{"neutral", "Outlet berada di lantai dua", schema.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := AnalyzeFeedback(feedbackCell(tt.text), "2024 Wave 3")
			assert.Equal(t, tt.want, entry.Sentiment)
		})
	}
}

func TestAnalyzeFeedback_Themes(t *testing.T) {
	entry := AnalyzeFeedback(feedbackCell("Toilet kotor, kasir jutek"), "2024 Wave 3")
	assert.Equal(t, schema.SentimentNegative, entry.Sentiment)
	assert.Contains(t, entry.Themes, "Cleanliness")
	assert.Contains(t, entry.Themes, "Facility")
	assert.Contains(t, entry.Themes, "Staff")
	// Category follows the first matched theme.
	assert.Equal(t, entry.Themes[0], entry.Category)
}

func TestAnalyzeFeedback_Deterministic(t *testing.T) {
	text := "Pelayanan bagus, produk lengkap"
	a := AnalyzeFeedback(feedbackCell(text), "2024 Wave 3")
	b := AnalyzeFeedback(feedbackCell(text), "2024 Wave 3")
	assert.Equal(t, a, b)
}

func TestAnalyzeFeedback_DefaultCategory(t *testing.T) {
	entry := AnalyzeFeedback(feedbackCell("Lorem ipsum"), "2024 Wave 3")
	assert.Equal(t, "General", entry.Category)
	assert.Empty(t, entry.Themes)
	assert.Equal(t, schema.SentimentNeutral, entry.Sentiment)
}

func TestAnalyzeFeedback_Provenance(t *testing.T) {
	cell := schema.FreeTextCell{Code: 0, Column: "Komentar - Text", Text: "Musik terlalu keras"}
	entry := AnalyzeFeedback(cell, "2024 Wave 2")
	assert.Equal(t, "Komentar - Text", entry.SourceColumn)
	assert.Equal(t, "2024 Wave 2", entry.WaveKey)
	assert.Equal(t, cell.Text, entry.Text)
}

func TestNormalizeThemes(t *testing.T) {
	assert.Equal(t, []string{"Service"}, NormalizeThemes(schema.QualitativeEntry{Themes: []string{"Service"}}))
	assert.Equal(t, []string{"General"}, NormalizeThemes(schema.QualitativeEntry{Category: "General"}))
	assert.Equal(t, []string{"Other"}, NormalizeThemes(schema.QualitativeEntry{}))
}
