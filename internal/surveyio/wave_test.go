package surveyio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retailops/auditpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWave(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Wave 3 2024.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadWaveFile_Basic(t *testing.T) {
	path := writeWave(t,
		"Site Code;Site Name;Regional;Branch;Final Score;(759166) Area depan toko bersih;(759174) Kasir menyapa pelanggan\n"+
			"ST001;Rawamangun;JAKARTA;JAKARTA 1;91,5;Ya (1/1);Tidak (0/1)\n"+
			"ST002;Kelapa Gading;JAKARTA;JAKARTA 2;88,0;Yes;No\n")

	rows, err := ReadWaveFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[0]
	assert.Equal(t, "ST001", row.SiteCode)
	assert.Equal(t, "Rawamangun", row.SiteName)
	assert.Equal(t, "JAKARTA", row.Region)
	assert.Equal(t, "JAKARTA 1", row.Branch)
	assert.Equal(t, 91.5, row.FinalScore) // decimal comma
	assert.Equal(t, "Ya (1/1)", row.Items[759166])
	assert.Equal(t, "Area depan toko bersih", row.Labels[759166])
}

func TestReadWaveFile_BOMStripped(t *testing.T) {
	path := writeWave(t,
		"\xef\xbb\xbfSite Code;Site Name;Regional;Branch;Final Score\n"+
			"ST001;Rawamangun;JAKARTA;JAKARTA 1;91,5\n")

	rows, err := ReadWaveFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// Without BOM handling the first header would not match Site Code.
	assert.Equal(t, "ST001", rows[0].SiteCode)
}

func TestReadWaveFile_TextSiblingColumns(t *testing.T) {
	path := writeWave(t,
		"Site Code;(759220) Apakah RA menawarkan bantuan;(759220) Apakah RA menawarkan bantuan - Text\n"+
			"ST001;Yes;Sangat membantu\n"+
			"ST002;No;\n")

	rows, err := ReadWaveFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// The scored column keeps the answer; the sibling carries free text.
	assert.Equal(t, "Yes", rows[0].Items[759220])
	require.Len(t, rows[0].FreeText, 1)
	assert.Equal(t, 759220, rows[0].FreeText[0].Code)
	assert.Equal(t, "Sangat membantu", rows[0].FreeText[0].Text)

	// Empty text cells are dropped entirely.
	assert.Empty(t, rows[1].FreeText)
}

func TestReadWaveFile_UncodedFeedbackColumn(t *testing.T) {
	path := writeWave(t,
		"Site Code;Mohon informasikan hal-hal yang menarik\n"+
			"ST001;Toko sangat nyaman\n")

	rows, err := ReadWaveFile(path)
	require.NoError(t, err)
	require.Len(t, rows[0].FreeText, 1)
	assert.Equal(t, 0, rows[0].FreeText[0].Code)
	assert.Equal(t, "Toko sangat nyaman", rows[0].FreeText[0].Text)
}

func TestReadWaveFile_SectionCheckColumns(t *testing.T) {
	path := writeWave(t,
		"Site Code;(Section) A. Tampilan Tampak Depan Outlet;(Section) F. Pengalaman Mencoba Produk\n"+
			"ST001;85,5;(90.0)\n"+
			"ST002;4,5;\n")

	rows, err := ReadWaveFile(path)
	require.NoError(t, err)

	assert.Equal(t, 85.5, rows[0].SectionChecks[schema.SectionA])
	assert.Equal(t, 90.0, rows[0].SectionChecks[schema.SectionF])
	// Legacy 1-5 scale values are rescaled to percent.
	assert.Equal(t, 90.0, rows[1].SectionChecks[schema.SectionA])
	_, ok := rows[1].SectionChecks[schema.SectionF]
	assert.False(t, ok)
}

func TestReadWaveFile_RaggedRowsTolerated(t *testing.T) {
	path := writeWave(t,
		"Site Code;Site Name;Final Score;(759166) Item\n"+
			"ST001;Rawamangun\n"+
			"ST002;Kelapa Gading;88,0;Yes;extra;fields\n")

	rows, err := ReadWaveFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 0.0, rows[0].FinalScore)
	assert.Equal(t, "Yes", rows[1].Items[759166])
}

func TestReadWaveFile_Errors(t *testing.T) {
	_, err := ReadWaveFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	path := writeWave(t, "Site Code;Site Name\n")
	_, err = ReadWaveFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"91,5", 91.5, true},
		{"91.5", 91.5, true},
		{"100", 100, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseDecimal(tt.in)
		assert.Equal(t, tt.ok, ok, "in=%q", tt.in)
		assert.Equal(t, tt.want, got, "in=%q", tt.in)
	}
}
