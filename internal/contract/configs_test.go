package contract

import (
	"testing"

	"github.com/retailops/auditpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:    "text",
		Precision: 1,
		Limit:     50,
		Backend:   "none",
		Color:     "yes",
	}
}

func TestParseWaveFromPath(t *testing.T) {
	tests := []struct {
		path     string
		wantName string
		wantYear int
	}{
		{"/data/Wave 3 2024.csv", "Wave 3", 2024},
		{"wave_2-2025.csv", "Wave 2", 2025},
		{"exports/WAVE 1 2023 final.csv", "Wave 1", 2023},
		{"wave-4_2024.csv", "Wave 4", 2024},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			wave, err := ParseWaveFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, wave.Name)
			assert.Equal(t, tt.wantYear, wave.Year)
		})
	}
}

func TestParseWaveFromPath_NoMatch(t *testing.T) {
	_, err := ParseWaveFromPath("scores.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--wave and --year")
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	err := ProcessAndValidate(cfg, validInput(), []string{"Wave 3 2024.csv"})
	require.NoError(t, err)

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.NoneBackend, cfg.Backend)
	assert.Equal(t, 50, cfg.Limit)
	assert.True(t, cfg.Color)
	require.Len(t, cfg.WaveFiles, 1)
	assert.Equal(t, schema.Wave{Name: "Wave 3", Year: 2024}, cfg.WaveFiles[0].Wave)
}

func TestProcessAndValidate_ExplicitWaveIdentity(t *testing.T) {
	input := validInput()
	input.WaveName = "Wave 9"
	input.WaveYear = 2025

	cfg := &Config{}
	err := ProcessAndValidate(cfg, input, []string{"unnamed-export.csv"})
	require.NoError(t, err)
	assert.Equal(t, schema.Wave{Name: "Wave 9", Year: 2025}, cfg.WaveFiles[0].Wave)
}

func TestProcessAndValidate_ExplicitWaveRejectsMultipleFiles(t *testing.T) {
	input := validInput()
	input.WaveName = "Wave 9"
	input.WaveYear = 2025

	err := ProcessAndValidate(&Config{}, input, []string{"a.csv", "b.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single wave file")
}

func TestProcessAndValidate_InvalidOutput(t *testing.T) {
	input := validInput()
	input.Output = "xml"
	err := ProcessAndValidate(&Config{}, input, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output mode")
}

func TestProcessAndValidate_InvalidBackend(t *testing.T) {
	input := validInput()
	input.Backend = "oracle"
	err := ProcessAndValidate(&Config{}, input, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid backend")
}

func TestProcessAndValidate_PrecisionBounds(t *testing.T) {
	for _, p := range []int{-1, 7} {
		input := validInput()
		input.Precision = p
		err := ProcessAndValidate(&Config{}, input, nil)
		assert.Error(t, err, "precision=%d", p)
	}
}

func TestProcessAndValidate_LimitClamped(t *testing.T) {
	input := validInput()
	input.Limit = 99999
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input, nil))
	assert.Equal(t, MaxLimit, cfg.Limit)

	input.Limit = 0
	require.NoError(t, ProcessAndValidate(cfg, input, nil))
	assert.Equal(t, DefaultLimit, cfg.Limit)
}

func TestProcessAndValidate_CaseInsensitiveModes(t *testing.T) {
	input := validInput()
	input.Output = "JSON"
	input.Backend = "SQLite"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input, nil))
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.Backend)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/auditpulse", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/auditpulse", true},
		{"postgres host form", schema.PostgreSQLBackend, "host=localhost user=postgres", false},
		{"postgres url form", schema.PostgreSQLBackend, "postgres://user@localhost/db", false},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
		{"postgres bare", schema.PostgreSQLBackend, "localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("yes"))
	assert.True(t, parseBool(""))
	assert.True(t, parseBool("1"))
	assert.False(t, parseBool("no"))
	assert.False(t, parseBool("FALSE"))
	assert.False(t, parseBool(" off "))
}
