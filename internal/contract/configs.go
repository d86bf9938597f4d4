package contract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/retailops/auditpulse/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	DefaultLimit     = 50
	MaxLimit         = 1000
)

// WaveFile pairs one export path with its resolved wave identity.
type WaveFile struct {
	Path string
	Wave schema.Wave
}

// ConfigRawInput holds the raw, unvalidated configuration from all sources
// (file, env, flags). Viper unmarshals into this struct.
type ConfigRawInput struct {
	MasterFile   string `mapstructure:"master"`
	WeightsFile  string `mapstructure:"weights"`
	RegistryFile string `mapstructure:"registry"`
	WaveName     string `mapstructure:"wave"`
	WaveYear     int    `mapstructure:"year"`
	Output       string `mapstructure:"output"`
	OutputFile   string `mapstructure:"output-file"`
	Precision    int    `mapstructure:"precision"`
	Limit        int    `mapstructure:"limit"`
	Backend      string `mapstructure:"backend"`
	DBConnect    string `mapstructure:"db-connect"`
	Color        string `mapstructure:"color"`
}

// Config is the final, validated runtime configuration.
type Config struct {
	WaveFiles    []WaveFile
	MasterFile   string
	WeightsFile  string
	RegistryFile string
	Output       schema.OutputMode
	OutputFile   string
	Precision    int
	Limit        int
	Backend      schema.DatabaseBackend
	DBConnect    string
	Color        bool
}

// wavePattern extracts a wave identity from an export file name,
// e.g. "Wave 3 2024.csv" or "wave_2-2025.csv".
var wavePattern = regexp.MustCompile(`(?i)(wave[\s_-]*\d+)[\s_-]+(\d{4})`)

// ParseWaveFromPath derives the wave identity from an export file name.
func ParseWaveFromPath(path string) (schema.Wave, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := wavePattern.FindStringSubmatch(base)
	if m == nil {
		return schema.Wave{}, fmt.Errorf("cannot derive wave from file name %q; use --wave and --year", filepath.Base(path))
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return schema.Wave{}, fmt.Errorf("invalid wave year in %q", filepath.Base(path))
	}
	name := normalizeWaveName(m[1])
	return schema.Wave{Name: name, Year: year}, nil
}

// normalizeWaveName canonicalizes "wave_3"/"WAVE 3" to "Wave 3".
func normalizeWaveName(raw string) string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})
	num := ""
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err == nil {
			num = f
		}
	}
	if num == "" {
		// "wave3" with no separator
		num = strings.TrimLeft(strings.ToLower(raw), "wave _-")
	}
	return "Wave " + num
}

// ProcessAndValidate populates cfg from the raw input and positional wave
// file arguments, validating everything that can fail early.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, waveArgs []string) error {
	out := schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[out]; !ok {
		return fmt.Errorf("invalid output mode %q (text, csv, json, parquet)", input.Output)
	}
	cfg.Output = out
	cfg.OutputFile = input.OutputFile

	backend := schema.DatabaseBackend(strings.ToLower(input.Backend))
	if _, ok := schema.ValidBackends[backend]; !ok {
		return fmt.Errorf("invalid backend %q (sqlite, mysql, postgresql, none)", input.Backend)
	}
	cfg.Backend = backend
	cfg.DBConnect = input.DBConnect

	if input.Precision < 0 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6, got %d", input.Precision)
	}
	cfg.Precision = input.Precision

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	cfg.Limit = limit

	cfg.MasterFile = input.MasterFile
	cfg.WeightsFile = input.WeightsFile
	cfg.RegistryFile = input.RegistryFile
	cfg.Color = parseBool(input.Color)

	cfg.WaveFiles = cfg.WaveFiles[:0]
	for _, path := range waveArgs {
		var wave schema.Wave
		if input.WaveName != "" && input.WaveYear > 0 {
			if len(waveArgs) > 1 {
				return fmt.Errorf("--wave/--year apply to a single wave file; pass one file or name files by wave")
			}
			wave = schema.Wave{Name: input.WaveName, Year: input.WaveYear}
		} else {
			var err error
			wave, err = ParseWaveFromPath(path)
			if err != nil {
				return err
			}
		}
		cfg.WaveFiles = append(cfg.WaveFiles, WaveFile{Path: path, Wave: wave})
	}
	return nil
}

// ValidateDatabaseConnectionString checks that a connection string gives
// the backend enough to reach a server. SQLite and None need nothing.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres://") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' or use postgres:// form")
		}
	}
	return nil
}

// parseBool accepts the yes/no/true/false/1/0 forms used by the color flag.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no", "false", "0", "off":
		return false
	default:
		return true
	}
}
