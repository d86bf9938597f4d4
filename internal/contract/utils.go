package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/retailops/auditpulse/schema"
)

// Score label constants. Audit scores read upward: higher is better.
const (
	ExcellentValue = "Excellent" // at or near perfection
	GoodValue      = "Good"      // above the critical threshold
	AtRiskValue    = "At Risk"   // below threshold but salvageable
	CriticalValue  = "Critical"  // needs immediate attention
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold)
	GoodColor      = color.New(color.FgCyan)
	AtRiskColor    = color.New(color.FgYellow)
	CriticalColor  = color.New(color.FgRed, color.Bold)
)

// GetPlainLabel returns a plain text label for a composite or section
// score. This is the core logic used for CSV, JSON and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 95:
		return ExcellentValue
	case score >= schema.CriticalThreshold:
		return GoodValue
	case score >= 70:
		return AtRiskValue
	default:
		return CriticalValue
	}
}

// GetColorLabel returns a colored label for console table output.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)
	switch text {
	case ExcellentValue:
		return ExcellentColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case AtRiskValue:
		return AtRiskColor.Sprint(text)
	default:
		return CriticalColor.Sprint(text)
	}
}

// SelectOutputFile returns the file handle for output, falling back to
// stdout when no path is configured.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// TruncateName shortens a long store or node name for table output,
// keeping the tail which carries the distinguishing part.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return name
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file used by the default
// backend.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".auditpulse.db"
	}
	return filepath.Join(homeDir, ".auditpulse.db")
}
