package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ConfigError indicates the scoring model itself is broken: unknown section
// letter, weights not summing to 100, missing registry. Always fatal.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Msg
}

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// AnomalyStats counts recoverable irregularities seen during a scoring run.
// Classification ambiguity is the single largest source of historical score
// mismatches, so it must stay observable rather than be swallowed.
type AnomalyStats struct {
	mu sync.Mutex

	UnrecognizedAnswers int
	MissingMasterEntry  int
	FallbackComposites  int
	ClosedStoresSkipped int

	// samples keeps a few raw values per anomaly kind for audit output.
	samples map[string][]string
}

// NewAnomalyStats returns a ready-to-use counter set.
func NewAnomalyStats() *AnomalyStats {
	return &AnomalyStats{samples: make(map[string][]string)}
}

const maxAnomalySamples = 5

func (s *AnomalyStats) sample(kind, value string) {
	if len(s.samples[kind]) < maxAnomalySamples {
		s.samples[kind] = append(s.samples[kind], value)
	}
}

// RecordUnrecognized notes a raw answer that matched no known pattern.
func (s *AnomalyStats) RecordUnrecognized(raw string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UnrecognizedAnswers++
	s.sample("unrecognized", raw)
}

// RecordMissingMaster notes a site code absent from the master directory.
func (s *AnomalyStats) RecordMissingMaster(siteCode string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MissingMasterEntry++
	s.sample("missing_master", siteCode)
}

// RecordFallbackComposite notes a store whose composite came from the
// section-mean fallback instead of the authoritative Final Score.
func (s *AnomalyStats) RecordFallbackComposite(siteCode string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FallbackComposites++
	s.sample("fallback_composite", siteCode)
}

// RecordClosedStore notes a row skipped for the CLOSED sentinel.
func (s *AnomalyStats) RecordClosedStore(siteCode string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClosedStoresSkipped++
	s.sample("closed", siteCode)
}

// Summary renders the counters as stable, sorted lines for logging.
func (s *AnomalyStats) Summary() []string {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := []string{
		fmt.Sprintf("unrecognized answers: %d", s.UnrecognizedAnswers),
		fmt.Sprintf("missing master entries: %d", s.MissingMasterEntry),
		fmt.Sprintf("fallback composites: %d", s.FallbackComposites),
		fmt.Sprintf("closed stores skipped: %d", s.ClosedStoresSkipped),
	}

	kinds := make([]string, 0, len(s.samples))
	for k := range s.samples {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		lines = append(lines, fmt.Sprintf("  %s samples: %v", k, s.samples[k]))
	}
	return lines
}
