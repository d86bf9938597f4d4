package core

import (
	"fmt"
	"os"
	"sort"

	"github.com/retailops/auditpulse/schema"
	"gopkg.in/yaml.v3"
)

// ConditionalRule models one item being a conditional follow-up to another:
// when TriggerCode resolves to OnOutcome for a row, SkipCode is excluded
// from scoring for that row only.
type ConditionalRule struct {
	TriggerCode int            `yaml:"trigger"`
	OnOutcome   schema.Outcome `yaml:"on_outcome"`
	SkipCode    int            `yaml:"skip"`
}

// SectionDefinition is one static registry entry: the ordered item codes of
// a section, its unconditional exclusions and an optional conditional rule.
type SectionDefinition struct {
	Letter      schema.Letter    `yaml:"letter"`
	Name        string           `yaml:"name"`
	Codes       []int            `yaml:"codes"`
	Exclude     []int            `yaml:"exclude"`
	Conditional *ConditionalRule `yaml:"conditional,omitempty"`
}

// SectionRegistry holds the per-survey-version item mapping and weight
// table. Loaded once at startup and never mutated at runtime; the version
// tag travels with every scoring call to avoid silent cross-version
// corruption.
type SectionRegistry struct {
	Version  string                              `yaml:"version"`
	Sections map[schema.Letter]SectionDefinition `yaml:"sections"`
	Weights  schema.WeightTable                  `yaml:"weights"`
}

// DefaultSurveyVersion tags the builtin registry. Item codes are not stable
// across survey redesigns, so the registry must be re-validated whenever the
// instrument changes.
const DefaultSurveyVersion = "2024.1"

// sectionNames are the canonical full section names as they appear in wave
// export headers.
var sectionNames = map[schema.Letter]string{
	schema.SectionA: "A. Tampilan Tampak Depan Outlet",
	schema.SectionB: "B. Sambutan Hangat Ketika Masuk ke Dalam Outlet",
	schema.SectionC: "C. Suasana & Kenyamanan Outlet",
	schema.SectionD: "D. Penampilan Retail Assistant",
	schema.SectionE: "E. Pelayanan Penjualan & Pengetahuan Produk",
	schema.SectionF: "F. Pengalaman Mencoba Produk",
	schema.SectionG: "G. Rekomendasi untuk Membeli Produk",
	schema.SectionH: "H. Pembelian Produk & Pembayaran di Kasir",
	schema.SectionI: "I. Penampilan Kasir",
	schema.SectionJ: "J. Toilet (Khusus Store yang memiliki toilet )",
	schema.SectionK: "K. Salam Perpisahan oleh Retail Asisstant",
}

// SectionName returns the full display name for a section letter.
func SectionName(letter schema.Letter) string {
	return sectionNames[letter]
}

// DefaultRegistry returns the builtin registry for the current survey
// version. The item mapping was validated bottom-up against the external
// tool's own section percentages across the full sample corpus.
func DefaultRegistry() *SectionRegistry {
	reg := &SectionRegistry{
		Version: DefaultSurveyVersion,
		Sections: map[schema.Letter]SectionDefinition{
			schema.SectionA: {Letter: schema.SectionA, Codes: []int{759166, 759167, 759168, 759169, 759170, 759171}},
			schema.SectionB: {Letter: schema.SectionB, Codes: []int{759174, 759175, 759176, 759177, 759178, 759179}},
			schema.SectionC: {Letter: schema.SectionC, Codes: []int{759181, 759182, 759183, 759184, 759185, 759186, 759187, 759188, 759189, 759190, 759191, 759192}},
			schema.SectionD: {Letter: schema.SectionD, Codes: []int{759194, 759195, 759196, 759197, 759198, 759199, 759200, 759201}},
			schema.SectionE: {Letter: schema.SectionE, Codes: []int{759204, 759206, 759207, 759208, 759209, 759210, 759212, 759213, 759214, 759215}},
			schema.SectionF: {
				Letter: schema.SectionF,
				Codes:  []int{759220, 759221, 759222, 759223, 759224, 759225, 759226, 759227, 759228},
				// 759221 ("did you offer help") only counts when the
				// preceding interaction did not already resolve positively.
				Conditional: &ConditionalRule{TriggerCode: 759220, OnOutcome: schema.OutcomePositive, SkipCode: 759221},
			},
			schema.SectionG: {
				Letter:  schema.SectionG,
				Codes:   []int{759231, 759233, 759211, 759569, 759235, 759236, 759237, 759243, 759239},
				Exclude: []int{759211},
			},
			schema.SectionH: {Letter: schema.SectionH, Codes: []int{759247, 759248, 759249, 759250, 759251, 759252, 759253, 759254, 759255, 759256, 759257, 759258, 759259, 759260, 759261, 759267, 759262, 759263, 759265, 759266}},
			schema.SectionI: {Letter: schema.SectionI, Codes: []int{759270, 759271, 759272, 759273, 759274, 759275, 759276, 759277}},
			schema.SectionJ: {
				Letter:  schema.SectionJ,
				Codes:   []int{759280, 759281, 759282, 759283, 759284},
				Exclude: []int{759282, 759283}, // grouped informational sub-fields
			},
			schema.SectionK: {Letter: schema.SectionK, Codes: []int{759287, 759288, 759289}},
		},
		Weights: schema.WeightTable{
			schema.SectionA: 4,
			schema.SectionB: 9,
			schema.SectionC: 10,
			schema.SectionD: 8,
			schema.SectionE: 15,
			schema.SectionF: 10,
			schema.SectionG: 12,
			schema.SectionH: 15,
			schema.SectionI: 6,
			schema.SectionJ: 4,
			schema.SectionK: 7,
		},
	}
	for letter, def := range reg.Sections {
		def.Name = sectionNames[letter]
		reg.Sections[letter] = def
	}
	return reg
}

// LoadRegistry reads a registry from a YAML file and validates it. This is
// the versioned-configuration path for survey redesigns; the builtin
// registry stays the default.
func LoadRegistry(path string) (*SectionRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.NewConfigError("registry file %s: %v", path, err)
	}
	var reg SectionRegistry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, schema.NewConfigError("registry file %s: %v", path, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate checks registry integrity: all eleven sections present, no
// duplicate or orphan codes, conditional rules referencing their own
// section, and weights summing to exactly 100.
func (r *SectionRegistry) Validate() error {
	if r.Version == "" {
		return schema.NewConfigError("registry has no survey version tag")
	}

	seen := make(map[int]schema.Letter)
	for _, letter := range schema.AllSections {
		def, ok := r.Sections[letter]
		if !ok {
			return schema.NewConfigError("survey version %s: section %s missing from registry", r.Version, letter)
		}
		if len(def.Codes) == 0 {
			return schema.NewConfigError("survey version %s: section %s has no item codes", r.Version, letter)
		}

		codeSet := make(map[int]struct{}, len(def.Codes))
		for _, code := range def.Codes {
			if owner, dup := seen[code]; dup {
				return schema.NewConfigError("survey version %s: item %d appears in both %s and %s", r.Version, code, owner, letter)
			}
			seen[code] = letter
			codeSet[code] = struct{}{}
		}
		for _, code := range def.Exclude {
			if _, ok := codeSet[code]; !ok {
				return schema.NewConfigError("survey version %s: section %s excludes orphan item %d", r.Version, letter, code)
			}
		}
		if c := def.Conditional; c != nil {
			if _, ok := codeSet[c.TriggerCode]; !ok {
				return schema.NewConfigError("survey version %s: section %s conditional trigger %d not in section", r.Version, letter, c.TriggerCode)
			}
			if _, ok := codeSet[c.SkipCode]; !ok {
				return schema.NewConfigError("survey version %s: section %s conditional skip %d not in section", r.Version, letter, c.SkipCode)
			}
		}
	}

	var sum float64
	for _, letter := range schema.AllSections {
		w, ok := r.Weights[letter]
		if !ok {
			return schema.NewConfigError("survey version %s: no weight for section %s", r.Version, letter)
		}
		if w < 0 {
			return schema.NewConfigError("survey version %s: negative weight for section %s", r.Version, letter)
		}
		sum += w
	}
	if sum != 100 {
		return schema.NewConfigError("survey version %s: weights sum to %v, want 100", r.Version, sum)
	}
	return nil
}

// ItemsFor returns the registry entry for a section letter. An unknown
// letter is a programming/config error, not a per-row condition.
func (r *SectionRegistry) ItemsFor(letter schema.Letter) (SectionDefinition, error) {
	def, ok := r.Sections[letter]
	if !ok {
		return SectionDefinition{}, schema.NewConfigError("survey version %s: unknown section %q", r.Version, letter)
	}
	return def, nil
}

// EffectiveCodes resolves the scored item list for one row as a pure
// function of that row's own answers: unconditional exclusions first, then
// the conditional skip evaluated against the row. No shared skip state
// survives between rows.
func (r *SectionRegistry) EffectiveCodes(def SectionDefinition, items map[int]string) []int {
	skip := make(map[int]struct{}, len(def.Exclude)+1)
	for _, code := range def.Exclude {
		skip[code] = struct{}{}
	}
	if c := def.Conditional; c != nil {
		if Classify(items[c.TriggerCode]) == c.OnOutcome {
			skip[c.SkipCode] = struct{}{}
		}
	}

	codes := make([]int, 0, len(def.Codes))
	for _, code := range def.Codes {
		if _, skipped := skip[code]; skipped {
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

// SectionOf returns the section letter owning an item code, including
// excluded codes. The second return is false for codes outside the survey.
func (r *SectionRegistry) SectionOf(code int) (schema.Letter, bool) {
	for letter, def := range r.Sections {
		for _, c := range def.Codes {
			if c == code {
				return letter, true
			}
		}
	}
	return "", false
}

// WeightFor returns the composite weight for a section letter.
func (r *SectionRegistry) WeightFor(letter schema.Letter) float64 {
	return r.Weights[letter]
}

// OrderedLetters returns the section letters in canonical order; helper for
// deterministic iteration in output and persistence paths.
func OrderedLetters(m map[schema.Letter]schema.SectionScore) []schema.Letter {
	letters := make([]schema.Letter, 0, len(m))
	for letter := range m {
		letters = append(letters, letter)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return letters
}

// String implements fmt.Stringer for log output.
func (r *SectionRegistry) String() string {
	return fmt.Sprintf("registry(version=%s, sections=%d)", r.Version, len(r.Sections))
}
