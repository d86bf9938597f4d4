package core

import (
	"fmt"

	"github.com/retailops/auditpulse/core/agg"
	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/internal/surveyio"
	"github.com/retailops/auditpulse/schema"
)

// Dataset is the outcome of one full scoring run: every store result from
// the configured wave files plus the aggregate tree built from them.
type Dataset struct {
	Results   []schema.StoreWaveResult
	Hierarchy *schema.Hierarchy
	Waves     []schema.Wave
	Registry  *SectionRegistry
	Stats     *schema.AnomalyStats
}

// LatestWaveKey returns the key of the last configured wave, which drives
// roll-up display and plan derivation.
func (d *Dataset) LatestWaveKey() string {
	if len(d.Waves) == 0 {
		return ""
	}
	return d.Waves[len(d.Waves)-1].Key()
}

// LatestResults returns the results belonging to the last configured wave.
func (d *Dataset) LatestResults() []schema.StoreWaveResult {
	key := d.LatestWaveKey()
	var latest []schema.StoreWaveResult
	for _, r := range d.Results {
		if r.Wave.Key() == key {
			latest = append(latest, r)
		}
	}
	return latest
}

// LoadRegistryForConfig resolves the section registry for a run: the
// builtin survey version unless a registry file is configured, with an
// optional weight table override on top. The result is always validated.
func LoadRegistryForConfig(cfg *contract.Config) (*SectionRegistry, error) {
	reg := DefaultRegistry()
	if cfg.RegistryFile != "" {
		loaded, err := LoadRegistry(cfg.RegistryFile)
		if err != nil {
			return nil, fmt.Errorf("load registry %s: %w", cfg.RegistryFile, err)
		}
		reg = loaded
	}

	if cfg.WeightsFile != "" {
		weights, err := surveyio.LoadSectionWeights(cfg.WeightsFile)
		if err != nil {
			return nil, fmt.Errorf("load weights %s: %w", cfg.WeightsFile, err)
		}
		reg.Weights = weights
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

// BuildDataset reads and scores every configured wave file and folds the
// results into the hierarchy. A missing master directory degrades to raw
// row identities with a warning; a broken wave file aborts the run.
func BuildDataset(cfg *contract.Config) (*Dataset, error) {
	if len(cfg.WaveFiles) == 0 {
		return nil, fmt.Errorf("no wave files given; pass at least one export file")
	}

	reg, err := LoadRegistryForConfig(cfg)
	if err != nil {
		return nil, err
	}

	master := schema.MasterDirectory{}
	if cfg.MasterFile != "" {
		master, err = surveyio.LoadMasterDirectory(cfg.MasterFile)
		if err != nil {
			contract.LogWarn("master directory unavailable, using row identities", err)
		}
	}

	stats := schema.NewAnomalyStats()
	var results []schema.StoreWaveResult
	var waves []schema.Wave

	for _, wf := range cfg.WaveFiles {
		rows, err := surveyio.ReadWaveFile(wf.Path)
		if err != nil {
			return nil, fmt.Errorf("read wave file %s: %w", wf.Path, err)
		}
		waveResults, err := ProcessWave(rows, wf.Wave, master, reg, stats)
		if err != nil {
			return nil, fmt.Errorf("process %s: %w", wf.Wave.Key(), err)
		}
		results = append(results, waveResults...)
		waves = append(waves, wf.Wave)
	}

	return &Dataset{
		Results:   results,
		Hierarchy: agg.BuildHierarchy(results, waves),
		Waves:     waves,
		Registry:  reg,
		Stats:     stats,
	}, nil
}

// DeriveAllPlans builds the remedial plan for every store in the hierarchy,
// keyed by site code. Stores restricted by siteCode get a single entry.
func DeriveAllPlans(d *Dataset, siteCode string) (map[string][]schema.ActionPlanItem, error) {
	waveKey := d.LatestWaveKey()
	national := d.Hierarchy.National[waveKey]

	plans := make(map[string][]schema.ActionPlanItem)
	if siteCode != "" {
		store, ok := d.Hierarchy.Stores[siteCode]
		if !ok {
			return nil, fmt.Errorf("no store with site code %q in the loaded waves", siteCode)
		}
		plans[siteCode] = DerivePlan(store, waveKey, national, d.Hierarchy.Qualitative)
		return plans, nil
	}

	for code, store := range d.Hierarchy.Stores {
		plans[code] = DerivePlan(store, waveKey, national, d.Hierarchy.Qualitative)
	}
	return plans, nil
}
