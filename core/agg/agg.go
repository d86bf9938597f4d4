// Package agg folds store-wave results into the reporting hierarchy:
// per-store history plus branch, region and national roll-ups.
package agg

import (
	"sort"

	"github.com/retailops/auditpulse/schema"
)

// BuildHierarchy reduces results into the aggregate tree. Accumulation is
// pure sums and counts, so it is commutative and order-independent:
// running it twice on the same input yields a deep-equal tree, and a
// sum/count ratio always equals the arithmetic mean of the exact leaf set
// that rolled into it.
//
// waves must list the ingested waves in chronological order; the flat
// qualitative pool keeps only the most recent wave's feedback.
func BuildHierarchy(results []schema.StoreWaveResult, waves []schema.Wave) *schema.Hierarchy {
	h := &schema.Hierarchy{
		National: make(schema.LevelNode),
		Regions:  make(map[string]schema.LevelNode),
		Branches: make(map[string]schema.LevelNode),
		Stores:   make(map[string]*schema.StoreNode),
	}

	var latestKey string
	if len(waves) > 0 {
		latestKey = waves[len(waves)-1].Key()
	}

	for i := range results {
		res := results[i]
		waveKey := res.Wave.Key()

		if waveKey == latestKey {
			h.Qualitative = append(h.Qualitative, res.Qualitative...)
		}

		store, ok := h.Stores[res.SiteCode]
		if !ok {
			store = &schema.StoreNode{
				Meta: schema.StoreMeta{
					Code:   res.SiteCode,
					Name:   res.SiteName,
					Region: res.Region,
					Branch: res.Branch,
				},
				Results: make(map[string]*schema.StoreWaveResult),
			}
			h.Stores[res.SiteCode] = store
		}
		// Upsert by wave key: reprocessing a wave replaces, never duplicates.
		store.Results[waveKey] = &res

		// One pure append fans each leaf out to every roll-up level.
		appendResult(nodeFor(h.National, nil, ""), waveKey, &res)
		appendResult(nodeFor(nil, h.Regions, res.Region), waveKey, &res)
		appendResult(nodeFor(nil, h.Branches, res.Branch), waveKey, &res)
	}

	sortQualitative(h.Qualitative)
	return h
}

// nodeFor returns the LevelNode to accumulate into, creating keyed nodes
// on demand. Exactly one of direct/keyed is used per call.
func nodeFor(direct schema.LevelNode, keyed map[string]schema.LevelNode, key string) schema.LevelNode {
	if direct != nil {
		return direct
	}
	node, ok := keyed[key]
	if !ok {
		node = make(schema.LevelNode)
		keyed[key] = node
	}
	return node
}

// appendResult merges one store-wave result into a level aggregate.
// This is the only writer to aggregate sums and counts.
func appendResult(level schema.LevelNode, waveKey string, res *schema.StoreWaveResult) {
	wagg, ok := level[waveKey]
	if !ok {
		wagg = &schema.WaveAgg{
			Sections: make(map[schema.Letter]*schema.SectionAgg),
			Items:    make(map[int]*schema.ItemAgg),
		}
		level[waveKey] = wagg
	}

	wagg.Sum += res.Composite
	wagg.Count++

	for letter, score := range res.Sections {
		if !score.Applicable {
			continue
		}
		sec, ok := wagg.Sections[letter]
		if !ok {
			sec = &schema.SectionAgg{}
			wagg.Sections[letter] = sec
		}
		sec.Sum += score.Score
		sec.Count++
		if score.Score < schema.CriticalThreshold {
			sec.Critical++
		}
	}

	for code, outcome := range res.Items {
		item, ok := wagg.Items[code]
		if !ok {
			item = &schema.ItemAgg{}
			wagg.Items[code] = item
		}
		// Benchmarks count numeric outcomes only: Positive=1, Negative=0.
		if outcome == schema.OutcomePositive {
			item.Sum++
		}
		item.Count++
	}
}

// sortQualitative orders the flat feedback pool deterministically so two
// runs over the same input are byte-identical when serialized.
func sortQualitative(entries []schema.QualitativeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SourceColumn != entries[j].SourceColumn {
			return entries[i].SourceColumn < entries[j].SourceColumn
		}
		return entries[i].Text < entries[j].Text
	})
}

// LatestWaveKey returns the wave key of a store's most recent result, or
// the empty string for a store with no history.
func LatestWaveKey(store *schema.StoreNode) string {
	if store == nil || len(store.Results) == 0 {
		return ""
	}
	keys := make([]string, 0, len(store.Results))
	for k := range store.Results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[len(keys)-1]
}
