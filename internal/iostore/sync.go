package iostore

import (
	"fmt"

	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/schema"
)

// SyncError records one store that failed to persist during a batch sync.
type SyncError struct {
	SiteCode string
	WaveKey  string
	Err      error
}

func (e SyncError) Error() string {
	return fmt.Sprintf("sync %s (%s): %v", e.SiteCode, e.WaveKey, e.Err)
}

// SyncAll persists a batch of scored results, continuing past per-store
// failures so one bad row never blocks the rest of a wave. It returns the
// number of stores written and the failures in input order.
func SyncAll(store contract.ResultStore, results []schema.StoreWaveResult) (int, []SyncError) {
	var synced int
	var failures []SyncError

	for i := range results {
		res := &results[i]
		if err := store.UpsertStoreWave(res); err != nil {
			failures = append(failures, SyncError{
				SiteCode: res.SiteCode,
				WaveKey:  res.Wave.Key(),
				Err:      err,
			})
			continue
		}
		synced++
	}
	return synced, failures
}
