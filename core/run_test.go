package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRunFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Wave 3 2024.csv")
	content := "Site Code;Site Name;Regional;Branch;Final Score;(759166) Area depan toko bersih;(759174) Kasir menyapa pelanggan\n" +
		"ST001;Rawamangun;JAKARTA;JAKARTA 1;91,5;Ya (1/1);Tidak (0/1)\n" +
		"ST002;Kelapa Gading;JAKARTA;JAKARTA 2;88,0;Ya (1/1);Ya (1/1)\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runConfig(wavePath string) *contract.Config {
	return &contract.Config{
		WaveFiles: []contract.WaveFile{
			{Path: wavePath, Wave: schema.Wave{Name: "Wave 3", Year: 2024}},
		},
		Output:    schema.TextOut,
		Precision: 1,
		Limit:     50,
		Backend:   schema.NoneBackend,
	}
}

func TestBuildDataset(t *testing.T) {
	ds, err := BuildDataset(runConfig(writeRunFixture(t)))
	require.NoError(t, err)

	assert.Len(t, ds.Results, 2)
	assert.Equal(t, "2024 Wave 3", ds.LatestWaveKey())
	assert.Len(t, ds.LatestResults(), 2)
	require.NotNil(t, ds.Hierarchy)
	assert.Equal(t, 2, ds.Hierarchy.National["2024 Wave 3"].Count)
	assert.Contains(t, ds.Hierarchy.Regions, "JAKARTA")
	require.NotNil(t, ds.Stats)
	assert.Equal(t, 2, ds.Stats.MissingMasterEntry) // no master configured
}

func TestBuildDataset_NoWaveFiles(t *testing.T) {
	_, err := BuildDataset(&contract.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no wave files")
}

func TestBuildDataset_MissingWaveFile(t *testing.T) {
	cfg := runConfig(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := BuildDataset(cfg)
	assert.Error(t, err)
}

func TestLoadRegistryForConfig_Default(t *testing.T) {
	reg, err := LoadRegistryForConfig(&contract.Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSurveyVersion, reg.Version)
}

func TestLoadRegistryForConfig_WeightsOverride(t *testing.T) {
	content := "A. Tampilan;10\nB. Sambutan;10\nC. Suasana;10\nD. Penampilan;10\nE. Pelayanan;10\n" +
		"F. Fitting;10\nG. Rekomendasi;10\nH. Kasir;10\nI. Penampilan Kasir;10\nJ. Toilet;5\nK. Salam;5\n"
	path := filepath.Join(t.TempDir(), "weights.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reg, err := LoadRegistryForConfig(&contract.Config{WeightsFile: path})
	require.NoError(t, err)
	assert.Equal(t, 10.0, reg.WeightFor(schema.SectionA))
	assert.Equal(t, 5.0, reg.WeightFor(schema.SectionK))
}

func TestLoadRegistryForConfig_BadWeightsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.csv")
	require.NoError(t, os.WriteFile(path, []byte("A. Only;100\n"), 0o644))

	_, err := LoadRegistryForConfig(&contract.Config{WeightsFile: path})
	assert.Error(t, err)
}

func TestDeriveAllPlans(t *testing.T) {
	ds, err := BuildDataset(runConfig(writeRunFixture(t)))
	require.NoError(t, err)

	plans, err := DeriveAllPlans(ds, "")
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	for code, items := range plans {
		assert.NotEmpty(t, items, "plan for %s", code)
	}

	single, err := DeriveAllPlans(ds, "ST001")
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.NotEmpty(t, single["ST001"])

	_, err = DeriveAllPlans(ds, "ST404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ST404")
}
