package core

import (
	"testing"

	"github.com/retailops/auditpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreSection_Basic(t *testing.T) {
	reg := DefaultRegistry()
	items := map[int]string{
		759166: "Yes",
		759167: "Yes",
		759168: "No",
		759169: "N/A",
	}

	score, err := reg.ScoreSection(schema.SectionA, items, nil)
	require.NoError(t, err)
	assert.True(t, score.Applicable)
	assert.Equal(t, 2, score.Positive)
	assert.Equal(t, 1, score.Negative)
	assert.InDelta(t, 66.6667, score.Score, 0.001)
}

func TestScoreSection_MissingItemsExcluded(t *testing.T) {
	reg := DefaultRegistry()
	// Only one of six section A items answered; the rest are simply absent.
	score, err := reg.ScoreSection(schema.SectionA, map[int]string{759166: "Yes"}, nil)
	require.NoError(t, err)
	assert.True(t, score.Applicable)
	assert.Equal(t, 100.0, score.Score)
}

func TestScoreSection_NotApplicable(t *testing.T) {
	reg := DefaultRegistry()

	// No countable answers at all: N/A, not a zero score.
	score, err := reg.ScoreSection(schema.SectionJ, map[int]string{759280: "N/A"}, nil)
	require.NoError(t, err)
	assert.False(t, score.Applicable)
	assert.Equal(t, 0.0, score.Score)
}

func TestScoreSection_AllNegativeIsZeroNotNA(t *testing.T) {
	reg := DefaultRegistry()
	score, err := reg.ScoreSection(schema.SectionK, map[int]string{
		759287: "No",
		759288: "No",
		759289: "No",
	}, nil)
	require.NoError(t, err)
	assert.True(t, score.Applicable)
	assert.Equal(t, 0.0, score.Score)
}

func TestScoreSection_UnknownLetterFatal(t *testing.T) {
	reg := DefaultRegistry()
	_, err := reg.ScoreSection(schema.Letter("Z"), map[int]string{}, nil)
	assert.Error(t, err)
	assert.True(t, schema.IsConfigError(err))
}

func TestScoreSection_ConditionalSkipAffectsScore(t *testing.T) {
	reg := DefaultRegistry()

	// Trigger 759220 positive skips 759221 for this row, so its negative
	// answer never reaches the tally.
	score, err := reg.ScoreSection(schema.SectionF, map[int]string{
		759220: "Yes",
		759221: "No",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, score.Score)

	score, err = reg.ScoreSection(schema.SectionF, map[int]string{
		759220: "No",
		759221: "No",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score.Score)
}

func TestScoreAllSections(t *testing.T) {
	reg := DefaultRegistry()
	scores, err := reg.ScoreAllSections(map[int]string{759166: "Yes"}, nil)
	require.NoError(t, err)
	assert.Len(t, scores, len(schema.AllSections))
	assert.True(t, scores[schema.SectionA].Applicable)
	assert.False(t, scores[schema.SectionB].Applicable)
}
