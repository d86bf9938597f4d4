package core

import (
	"github.com/retailops/auditpulse/schema"
)

// ScoreSection computes one section score for one row of raw answers.
// Missing item codes are treated as Excluded, never as errors; an unknown
// section letter is fatal because it means the scoring model is broken.
//
// The score is positive/(positive+negative)*100 at full float precision.
// Rounding happens only at display time, which is what keeps the result
// within 0.01 of the external system's section percentages.
func (r *SectionRegistry) ScoreSection(letter schema.Letter, items map[int]string, stats *schema.AnomalyStats) (schema.SectionScore, error) {
	def, err := r.ItemsFor(letter)
	if err != nil {
		return schema.SectionScore{}, err
	}

	score := schema.SectionScore{Letter: letter}
	for _, code := range r.EffectiveCodes(def, items) {
		raw, ok := items[code]
		if !ok {
			continue
		}
		switch ClassifyWith(raw, stats) {
		case schema.OutcomePositive:
			score.Positive++
		case schema.OutcomeNegative:
			score.Negative++
		}
	}

	total := score.Positive + score.Negative
	if total == 0 {
		// Zero countable items means not applicable. A zero score here
		// would wrongly read as a failing store.
		return score, nil
	}
	score.Applicable = true
	score.Score = float64(score.Positive) / float64(total) * 100
	return score, nil
}

// ScoreAllSections runs ScoreSection across the full registry, in canonical
// section order.
func (r *SectionRegistry) ScoreAllSections(items map[int]string, stats *schema.AnomalyStats) (map[schema.Letter]schema.SectionScore, error) {
	scores := make(map[schema.Letter]schema.SectionScore, len(schema.AllSections))
	for _, letter := range schema.AllSections {
		score, err := r.ScoreSection(letter, items, stats)
		if err != nil {
			return nil, err
		}
		scores[letter] = score
	}
	return scores, nil
}
