package core

import (
	"github.com/retailops/auditpulse/schema"
)

// Composite folds section scores into one store-level composite using the
// weight table, renormalizing the denominator to the weights of sections
// that were applicable for this store. A store with a fully N/A section
// is scored over the remaining active weight, not over 100.
//
// Pure summation: the result is independent of map iteration order.
// When no section is applicable at all the composite is 0.
func Composite(sections map[schema.Letter]schema.SectionScore, weights schema.WeightTable) float64 {
	var earned, activeWeight float64
	for letter, score := range sections {
		if !score.Applicable {
			continue
		}
		w := weights[letter]
		if w <= 0 {
			continue
		}
		earned += score.Score / 100 * w
		activeWeight += w
	}
	if activeWeight == 0 {
		return 0
	}
	return earned / activeWeight * 100
}

// SectionMeanFallback is the degraded-accuracy composite used only when the
// export carries no authoritative Final Score: the unweighted mean of the
// applicable section scores.
func SectionMeanFallback(sections map[schema.Letter]schema.SectionScore) float64 {
	var sum float64
	var n int
	for _, score := range sections {
		if !score.Applicable {
			continue
		}
		sum += score.Score
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
