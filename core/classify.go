// Package core implements the audit scoring engine: answer classification,
// the section item registry, section and composite scoring, wave processing
// and action plan derivation.
package core

import (
	"strings"

	"github.com/retailops/auditpulse/schema"
)

// Answer tokens embedded by the external survey tool. Multi-choice items
// encode their result as a fraction "(1/1)" or a percentage "100.00" inside
// otherwise free-form text.
const (
	fractionPassToken = "(1/1)"
	fractionFailToken = "(0/1)"
	percentPassToken  = "100.00"
	percentFailToken  = "0.00"
)

// DecodeAnswer maps a raw answer cell to its explicit variant. First match
// wins; the order mirrors the external tool's own precedence. Values that
// match no known pattern decode as TokenUnrecognized, never panic.
//
// Note the ordering constraint: percentPassToken contains percentFailToken
// as a substring, so pass tokens are tested first.
func DecodeAnswer(raw string) schema.AnswerToken {
	s := strings.TrimSpace(raw)
	if s == "" {
		return schema.TokenEmpty
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "yes"):
		return schema.TokenYes
	case strings.HasPrefix(lower, "no"):
		return schema.TokenNo
	case lower == "n/a" || lower == "na":
		return schema.TokenNotApplicable
	case strings.Contains(s, fractionPassToken):
		return schema.TokenFractionPass
	case strings.Contains(s, percentPassToken):
		return schema.TokenPercentPass
	case strings.Contains(s, fractionFailToken):
		return schema.TokenFractionFail
	case strings.Contains(s, percentFailToken):
		return schema.TokenPercentFail
	default:
		return schema.TokenUnrecognized
	}
}

// outcomeByToken collapses decoded variants onto the scoring ternary.
var outcomeByToken = map[schema.AnswerToken]schema.Outcome{
	schema.TokenEmpty:         schema.OutcomeExcluded,
	schema.TokenYes:           schema.OutcomePositive,
	schema.TokenNo:            schema.OutcomeNegative,
	schema.TokenNotApplicable: schema.OutcomeExcluded,
	schema.TokenFractionPass:  schema.OutcomePositive,
	schema.TokenFractionFail:  schema.OutcomeNegative,
	schema.TokenPercentPass:   schema.OutcomePositive,
	schema.TokenPercentFail:   schema.OutcomeNegative,
	schema.TokenUnrecognized:  schema.OutcomeExcluded,
}

// Classify maps a raw answer to Positive, Negative or Excluded.
// Total over all strings: it never errors and never panics.
func Classify(raw string) schema.Outcome {
	return outcomeByToken[DecodeAnswer(raw)]
}

// ClassifyWith is Classify plus anomaly accounting: unrecognized values are
// counted so the ambiguity channel stays observable. stats may be nil.
//
// Numeric values strictly between 0 and 100 are deliberately routed through
// TokenUnrecognized; no reviewed export ever exercised them, so they are
// excluded and counted rather than guessed at.
func ClassifyWith(raw string, stats *schema.AnomalyStats) schema.Outcome {
	token := DecodeAnswer(raw)
	if token == schema.TokenUnrecognized {
		stats.RecordUnrecognized(raw)
	}
	return outcomeByToken[token]
}
