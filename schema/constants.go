package schema

// Custom string types for type safety.
type (
	// Outcome is the ternary result of classifying one raw answer.
	Outcome string

	// AnswerToken is the decoded variant of a raw answer cell.
	AnswerToken string

	// Letter identifies one of the eleven audit sections (A-K).
	Letter string

	// Sentiment is the polarity assigned to a qualitative feedback entry.
	Sentiment string

	// PlanStatus tracks an action plan item through its approval flow.
	PlanStatus string

	// PlanCategory labels the origin of a derived action plan item.
	PlanCategory string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// Classification outcomes. Excluded answers never enter a section tally.
const (
	OutcomePositive Outcome = "positive"
	OutcomeNegative Outcome = "negative"
	OutcomeExcluded Outcome = "excluded"
)

// Decoded answer variants. Unrecognized is an explicit variant, not a silent
// fallthrough, so ambiguous cells stay observable in anomaly counters.
const (
	TokenEmpty         AnswerToken = "empty"
	TokenYes           AnswerToken = "yes"
	TokenNo            AnswerToken = "no"
	TokenNotApplicable AnswerToken = "na"
	TokenFractionPass  AnswerToken = "fraction_pass"
	TokenFractionFail  AnswerToken = "fraction_fail"
	TokenPercentPass   AnswerToken = "percent_pass"
	TokenPercentFail   AnswerToken = "percent_fail"
	TokenUnrecognized  AnswerToken = "unrecognized"
)

// Audit sections in display order.
const (
	SectionA Letter = "A"
	SectionB Letter = "B"
	SectionC Letter = "C"
	SectionD Letter = "D"
	SectionE Letter = "E"
	SectionF Letter = "F"
	SectionG Letter = "G"
	SectionH Letter = "H"
	SectionI Letter = "I"
	SectionJ Letter = "J"
	SectionK Letter = "K"
)

// AllSections lists every section letter in canonical order.
var AllSections = []Letter{
	SectionA, SectionB, SectionC, SectionD, SectionE, SectionF,
	SectionG, SectionH, SectionI, SectionJ, SectionK,
}

// Feedback sentiment values.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Action plan statuses. Approval is strictly serial: HCBP sign-off is only
// reachable after the Head of Branch stage.
const (
	PlanPending      PlanStatus = "pending"
	PlanInProgress   PlanStatus = "in_progress"
	PlanHeadApproved PlanStatus = "head_approved"
	PlanApproved     PlanStatus = "approved"
)

// Action plan categories in priority order.
const (
	CategoryBaseline     PlanCategory = "Baseline"
	CategoryQuantitative PlanCategory = "Quantitative"
	CategoryVoC          PlanCategory = "VOC"
	CategoryPareto       PlanCategory = "Pareto"
	CategoryBestPractice PlanCategory = "Best Practice"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All persistence backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidBackends lists all valid persistence backends.
var ValidBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Scoring and derivation thresholds.
const (
	// CriticalThreshold marks a section score as critical when below it.
	CriticalThreshold = 86.0

	// GapThreshold is the store-vs-national gap below which a section
	// becomes a quantitative action item.
	GapThreshold = -2.0

	// MinPlanItems is the floor enforced by generic best-practice filler.
	MinPlanItems = 3

	// ParetoCount is how many lowest-scoring sections feed the plan.
	ParetoCount = 3

	// ExcerptLimit caps verbatim feedback excerpts in action items.
	ExcerptLimit = 150

	// MinFeedbackLength filters out trivially short free-text cells.
	MinFeedbackLength = 3
)

// FeedbackItemCode is the open-text item that carries shopper feedback.
const FeedbackItemCode = 759291

// FeedbackMarker flags open-text columns that lack an item code.
const FeedbackMarker = "informasikan hal-hal"

// ClosedSentinel marks stores that no longer operate; their rows must not
// pollute aggregates.
const ClosedSentinel = "CLOSED"

// UnknownLabel is the normalized value for absent region/branch fields.
const UnknownLabel = "UNKNOWN"
