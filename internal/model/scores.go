package model

// Decision classifies a scored candidate. Exactly one decision is
// attached to every candidate that completes scoring.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReview Decision = "review"
	DecisionReject Decision = "reject"
)

// ScoreBundle holds the calibrated numeric scores for one candidate.
// All values are deterministic functions of the similarity result,
// the source tier and the normalized classification fields.
type ScoreBundle struct {
	CandidateID string `json:"candidate_id"`

	Novelty     float64 `json:"novelty_score"`     // 0-100
	Credibility float64 `json:"credibility_score"` // 0-100 (clamped)
	Relevance   float64 `json:"relevance_score"`   // 0-100

	// RawCredibility is the pre-clamp credibility used by the priority
	// gate conditions.
	RawCredibility float64 `json:"-"`

	PriorityIndex float64 `json:"priority_index"` // 0-100

	// ImportanceDistance is bucketed 1-10 at scoring time and may be
	// overridden by batch calibration.
	ImportanceDistance int `json:"importance_distance"`

	Decision  Decision `json:"decision"`
	Rationale string   `json:"scoring_rationale"`
}

// ScoredCandidate ties a candidate to its similarity evidence and scores.
// Every field is complete before the candidate leaves the scoring stage,
// so a partially processed batch still exports cleanly.
type ScoredCandidate struct {
	Candidate  Candidate        `json:"candidate"`
	Similarity SimilarityResult `json:"similarity"`
	Scores     ScoreBundle      `json:"scores"`
	Tier       SourceTier       `json:"source_tier"`
}

// RunSummary aggregates the outcome of one pipeline run.
type RunSummary struct {
	Date                   string      `json:"date"`
	RunID                  string      `json:"run_id"`
	Candidates             int         `json:"candidates"`
	Accepted               int         `json:"accept"`
	Review                 int         `json:"review"`
	Rejected               int         `json:"reject"`
	MasterAppended         int         `json:"master_appended"`
	ForcesCreated          int         `json:"forces_created"`
	ImportanceDistribution map[int]int `json:"importance_distribution"`
}
