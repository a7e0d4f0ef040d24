package model

// Candidate is an in-flight, not-yet-persisted record produced by the
// external extractor. It is enriched in place through the
// similarity -> scoring -> decision stages.
type Candidate struct {
	CandidateID string `json:"candidate_id"`
	DocID       string `json:"doc_id"`

	// Source metadata, resolved upstream.
	SourceName   string `json:"source_name"`
	CanonicalURL string `json:"canonical_url"`
	PublishedAt  string `json:"published_at,omitempty"`
	RetrievedAt  string `json:"retrieved_at,omitempty"`
	ContentHash  string `json:"content_hash,omitempty"`

	// Free-text fields used for scoring.
	Title           string `json:"title"`
	ClaimSummary    string `json:"claim_summary"`
	WhyItMatters    string `json:"why_it_matters"`
	EvidenceSnippet string `json:"evidence_snippet"`

	// Proposed classification from the extractor; normalized before scoring.
	ProposedTags      []string `json:"proposed_tags"`
	ProposedSTEEP     string   `json:"proposed_steep"`
	ProposedDimension string   `json:"proposed_dimension"`
	TypeSuggested     string   `json:"type_suggested"`
}

// QueryText is the text the similarity index is queried with.
func (c *Candidate) QueryText() string {
	return c.Title + " " + c.ClaimSummary + " " + c.WhyItMatters
}

// Neighbor is one corpus record matched by a similarity query.
type Neighbor struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Type       string  `json:"type"`
	Scope      string  `json:"scope"`
	Similarity float64 `json:"similarity"`
}

// SimilarityResult holds the top matches for one candidate, ordered by
// descending score. Recomputed fresh per candidate, never cached across runs.
type SimilarityResult struct {
	Neighbors     []Neighbor `json:"neighbors"`
	MaxSimilarity float64    `json:"max_similarity"`
	Duplicate     bool       `json:"duplicate_flag"`
}

// NearestIDs returns the matched corpus IDs in rank order.
func (r SimilarityResult) NearestIDs() []string {
	ids := make([]string, 0, len(r.Neighbors))
	for _, n := range r.Neighbors {
		ids = append(ids, n.ID)
	}
	return ids
}
