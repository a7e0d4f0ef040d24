package score

import (
	"fmt"
	"math"

	"github.com/pkoval/horizon/internal/model"
)

// Tier base credibility values.
var tierBase = map[model.SourceTier]float64{
	model.TierA: 85,
	model.TierB: 72,
	model.TierC: 58,
	model.TierD: 35,
}

// Corroboration band: neighbors in this similarity range support the
// candidate without being duplicates of it.
const (
	corroborationMin   = 0.70
	corroborationBonus = 3.0
	corroborationCap   = 9.0
	completenessBonus  = 4.0
)

// Scorer converts similarity evidence and source metadata into calibrated
// numeric scores. Pure computation: no external state, no failure mode;
// out-of-range inputs are clamped rather than rejected.
type Scorer struct {
	weights            model.WeightsConfig
	duplicateThreshold float64
	taxonomy           model.Taxonomy
}

// NewScorer creates a scorer bound to the run's taxonomy and weighting.
func NewScorer(weights model.WeightsConfig, duplicateThreshold float64, taxonomy model.Taxonomy) *Scorer {
	return &Scorer{
		weights:            weights,
		duplicateThreshold: duplicateThreshold,
		taxonomy:           taxonomy,
	}
}

// Score computes the full bundle for one candidate. The decision fields
// are left empty; the decision engine fills them afterwards.
func (s *Scorer) Score(cand model.Candidate, sim model.SimilarityResult, tier model.SourceTier) model.ScoreBundle {
	novelty := clamp(s.novelty(sim.MaxSimilarity), 0, 100)
	rawCred := s.credibility(cand, sim, tier)
	credibility := clamp(rawCred, 0, 100)
	relevance := clamp(s.relevance(cand), 0, 100)

	priority := s.weights.Relevance*relevance + s.weights.Novelty*novelty + s.weights.Credibility*credibility

	// Low-credibility gates cap the weighted sum; the gate condition uses
	// the pre-clamp credibility value.
	if rawCred < 40 {
		priority = math.Min(priority, 50)
	}
	if rawCred < 25 {
		priority = math.Min(priority, 35)
	}
	priority = clamp(priority, 0, 100)

	return model.ScoreBundle{
		CandidateID:        cand.CandidateID,
		Novelty:            round2(novelty),
		Credibility:        round2(credibility),
		RawCredibility:     rawCred,
		Relevance:          round2(relevance),
		PriorityIndex:      round2(priority),
		ImportanceDistance: ImportanceDistance(priority),
		Rationale: fmt.Sprintf("novelty %.0f from max similarity %.2f, credibility %.0f (tier %s), relevance %.0f",
			novelty, sim.MaxSimilarity, credibility, tier, relevance),
	}
}

// novelty maps max similarity to a 0-100 novelty value.
// Three bands: near-duplicates (s >= 0.90) fall from 15 to 0, the midband
// interpolates 85 down to 15, and below 0.70 novelty climbs from 85 with
// slope 150, saturating at 100 around s = 0.60.
func (s *Scorer) novelty(maxSim float64) float64 {
	switch {
	case maxSim >= 0.90:
		return math.Max(0, 15*(1-(maxSim-0.90)/0.10))
	case maxSim <= 0.70:
		return 85 + (0.70-maxSim)*150
	default:
		slope := (85.0 - 15.0) / (0.70 - 0.90)
		return 15 + slope*(maxSim-0.90)
	}
}

// credibility starts from the source tier base, adds corroboration from
// similar-but-not-duplicate corpus hits, and an evidence completeness bonus.
func (s *Scorer) credibility(cand model.Candidate, sim model.SimilarityResult, tier model.SourceTier) float64 {
	base, ok := tierBase[tier]
	if !ok {
		base = tierBase[model.TierC]
	}

	corroborating := 0
	for _, n := range sim.Neighbors {
		if n.Similarity >= corroborationMin && n.Similarity < s.duplicateThreshold {
			corroborating++
		}
	}
	bonus := 0.0
	if corroborating > 1 {
		bonus = math.Min(float64(corroborating-1)*corroborationBonus, corroborationCap)
	}

	if cand.EvidenceSnippet != "" && cand.CanonicalURL != "" {
		bonus += completenessBonus
	}

	return base + bonus
}

// relevance measures how well the candidate's classification matches the
// accepted taxonomy: a fully matched set scores higher than partial or
// defaulted classification.
func (s *Scorer) relevance(cand model.Candidate) float64 {
	value := 40.0

	if model.ValidSTEEP(cand.ProposedSTEEP) {
		value += 20
	}
	if cand.ProposedDimension != "" && cand.ProposedDimension != "Other" && s.taxonomy.HasDimension(cand.ProposedDimension) {
		value += 20
	}
	if len(cand.ProposedTags) > 0 {
		matched := 0
		for _, tag := range cand.ProposedTags {
			if s.taxonomy.HasTag(tag) {
				matched++
			}
		}
		value += 20 * float64(matched) / float64(len(cand.ProposedTags))
	}

	return value
}

// importanceBin maps a closed priority range to a distance bucket.
type importanceBin struct {
	low, high float64
	distance  int
}

var importanceBins = []importanceBin{
	{0, 14, 1},
	{15, 24, 2},
	{25, 34, 3},
	{35, 44, 4},
	{45, 54, 5},
	{55, 64, 6},
	{65, 74, 7},
	{75, 84, 8},
	{85, 92, 9},
	{93, 100, 10},
}

// ImportanceDistance buckets a priority index into the fixed 1-10 scale.
// Fractional values between breakpoints bucket with the band below them.
func ImportanceDistance(priority float64) int {
	if priority < 0 {
		return 1
	}
	for _, bin := range importanceBins {
		if priority < bin.high+1 {
			return bin.distance
		}
	}
	return 10
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
