package decide

import (
	"fmt"
	"sort"

	"github.com/pkoval/horizon/internal/model"
)

// Decider applies the fixed accept/review/reject gates and calibrates
// importance distance across a batch.
type Decider struct {
	thresholds model.ThresholdsConfig
}

// NewDecider creates a decider with the given gate thresholds.
func NewDecider(thresholds model.ThresholdsConfig) *Decider {
	return &Decider{thresholds: thresholds}
}

// Decide classifies one scored candidate. The gates are evaluated in fixed
// priority order so exactly one decision is ever possible: duplicates and
// low-priority candidates reject first, then the accept gate, then the
// review band catches everything left.
func (d *Decider) Decide(bundle model.ScoreBundle, duplicate bool) (model.Decision, string) {
	if duplicate {
		return model.DecisionReject, "duplicate of existing catalogue entry"
	}
	if bundle.PriorityIndex < d.thresholds.ReviewMinPriority {
		return model.DecisionReject, fmt.Sprintf("priority index %.1f below review floor %.0f",
			bundle.PriorityIndex, d.thresholds.ReviewMinPriority)
	}
	if bundle.PriorityIndex >= d.thresholds.AcceptPriority && bundle.Credibility >= d.thresholds.MinCredibilityAccept {
		return model.DecisionAccept, fmt.Sprintf("priority index %.1f with credibility %.1f clears accept gates",
			bundle.PriorityIndex, bundle.Credibility)
	}
	return model.DecisionReview, fmt.Sprintf("borderline: priority index %.1f, credibility %.1f",
		bundle.PriorityIndex, bundle.Credibility)
}

// Calibrate re-ranks a batch's eligible (non-reject) candidates by priority
// index and overrides importance distance by percentile: the top 7% land in
// 8-10, the next 28% in 6-7, the remainder at 5 or below. Batches with
// fewer than the minimum eligible candidates keep their bucketed values.
// Idempotent: values already inside their target band are unchanged.
func (d *Decider) Calibrate(batch []*model.ScoredCandidate) {
	var eligible []*model.ScoredCandidate
	for _, sc := range batch {
		if sc.Scores.Decision != model.DecisionReject {
			eligible = append(eligible, sc)
		}
	}
	if len(eligible) < d.thresholds.MinEligibleCalibrate {
		return
	}

	// Stable sort keeps input order for equal priorities, so repeated
	// calibration of the same batch ranks identically.
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Scores.PriorityIndex > eligible[j].Scores.PriorityIndex
	})

	n := len(eligible)
	top := maxInt(1, n*7/100)
	mid := maxInt(1, n*28/100)

	for i, sc := range eligible {
		switch {
		case i < top:
			sc.Scores.ImportanceDistance = clampInt(sc.Scores.ImportanceDistance, 8, 10)
		case i < top+mid:
			sc.Scores.ImportanceDistance = clampInt(sc.Scores.ImportanceDistance, 6, 7)
		default:
			sc.Scores.ImportanceDistance = minInt(sc.Scores.ImportanceDistance, 5)
		}
	}
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
