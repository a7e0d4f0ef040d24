package decide

import (
	"fmt"
	"testing"

	"github.com/pkoval/horizon/internal/model"
)

func testDecider() *Decider {
	return NewDecider(model.ThresholdsConfig{
		DuplicateSimilarity:  0.92,
		AcceptPriority:       60,
		ReviewMinPriority:    45,
		MinCredibilityAccept: 45,
		MinCredibilityReview: 25,
		MinEligibleCalibrate: 10,
	})
}

func TestDecide_Partition(t *testing.T) {
	d := testDecider()

	// Every combination of priority, credibility and duplicate flag must
	// produce exactly one decision.
	for pi := 0.0; pi <= 100; pi += 5 {
		for cred := 0.0; cred <= 100; cred += 5 {
			for _, dup := range []bool{false, true} {
				bundle := model.ScoreBundle{PriorityIndex: pi, Credibility: cred}
				decision, rationale := d.Decide(bundle, dup)

				switch decision {
				case model.DecisionAccept, model.DecisionReview, model.DecisionReject:
				default:
					t.Fatalf("Unexpected decision %q for pi=%.0f cred=%.0f dup=%v", decision, pi, cred, dup)
				}
				if rationale == "" {
					t.Fatal("Expected a rationale for every decision")
				}
			}
		}
	}
}

func TestDecide_DuplicateAlwaysRejects(t *testing.T) {
	d := testDecider()

	bundle := model.ScoreBundle{PriorityIndex: 99, Credibility: 99}
	decision, _ := d.Decide(bundle, true)
	if decision != model.DecisionReject {
		t.Errorf("Expected reject for duplicate regardless of scores, got %s", decision)
	}
}

func TestDecide_Gates(t *testing.T) {
	d := testDecider()

	tests := []struct {
		pi, cred float64
		want     model.Decision
	}{
		{44.9, 90, model.DecisionReject},  // below review floor
		{45, 90, model.DecisionReview},    // borderline band
		{59.9, 90, model.DecisionReview},  // borderline band
		{60, 45, model.DecisionAccept},    // both accept gates met
		{60, 44.9, model.DecisionReview},  // credibility short of accept
		{88, 30, model.DecisionReview},   // high priority, weak credibility
		{100, 100, model.DecisionAccept}, // clear accept
		{0, 0, model.DecisionReject},     // clear reject
	}

	for _, tt := range tests {
		bundle := model.ScoreBundle{PriorityIndex: tt.pi, Credibility: tt.cred}
		got, _ := d.Decide(bundle, false)
		if got != tt.want {
			t.Errorf("Decide(pi=%.1f cred=%.1f) = %s, want %s", tt.pi, tt.cred, got, tt.want)
		}
	}
}

func calibrationBatch(n int) []*model.ScoredCandidate {
	batch := make([]*model.ScoredCandidate, n)
	for i := 0; i < n; i++ {
		pi := float64(95 - i)
		batch[i] = &model.ScoredCandidate{
			Candidate: model.Candidate{CandidateID: fmt.Sprintf("cand-%02d", i)},
			Scores: model.ScoreBundle{
				PriorityIndex:      pi,
				ImportanceDistance: 5,
				Decision:           model.DecisionAccept,
			},
		}
	}
	return batch
}

func TestCalibrate_PercentileBands(t *testing.T) {
	d := testDecider()
	batch := calibrationBatch(100)

	d.Calibrate(batch)

	// Top 7 of 100 must sit in 8-10, next 28 in 6-7, rest at <= 5.
	for i, sc := range batch {
		dist := sc.Scores.ImportanceDistance
		switch {
		case i < 7:
			if dist < 8 || dist > 10 {
				t.Errorf("Rank %d: expected distance in [8,10], got %d", i, dist)
			}
		case i < 35:
			if dist < 6 || dist > 7 {
				t.Errorf("Rank %d: expected distance in [6,7], got %d", i, dist)
			}
		default:
			if dist > 5 {
				t.Errorf("Rank %d: expected distance <= 5, got %d", i, dist)
			}
		}
	}
}

func TestCalibrate_SmallBatchSkipped(t *testing.T) {
	d := testDecider()
	batch := calibrationBatch(9)

	d.Calibrate(batch)

	for _, sc := range batch {
		if sc.Scores.ImportanceDistance != 5 {
			t.Errorf("Expected pre-calibration distance preserved, got %d", sc.Scores.ImportanceDistance)
		}
	}
}

func TestCalibrate_RejectsExcluded(t *testing.T) {
	d := testDecider()
	batch := calibrationBatch(20)
	batch[0].Scores.Decision = model.DecisionReject
	batch[0].Scores.ImportanceDistance = 1

	d.Calibrate(batch)

	if batch[0].Scores.ImportanceDistance != 1 {
		t.Errorf("Expected rejected candidate untouched by calibration, got %d", batch[0].Scores.ImportanceDistance)
	}
}

func TestCalibrate_Idempotent(t *testing.T) {
	d := testDecider()
	batch := calibrationBatch(50)

	d.Calibrate(batch)
	snapshot := make([]int, len(batch))
	for i, sc := range batch {
		snapshot[i] = sc.Scores.ImportanceDistance
	}

	d.Calibrate(batch)
	for i, sc := range batch {
		if sc.Scores.ImportanceDistance != snapshot[i] {
			t.Errorf("Candidate %d: calibration not idempotent: %d -> %d",
				i, snapshot[i], sc.Scores.ImportanceDistance)
		}
	}
}
