package rotation

import (
	"fmt"
	"testing"

	"github.com/pkoval/horizon/internal/model"
)

func sourceList(n int) []model.Source {
	sources := make([]model.Source, n)
	for i := range sources {
		sources[i] = model.Source{
			Name: fmt.Sprintf("source-%03d", i),
			URL:  fmt.Sprintf("https://example.org/feed/%d", i),
			Tier: model.TierC,
		}
	}
	return sources
}

func TestNextBatch_FullCoverageAcrossCycle(t *testing.T) {
	s := NewScheduler(50)
	sources := sourceList(500)
	state := model.RotationState{}

	seen := make(map[string]int)
	for day := 0; day < 10; day++ {
		date := fmt.Sprintf("2026-08-%02d", day+1)
		var batch []model.Source
		batch, state = s.NextBatch(sources, state, date)

		if len(batch) != 50 {
			t.Fatalf("Day %d: expected batch of 50, got %d", day, len(batch))
		}
		for _, src := range batch {
			seen[src.Name]++
		}
	}

	if len(seen) != 500 {
		t.Fatalf("Expected all 500 sources selected over 10 days, got %d", len(seen))
	}
	for name, count := range seen {
		if count != 1 {
			t.Errorf("Source %s selected %d times, expected exactly once", name, count)
		}
	}
}

func TestNextBatch_Wraparound(t *testing.T) {
	s := NewScheduler(50)
	sources := sourceList(500)
	state := model.RotationState{LastOffset: 480, LastDate: "2026-08-01"}

	batch, newState := s.NextBatch(sources, state, "2026-08-02")

	if len(batch) != 50 {
		t.Fatalf("Expected batch of 50, got %d", len(batch))
	}
	if batch[0].Name != "source-480" {
		t.Errorf("Expected batch to start at source-480, got %s", batch[0].Name)
	}
	if batch[19].Name != "source-499" {
		t.Errorf("Expected tail to end at source-499, got %s", batch[19].Name)
	}
	if batch[20].Name != "source-000" {
		t.Errorf("Expected wrap to source-000, got %s", batch[20].Name)
	}
	if batch[49].Name != "source-029" {
		t.Errorf("Expected wrapped head to end at source-029, got %s", batch[49].Name)
	}
	if newState.LastOffset != 30 {
		t.Errorf("Expected new offset 30, got %d", newState.LastOffset)
	}
}

func TestNextBatch_SameDateDoesNotAdvance(t *testing.T) {
	s := NewScheduler(50)
	sources := sourceList(500)

	first, state := s.NextBatch(sources, model.RotationState{}, "2026-08-10")
	again, replayState := s.NextBatch(sources, state, "2026-08-10")

	if replayState != state {
		t.Errorf("Expected state unchanged on same-date replay: %+v vs %+v", state, replayState)
	}
	if len(again) != len(first) {
		t.Fatalf("Expected identical batch on replay, sizes %d vs %d", len(first), len(again))
	}
	for i := range first {
		if first[i].Name != again[i].Name {
			t.Errorf("Batch position %d differs on replay: %s vs %s", i, first[i].Name, again[i].Name)
		}
	}
}

func TestNextBatch_BatchLargerThanList(t *testing.T) {
	s := NewScheduler(50)
	sources := sourceList(20)

	batch, state := s.NextBatch(sources, model.RotationState{}, "2026-08-10")

	if len(batch) != 20 {
		t.Fatalf("Expected batch capped at list length 20, got %d", len(batch))
	}
	if state.LastOffset != 0 {
		t.Errorf("Expected offset back at 0 after consuming whole list, got %d", state.LastOffset)
	}
}

func TestNextBatch_EmptyList(t *testing.T) {
	s := NewScheduler(50)

	batch, state := s.NextBatch(nil, model.RotationState{LastOffset: 3, LastDate: "x"}, "2026-08-10")
	if batch != nil {
		t.Errorf("Expected nil batch for empty source list, got %v", batch)
	}
	if state.LastOffset != 3 || state.LastDate != "x" {
		t.Errorf("Expected state untouched for empty source list, got %+v", state)
	}
}

func TestFullSweep_ReturnsAllSources(t *testing.T) {
	s := NewScheduler(50)
	sources := sourceList(137)

	batch := s.FullSweep(sources)
	if len(batch) != 137 {
		t.Errorf("Expected full sweep of 137 sources, got %d", len(batch))
	}
}

func TestDescribe_CyclePosition(t *testing.T) {
	s := NewScheduler(50)
	sources := sourceList(500)

	info := s.Describe(sources, model.RotationState{LastOffset: 100}, "2026-08-10")

	if info.DayInCycle != 3 {
		t.Errorf("Expected day 3 of cycle, got %d", info.DayInCycle)
	}
	if info.TotalDaysInCycle != 10 {
		t.Errorf("Expected 10-day cycle, got %d", info.TotalDaysInCycle)
	}
	if info.Offset != 100 {
		t.Errorf("Expected offset 100, got %d", info.Offset)
	}
}
