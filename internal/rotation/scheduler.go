package rotation

import (
	"github.com/pkoval/horizon/internal/model"
)

// Scheduler selects the day's source batch by walking the ordered source
// list circularly. Pure: state goes in, new state comes out; persistence
// belongs to the store layer.
type Scheduler struct {
	batchSize int
}

// NewScheduler creates a scheduler with the given batch size.
func NewScheduler(batchSize int) *Scheduler {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Scheduler{batchSize: batchSize}
}

// BatchSize returns the configured batch size.
func (s *Scheduler) BatchSize() int {
	return s.batchSize
}

// NextBatch selects batchSize sources starting at state.LastOffset,
// wrapping circularly without skipping or duplicating a source within one
// wrap. The returned state points at the start of the following batch.
// Calling NextBatch again for a date already recorded in state returns the
// same batch and leaves the state unchanged.
func (s *Scheduler) NextBatch(sources []model.Source, state model.RotationState, date string) ([]model.Source, model.RotationState) {
	total := len(sources)
	if total == 0 {
		return nil, state
	}

	if state.LastDate == date {
		// Already ran today: replay the batch that produced this state.
		return s.window(sources, s.replayStart(state, total)), state
	}

	start := state.LastOffset % total
	batch := s.window(sources, start)

	newState := model.RotationState{
		LastOffset: (start + len(batch)) % total,
		LastDate:   date,
	}
	return batch, newState
}

// FullSweep returns the entire source list unmodified; rotation state is
// not consulted or advanced.
func (s *Scheduler) FullSweep(sources []model.Source) []model.Source {
	return sources
}

// replayStart recovers the offset of the batch that produced state.
// The recorded offset points past that batch, so step back one effective
// batch (capped at the list length).
func (s *Scheduler) replayStart(state model.RotationState, total int) int {
	size := s.batchSize
	if size > total {
		size = total
	}
	return ((state.LastOffset-size)%total + total) % total
}

// window slices batchSize sources starting at offset, concatenating the
// tail and the wrapped head when the slice crosses the end of the list.
// A batch never repeats a source, so it is capped at the list length.
func (s *Scheduler) window(sources []model.Source, offset int) []model.Source {
	total := len(sources)
	size := s.batchSize
	if size > total {
		size = total
	}

	end := offset + size
	if end <= total {
		return append([]model.Source(nil), sources[offset:end]...)
	}

	batch := append([]model.Source(nil), sources[offset:]...)
	return append(batch, sources[:end-total]...)
}

// Info describes where a date's batch sits within the rotation cycle.
type Info struct {
	Offset           int `json:"current_offset"`
	BatchSize        int `json:"batch_size"`
	DayInCycle       int `json:"day_in_cycle"`
	TotalDaysInCycle int `json:"total_days_in_cycle"`
	TotalSources     int `json:"total_sources"`
}

// Describe reports the cycle position for the batch NextBatch would select.
func (s *Scheduler) Describe(sources []model.Source, state model.RotationState, date string) Info {
	total := len(sources)
	if total == 0 {
		return Info{BatchSize: s.batchSize}
	}

	start := state.LastOffset % total
	if state.LastDate == date {
		start = s.replayStart(state, total)
	}

	return Info{
		Offset:           start,
		BatchSize:        s.batchSize,
		DayInCycle:       start/s.batchSize + 1,
		TotalDaysInCycle: (total + s.batchSize - 1) / s.batchSize,
		TotalSources:     total,
	}
}
