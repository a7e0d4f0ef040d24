package pipeline

import (
	"fmt"

	"github.com/pkoval/horizon/internal/model"
	"github.com/pkoval/horizon/internal/store"
)

// PendingReview lists a run date's pending-review rows.
func (p *Pipeline) PendingReview(runDate string) ([]model.MasterRecord, error) {
	return LoadPendingReview(p.cfg.Paths.OutputDir, runDate)
}

// Promote merges selected pending-review rows into the signals master.
// With promoteAll set, every pending row is taken; otherwise only the
// listed IDs, and an unknown ID is an error rather than a silent skip.
func (p *Pipeline) Promote(runDate string, ids []string, promoteAll bool) (int, error) {
	lock, err := store.AcquireRunLock(p.cfg.Paths.DataDir)
	if err != nil {
		return 0, err
	}
	defer func() { _ = lock.Release() }()

	pending, err := LoadPendingReview(p.cfg.Paths.OutputDir, runDate)
	if err != nil {
		return 0, err
	}

	var selected []model.MasterRecord
	if promoteAll {
		selected = pending
	} else {
		byID := make(map[string]model.MasterRecord, len(pending))
		for _, rec := range pending {
			byID[rec.ID] = rec
		}
		for _, id := range ids {
			rec, ok := byID[id]
			if !ok {
				return 0, fmt.Errorf("id %s not found in pending review for %s", id, runDate)
			}
			selected = append(selected, rec)
		}
	}

	if len(selected) == 0 {
		return 0, nil
	}
	return p.appendToMaster(p.cfg.Paths.MasterFile, selected)
}
