package store

import (
	"fmt"
	"sort"

	"github.com/pkoval/horizon/internal/model"
)

// LoadCorpus reads the catalogued records used as the deduplication
// baseline, plus the taxonomy derived from them: the dominant project ID,
// the set of known dimensions and the tag vocabulary.
func LoadCorpus(path string) ([]model.CorpusRecord, model.Taxonomy, error) {
	masters, err := NewMasterStore(path).Load()
	if err != nil {
		return nil, model.Taxonomy{}, fmt.Errorf("load corpus: %w", err)
	}

	records := make([]model.CorpusRecord, 0, len(masters))
	projectCounts := make(map[string]int)
	dimensions := make(map[string]bool)
	tags := make(map[string]bool)

	for _, m := range masters {
		records = append(records, model.CorpusRecord{
			ID:        m.ID,
			ProjectID: m.ProjectID,
			Title:     m.Title,
			Text:      m.Text,
			Type:      string(m.Type),
			Scope:     m.Scope,
		})
		if m.ProjectID != "" {
			projectCounts[m.ProjectID]++
		}
		if m.Dimension != "" {
			dimensions[m.Dimension] = true
		}
		for _, tag := range m.Tags {
			tags[tag] = true
		}
	}

	taxonomy := model.Taxonomy{
		ProjectID:  dominantProject(projectCounts),
		Dimensions: sortedKeys(dimensions),
		Tags:       sortedKeys(tags),
	}
	return records, taxonomy, nil
}

// dominantProject picks the most frequent project ID; ties resolve to the
// lexicographically smallest so corpus loads are deterministic.
func dominantProject(counts map[string]int) string {
	best := ""
	bestCount := 0
	for id, count := range counts {
		if count > bestCount || (count == bestCount && (best == "" || id < best)) {
			best = id
			bestCount = count
		}
	}
	return best
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
