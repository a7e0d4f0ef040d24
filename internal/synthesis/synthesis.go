package synthesis

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkoval/horizon/internal/index"
	"github.com/pkoval/horizon/internal/model"
)

// forceTypeColors and forceTypeScopes map a synthesized force type to its
// presentation fields on the forces master.
var forceTypeColors = map[model.RecordType]string{
	model.TypeMegatrend:  "#3B82F6",
	model.TypeTrend:      "#10B981",
	model.TypeWeakSignal: "#F59E0B",
	model.TypeWildcard:   "#EF4444",
}

var forceTypeScopes = map[model.RecordType]string{
	model.TypeMegatrend:  "megatrends",
	model.TypeTrend:      "trends",
	model.TypeWeakSignal: "weak_signals",
	model.TypeWildcard:   "wildcards",
}

// forceImpact and forceDistance are the fixed placement defaults for
// synthesized rows.
const (
	forceImpact   = 7.0
	forceDistance = 5
	maxForceTags  = 8
)

// Synthesizer clusters a run's accepted signals into force rows. Greedy
// and fully deterministic: identical input rows in identical order always
// yield the same forces, including their IDs.
type Synthesizer struct {
	minLink float64
}

// NewSynthesizer creates a synthesizer with the given link threshold.
func NewSynthesizer(minLink float64) *Synthesizer {
	if minLink <= 0 {
		minLink = 0.35
	}
	return &Synthesizer{minLink: minLink}
}

// Synthesize clusters the accepted signal rows and builds one force row
// per cluster of two or more members. Singleton signals produce nothing.
func (s *Synthesizer) Synthesize(accepted []model.MasterRecord, projectID, now string) []model.MasterRecord {
	members := make([]model.MasterRecord, 0, len(accepted))
	texts := make([]string, 0, len(accepted))
	for _, row := range accepted {
		if row.ID == "" || row.Title == "" {
			continue
		}
		text := row.Text
		if text == "" {
			text = row.Title
		}
		members = append(members, row)
		texts = append(texts, row.Title+" "+text)
	}

	var forces []model.MasterRecord
	assigned := make([]bool, len(members))

	for i := range members {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		cluster := []int{i}

		for j := i + 1; j < len(members); j++ {
			if assigned[j] {
				continue
			}
			if index.Similarity(texts[i], texts[j]) >= s.minLink {
				assigned[j] = true
				cluster = append(cluster, j)
			}
		}

		if len(cluster) < 2 {
			continue
		}
		forces = append(forces, s.buildForce(members, cluster, projectID, now))
	}

	return forces
}

// forceType grades a cluster by member count.
func forceType(size int) model.RecordType {
	switch {
	case size >= 10:
		return model.TypeMegatrend
	case size >= 5:
		return model.TypeTrend
	default:
		return model.TypeWeakSignal
	}
}

// buildForce assembles one force row from a cluster. The seed (earliest
// accepted member) anchors the title; STEEP and dimension are majority
// votes with ties resolved toward earlier members.
func (s *Synthesizer) buildForce(members []model.MasterRecord, cluster []int, projectID, now string) model.MasterRecord {
	ids := make([]string, len(cluster))
	titles := make([]string, len(cluster))
	for n, idx := range cluster {
		ids[n] = members[idx].ID
		titles[n] = members[idx].Title
	}

	seed := members[cluster[0]]
	kind := forceType(len(cluster))

	impact := forceImpact
	distance := forceDistance

	return model.MasterRecord{
		ID:        forceID(ids),
		ProjectID: projectID,
		Title:     seed.Title,
		Type:      kind,
		STEEP:     majorityVote(members, cluster, func(r model.MasterRecord) string { return r.STEEP }),
		Dimension: majorityVote(members, cluster, func(r model.MasterRecord) string { return r.Dimension }),
		Scope:     forceTypeScopes[kind],
		Impact:    &impact,
		Sentiment: "Neutral",
		Source:    strings.Join(ids[:minInt(3, len(ids))], ", "),
		Tags:      forceTags(members, cluster, ids),
		Text:      fmt.Sprintf("Synthesized from %d signals: %s", len(cluster), strings.Join(titles, "; ")),
		Distance:  &distance,
		ColorHex:  forceTypeColors[kind],
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// forceID derives a stable ID from the member IDs, so re-synthesizing the
// same cluster merges as a duplicate instead of a new force.
func forceID(memberIDs []string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("horizon-force:"+strings.Join(memberIDs, ","))).String()
}

// forceTags unions member tags in member order, capped, plus the
// provenance tag carrying the member IDs.
func forceTags(members []model.MasterRecord, cluster []int, ids []string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, idx := range cluster {
		for _, tag := range members[idx].Tags {
			if tag == "" || seen[tag] {
				continue
			}
			if len(tags) >= maxForceTags {
				break
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return append(tags, "synthesized_from:"+strings.Join(ids, ","))
}

func majorityVote(members []model.MasterRecord, cluster []int, field func(model.MasterRecord) string) string {
	counts := make(map[string]int)
	best := ""
	for _, idx := range cluster {
		value := field(members[idx])
		if value == "" {
			continue
		}
		counts[value]++
		if best == "" || counts[value] > counts[best] {
			best = value
		}
	}
	return best
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
