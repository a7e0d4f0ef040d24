package synthesis

import (
	"strings"
	"testing"

	"github.com/pkoval/horizon/internal/model"
)

func signal(id, title, text, steep, dimension string, tags ...string) model.MasterRecord {
	return model.MasterRecord{
		ID:        id,
		ProjectID: "proj-1",
		Title:     title,
		Type:      model.TypeSignal,
		STEEP:     steep,
		Dimension: dimension,
		Scope:     "signals",
		Tags:      tags,
		Text:      text,
	}
}

func batteryCluster() []model.MasterRecord {
	return []model.MasterRecord{
		signal("s1", "Solid state battery production scales up",
			"Factories announce solid state battery production milestones", "Technological", "Energy", "batteries"),
		signal("s2", "Solid state battery production reaches new milestones",
			"More factories announce solid state battery production gains", "Technological", "Energy", "storage"),
		signal("s3", "Battery production expands with solid state factories",
			"Solid state battery production milestones multiply", "Economic", "Energy", "batteries", "manufacturing"),
	}
}

func TestSynthesize_ClustersSimilarSignals(t *testing.T) {
	s := NewSynthesizer(0.35)

	unrelated := signal("s4", "Coral reef restoration funding announced",
		"Marine biologists receive new grants for reef work", "Environmental", "Oceans", "reefs")

	forces := s.Synthesize(append(batteryCluster(), unrelated), "proj-1", "2026-08-23T00:00:00Z")

	if len(forces) != 1 {
		t.Fatalf("Expected 1 force, got %d", len(forces))
	}

	force := forces[0]
	if force.Type != model.TypeWeakSignal {
		t.Errorf("Expected 3-member cluster to be type WS, got %s", force.Type)
	}
	if force.Scope != "weak_signals" {
		t.Errorf("Expected scope weak_signals, got %s", force.Scope)
	}
	if force.ColorHex != "#F59E0B" {
		t.Errorf("Expected WS color, got %s", force.ColorHex)
	}
	if force.STEEP != "Technological" {
		t.Errorf("Expected majority STEEP Technological, got %s", force.STEEP)
	}
	if force.Dimension != "Energy" {
		t.Errorf("Expected dimension Energy, got %s", force.Dimension)
	}
	if force.Title != "Solid state battery production scales up" {
		t.Errorf("Expected seed title, got %q", force.Title)
	}
	if force.Impact == nil || *force.Impact != 7.0 {
		t.Errorf("Expected impact 7.0, got %v", force.Impact)
	}
	if force.Distance == nil || *force.Distance != 5 {
		t.Errorf("Expected distance 5, got %v", force.Distance)
	}
	if force.Source != "s1, s2, s3" {
		t.Errorf("Expected source to list member IDs, got %q", force.Source)
	}
}

func TestSynthesize_ProvenanceTag(t *testing.T) {
	s := NewSynthesizer(0.35)

	forces := s.Synthesize(batteryCluster(), "proj-1", "2026-08-23T00:00:00Z")
	if len(forces) != 1 {
		t.Fatalf("Expected 1 force, got %d", len(forces))
	}

	last := forces[0].Tags[len(forces[0].Tags)-1]
	if last != "synthesized_from:s1,s2,s3" {
		t.Errorf("Expected provenance tag with member IDs, got %q", last)
	}

	// Member tags union precedes the provenance tag.
	joined := strings.Join(forces[0].Tags, " ")
	for _, tag := range []string{"batteries", "storage", "manufacturing"} {
		if !strings.Contains(joined, tag) {
			t.Errorf("Expected member tag %q in %v", tag, forces[0].Tags)
		}
	}
}

func TestSynthesize_StableForceIDs(t *testing.T) {
	s := NewSynthesizer(0.35)

	first := s.Synthesize(batteryCluster(), "proj-1", "2026-08-23T00:00:00Z")
	second := s.Synthesize(batteryCluster(), "proj-1", "2026-08-24T00:00:00Z")

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Expected 1 force per run, got %d and %d", len(first), len(second))
	}
	if first[0].ID != second[0].ID {
		t.Errorf("Expected identical clusters to produce identical force IDs, got %s and %s", first[0].ID, second[0].ID)
	}
}

func TestSynthesize_SingletonsProduceNothing(t *testing.T) {
	s := NewSynthesizer(0.35)

	forces := s.Synthesize([]model.MasterRecord{
		signal("s1", "Fusion reactor pilot announced", "A compact fusion pilot plant breaks ground", "Technological", "Energy"),
		signal("s2", "Wheat prices spike after drought", "Commodity markets react to harvest shortfalls", "Economic", "Food"),
	}, "proj-1", "2026-08-23T00:00:00Z")

	if len(forces) != 0 {
		t.Errorf("Expected no forces from unrelated singletons, got %d", len(forces))
	}
}

func TestSynthesize_TrendFromLargerCluster(t *testing.T) {
	s := NewSynthesizer(0.35)

	var rows []model.MasterRecord
	for _, suffix := range []string{"one", "two", "three", "four", "five"} {
		rows = append(rows, signal(
			"id-"+suffix,
			"Urban air taxi corridors approved in region "+suffix,
			"Regulators approved urban air taxi corridors for commercial flights",
			"Technological", "Mobility",
		))
	}

	forces := s.Synthesize(rows, "proj-1", "2026-08-23T00:00:00Z")
	if len(forces) != 1 {
		t.Fatalf("Expected 1 force, got %d", len(forces))
	}
	if forces[0].Type != model.TypeTrend {
		t.Errorf("Expected 5-member cluster to be type T, got %s", forces[0].Type)
	}
	if forces[0].Scope != "trends" {
		t.Errorf("Expected scope trends, got %s", forces[0].Scope)
	}
}

func TestSynthesize_SkipsRowsWithoutIDOrTitle(t *testing.T) {
	s := NewSynthesizer(0.35)

	rows := batteryCluster()
	rows[1].ID = ""

	forces := s.Synthesize(rows, "proj-1", "2026-08-23T00:00:00Z")
	if len(forces) != 1 {
		t.Fatalf("Expected 1 force, got %d", len(forces))
	}
	if strings.Contains(forces[0].Source, "s2") {
		t.Errorf("Expected s2 to be excluded, got source %q", forces[0].Source)
	}
}
