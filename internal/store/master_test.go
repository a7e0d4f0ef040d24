package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkoval/horizon/internal/model"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func sampleRecord(id string) model.MasterRecord {
	return model.MasterRecord{
		ID:        id,
		ProjectID: "proj-1",
		Title:     "Grid-scale iron-air batteries announced",
		Type:      model.TypeSignal,
		STEEP:     "Technological",
		Dimension: "Energy",
		Scope:     "signals",
		Impact:    floatPtr(7),
		Sentiment: "Neutral",
		Source:    "https://example.org/a",
		Tags:      []string{"batteries", "storage"},
		Text:      "Utilities trial multi-day storage chemistry.",
		Magnitude: floatPtr(8.8),
		Distance:  intPtr(9),
		ColorHex:  model.DefaultSignalColor,
		CreatedAt: "2026-08-23T00:00:00Z",
		UpdatedAt: "2026-08-23T00:00:00Z",
	}
}

func TestMerge_DropsDuplicateIDs(t *testing.T) {
	existing := []model.MasterRecord{sampleRecord("a"), sampleRecord("b")}
	incoming := []model.MasterRecord{sampleRecord("b"), sampleRecord("c"), sampleRecord("c")}

	merged, appended := Merge(existing, incoming)

	if appended != 1 {
		t.Errorf("Expected 1 appended record, got %d", appended)
	}
	if len(merged) != 3 {
		t.Errorf("Expected 3 merged records, got %d", len(merged))
	}
}

func TestMerge_Idempotent(t *testing.T) {
	existing := []model.MasterRecord{sampleRecord("a")}
	incoming := []model.MasterRecord{sampleRecord("b"), sampleRecord("c")}

	once, n1 := Merge(existing, incoming)
	twice, n2 := Merge(once, incoming)

	if n1 != 2 {
		t.Errorf("Expected 2 appended on first merge, got %d", n1)
	}
	if n2 != 0 {
		t.Errorf("Expected 0 appended on repeat merge, got %d", n2)
	}
	if len(twice) != len(once) {
		t.Errorf("Expected repeat merge to change nothing: %d vs %d records", len(once), len(twice))
	}
}

func TestMerge_SkipsEmptyIDs(t *testing.T) {
	merged, appended := Merge(nil, []model.MasterRecord{{ID: ""}, sampleRecord("x")})
	if appended != 1 || len(merged) != 1 {
		t.Errorf("Expected blank-ID record dropped, got %d appended, %d merged", appended, len(merged))
	}
}

func TestMasterStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals_master.csv")
	s := NewMasterStore(path)

	records := []model.MasterRecord{sampleRecord("a"), sampleRecord("b")}
	// A force row with nullable numerics unset.
	force := sampleRecord("f")
	force.Type = model.TypeTrend
	force.Scope = "trends"
	force.Magnitude = nil
	force.Distance = intPtr(5)
	force.Feasibility = nil
	records = append(records, force)

	if err := s.Save(records); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(loaded))
	}

	got := loaded[0]
	want := records[0]
	if got.ID != want.ID || got.Title != want.Title || got.Type != want.Type {
		t.Errorf("Round trip mismatch: got %+v", got)
	}
	if got.Magnitude == nil || *got.Magnitude != 8.8 {
		t.Errorf("Expected magnitude 8.8, got %v", got.Magnitude)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "batteries" {
		t.Errorf("Expected tags round trip, got %v", got.Tags)
	}

	if loaded[2].Magnitude != nil {
		t.Errorf("Expected nil magnitude for force row, got %v", *loaded[2].Magnitude)
	}
	if loaded[2].Distance == nil || *loaded[2].Distance != 5 {
		t.Errorf("Expected distance 5 for force row, got %v", loaded[2].Distance)
	}
}

func TestMasterStore_MissingFileIsEmpty(t *testing.T) {
	s := NewMasterStore(filepath.Join(t.TempDir(), "absent.csv"))

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Expected missing file to load as empty store, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestMasterStore_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("id,title\nx,y\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewMasterStore(path).Load(); err == nil {
		t.Error("Expected error for store with wrong column set")
	}
}

func TestMasterStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewMasterStore(filepath.Join(dir, "m.csv"))

	if err := s.Save([]model.MasterRecord{sampleRecord("a")}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "m.csv" {
		t.Errorf("Expected only the store file after save, found %d entries", len(entries))
	}
}
