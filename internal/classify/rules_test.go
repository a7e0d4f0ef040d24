package classify

import (
	"context"
	"testing"

	"github.com/pkoval/horizon/internal/model"
)

func testTaxonomy() model.Taxonomy {
	return model.Taxonomy{
		ProjectID:  "proj-1",
		Dimensions: []string{"Energy", "Mobility", "Public Health"},
		Tags:       []string{"batteries", "hydrogen", "vaccines", "grid"},
	}
}

func TestRuleBased_STEEP(t *testing.T) {
	r := NewRuleBased(testTaxonomy())

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"technological", "Quantum computing breakthrough in error correction", "Technological"},
		{"environmental", "Carbon emission targets missed as climate talks stall", "Environmental"},
		{"economic", "Inflation pressures reshape labor market expectations", "Economic"},
		{"political", "New sanctions regulation passes after election", "Political"},
		{"social", "Migration trends reshape urban demographics", "Social"},
		{"no match", "Untitled item without signal words", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := r.Classify(context.Background(), Request{Title: tt.title})
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if verdict.STEEP != tt.want {
				t.Errorf("Expected STEEP %q, got %q", tt.want, verdict.STEEP)
			}
		})
	}
}

func TestRuleBased_Deterministic(t *testing.T) {
	r := NewRuleBased(testTaxonomy())
	req := Request{
		Title:   "Grid batteries reshape energy markets",
		Summary: "Storage economics shift as battery costs fall.",
		Tags:    []string{"storage"},
	}

	first, err := r.Classify(context.Background(), req)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Classify(context.Background(), req)
		if err != nil {
			t.Fatalf("Classify failed: %v", err)
		}
		if again.STEEP != first.STEEP || again.Dimension != first.Dimension {
			t.Fatalf("Expected identical verdicts, got %+v then %+v", first, again)
		}
		if len(again.Tags) != len(first.Tags) {
			t.Fatalf("Expected identical tags, got %v then %v", first.Tags, again.Tags)
		}
	}
}

func TestRuleBased_Dimension(t *testing.T) {
	r := NewRuleBased(testTaxonomy())

	verdict, err := r.Classify(context.Background(), Request{
		Title: "Energy storage deployment accelerates",
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if verdict.Dimension != "Energy" {
		t.Errorf("Expected dimension Energy, got %q", verdict.Dimension)
	}

	// Multi-word dimensions need every token present.
	verdict, err = r.Classify(context.Background(), Request{
		Title: "Public spending review announced",
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if verdict.Dimension != "" {
		t.Errorf("Expected no dimension for partial match, got %q", verdict.Dimension)
	}
}

func TestRuleBased_Tags(t *testing.T) {
	r := NewRuleBased(testTaxonomy())

	verdict, err := r.Classify(context.Background(), Request{
		Title:   "Hydrogen pilots expand across the grid",
		Summary: "Electrolyzer capacity doubles.",
		Tags:    []string{"Pilots", "pilots", " "},
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	want := map[string]bool{"pilots": true, "hydrogen": true, "grid": true}
	if len(verdict.Tags) != len(want) {
		t.Fatalf("Expected tags %v, got %v", want, verdict.Tags)
	}
	for _, tag := range verdict.Tags {
		if !want[tag] {
			t.Errorf("Unexpected tag %q", tag)
		}
	}
}

func TestRuleBased_TagCap(t *testing.T) {
	taxonomy := model.Taxonomy{
		Tags: []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota", "kappa"},
	}
	r := NewRuleBased(taxonomy)

	verdict, err := r.Classify(context.Background(), Request{
		Title: "alpha beta gamma delta epsilon zeta eta theta iota kappa",
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(verdict.Tags) > 8 {
		t.Errorf("Expected at most 8 tags, got %d", len(verdict.Tags))
	}
}
