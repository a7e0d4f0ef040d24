package index

import "testing"

func TestTokenize_NormalizesAndFilters(t *testing.T) {
	sig := Tokenize("The QUICK brown fox, v2 -- jumped over 42 dogs!")

	expected := []string{"the", "quick", "brown", "fox", "jumped", "over", "dogs"}
	for _, tok := range expected {
		if !sig.Set[tok] {
			t.Errorf("Expected token %q in signature", tok)
		}
	}

	// Tokens shorter than 3 characters are dropped.
	for _, tok := range []string{"v2", "42"} {
		if sig.Set[tok] {
			t.Errorf("Expected short token %q to be dropped", tok)
		}
	}
}

func TestTokenize_CountsRepeats(t *testing.T) {
	sig := Tokenize("data data data pipeline")

	if sig.Counts["data"] != 3 {
		t.Errorf("Expected count 3 for 'data', got %d", sig.Counts["data"])
	}
	if sig.Counts["pipeline"] != 1 {
		t.Errorf("Expected count 1 for 'pipeline', got %d", sig.Counts["pipeline"])
	}
	if len(sig.Set) != 2 {
		t.Errorf("Expected 2 distinct tokens, got %d", len(sig.Set))
	}
}

func TestTokenize_EmptyText(t *testing.T) {
	sig := Tokenize("")
	if !sig.Empty() {
		t.Error("Expected empty signature for empty text")
	}

	sig = Tokenize("a b c 12 !?")
	if !sig.Empty() {
		t.Error("Expected empty signature when no token reaches minimum length")
	}
}

func TestTokenize_Deterministic(t *testing.T) {
	text := "Quantum sensing startups raised record funding in 2025"
	first := Tokenize(text)
	for i := 0; i < 10; i++ {
		again := Tokenize(text)
		if len(again.Set) != len(first.Set) {
			t.Fatal("Tokenize produced a different token set on repeat call")
		}
		for tok, count := range first.Counts {
			if again.Counts[tok] != count {
				t.Fatalf("Count mismatch for %q: %d vs %d", tok, count, again.Counts[tok])
			}
		}
	}
}
