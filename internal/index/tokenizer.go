package index

import "strings"

// Signature is the normalized token multiset derived from one text field.
// Immutable once built; rebuilt whenever the source text changes.
type Signature struct {
	Set    map[string]bool
	Counts map[string]int
}

// Empty reports whether the signature contains no tokens.
func (s Signature) Empty() bool {
	return len(s.Set) == 0
}

// minTokenLength drops noise words; matches the corpus signatures, so the
// same text always produces the same Jaccard/Cosine values.
const minTokenLength = 3

// Tokenize splits text on non-alphanumeric boundaries, lowercases, and
// discards tokens shorter than three characters. Pure and deterministic;
// empty text yields an empty signature.
func Tokenize(text string) Signature {
	sig := Signature{
		Set:    make(map[string]bool),
		Counts: make(map[string]int),
	}

	var b strings.Builder
	flush := func() {
		if b.Len() >= minTokenLength {
			tok := b.String()
			sig.Set[tok] = true
			sig.Counts[tok]++
		}
		b.Reset()
	}

	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			flush()
		}
	}
	flush()

	return sig
}
