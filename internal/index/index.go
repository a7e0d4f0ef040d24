package index

import (
	"errors"
	"math"
	"sort"

	"github.com/pkoval/horizon/internal/model"
)

// ErrEmptyCorpus signals that the corpus collaborator supplied no records.
// Scoring against an empty index is meaningless unless explicitly allowed
// (first-ever run with no prior corpus).
var ErrEmptyCorpus = errors.New("corpus contains no records")

// Strategy selects how Query finds candidates. Both strategies return the
// exact same top-k ranking; inverted only prunes records that share no
// token with the query (their combined score is always zero).
type Strategy string

const (
	StrategyScan     Strategy = "scan"     // compare against every record
	StrategyInverted Strategy = "inverted" // compare only records sharing >=1 token
)

// Index answers nearest-neighbor queries over a corpus of token signatures
// under the combined Jaccard+Cosine metric. Built once per run, read-only
// afterwards, safe for concurrent queries.
type Index struct {
	records  []model.CorpusRecord
	sigs     []Signature
	norms    []float64
	postings map[string][]int
	strategy Strategy
}

// New builds an index from the corpus records, precomputing each record's
// signature, vector norm and token postings. An empty corpus yields a
// valid, always-empty-result index.
func New(records []model.CorpusRecord, strategy Strategy) *Index {
	if strategy == "" {
		strategy = StrategyInverted
	}

	idx := &Index{
		records:  records,
		sigs:     make([]Signature, len(records)),
		norms:    make([]float64, len(records)),
		postings: make(map[string][]int),
		strategy: strategy,
	}

	for i, rec := range records {
		sig := Tokenize(rec.Title + " " + rec.Text)
		idx.sigs[i] = sig
		idx.norms[i] = norm(sig.Counts)
		for tok := range sig.Set {
			idx.postings[tok] = append(idx.postings[tok], i)
		}
	}

	return idx
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Query tokenizes text and returns the top-k records by combined score
// descending, ties broken by corpus insertion order.
func (idx *Index) Query(text string, k int) model.SimilarityResult {
	if k <= 0 {
		k = 5
	}

	q := Tokenize(text)
	qNorm := norm(q.Counts)

	var slots []int
	switch idx.strategy {
	case StrategyScan:
		slots = make([]int, len(idx.records))
		for i := range slots {
			slots[i] = i
		}
	default:
		slots = idx.candidateSlots(q)
	}

	type scored struct {
		slot  int
		score float64
	}
	ranked := make([]scored, 0, len(slots))
	for _, slot := range slots {
		ranked = append(ranked, scored{
			slot:  slot,
			score: combined(q, qNorm, idx.sigs[slot], idx.norms[slot]),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].slot < ranked[j].slot
	})

	// Pruned-out records all score exactly zero; pad with them in insertion
	// order so both strategies return identical top-k lists.
	if len(ranked) < k && len(ranked) < len(idx.records) {
		in := make([]bool, len(idx.records))
		for _, s := range ranked {
			in[s.slot] = true
		}
		for slot := 0; slot < len(idx.records) && len(ranked) < k; slot++ {
			if !in[slot] {
				ranked = append(ranked, scored{slot: slot, score: 0})
			}
		}
	}

	if len(ranked) > k {
		ranked = ranked[:k]
	}

	result := model.SimilarityResult{}
	for _, s := range ranked {
		rec := idx.records[s.slot]
		result.Neighbors = append(result.Neighbors, model.Neighbor{
			ID:         rec.ID,
			Title:      rec.Title,
			Type:       rec.Type,
			Scope:      rec.Scope,
			Similarity: round4(s.score),
		})
		if s.score > result.MaxSimilarity {
			result.MaxSimilarity = s.score
		}
	}

	return result
}

// candidateSlots collects the records sharing at least one token with the
// query, in insertion order.
func (idx *Index) candidateSlots(q Signature) []int {
	seen := make(map[int]bool)
	var slots []int
	for tok := range q.Set {
		for _, slot := range idx.postings[tok] {
			if !seen[slot] {
				seen[slot] = true
				slots = append(slots, slot)
			}
		}
	}
	sort.Ints(slots)
	return slots
}

// Similarity computes the combined score for two raw texts. Symmetric,
// bounded to [0,1], and 1.0 for identical non-empty texts.
func Similarity(a, b string) float64 {
	sa := Tokenize(a)
	sb := Tokenize(b)
	return combined(sa, norm(sa.Counts), sb, norm(sb.Counts))
}

// combined is (Jaccard + Cosine) / 2 over precomputed signatures.
func combined(a Signature, aNorm float64, b Signature, bNorm float64) float64 {
	return (jaccard(a.Set, b.Set) + cosine(a.Counts, aNorm, b.Counts, bNorm)) / 2
}

// jaccard is |intersection| / |union| of the token sets; 0.0 when either
// set is empty so totals stay well-formed.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	inter := 0
	for tok := range small {
		if large[tok] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// cosine is the dot product of raw term-frequency vectors over the product
// of their norms; 0.0 when either norm is zero.
func cosine(a map[string]int, aNorm float64, b map[string]int, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	dot := 0
	for tok, ca := range small {
		if cb, ok := large[tok]; ok {
			dot += ca * cb
		}
	}
	return float64(dot) / (aNorm * bNorm)
}

// norm is the Euclidean norm of a term-frequency vector.
func norm(counts map[string]int) float64 {
	sum := 0
	for _, c := range counts {
		sum += c * c
	}
	return math.Sqrt(float64(sum))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
