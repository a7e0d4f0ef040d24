package classify

import (
	"context"
	"strings"

	"github.com/pkoval/horizon/internal/index"
	"github.com/pkoval/horizon/internal/model"
)

// steepKeywords maps token stems to STEEP categories. Checked in a fixed
// category order so overlapping matches resolve deterministically.
var steepKeywords = map[string][]string{
	"Social":        {"social", "demograph", "migration", "education", "culture", "health", "aging", "urban", "community"},
	"Technological": {"technolog", "software", "quantum", "robot", "automation", "semiconductor", "algorithm", "digital", "satellite", "biotech"},
	"Economic":      {"econom", "market", "inflation", "trade", "gdp", "invest", "labor", "supply", "tariff", "finance"},
	"Environmental": {"climate", "carbon", "emission", "biodiversity", "energy", "water", "pollution", "ecosystem", "weather"},
	"Political":     {"politic", "regulation", "policy", "election", "legislation", "sanction", "geopolit", "treaty", "government"},
}

// RuleBased classifies candidates with keyword rules against the corpus
// taxonomy. Fully deterministic and offline; the default classifier.
type RuleBased struct {
	taxonomy model.Taxonomy
}

// NewRuleBased creates a rule-based classifier bound to a taxonomy.
func NewRuleBased(taxonomy model.Taxonomy) *RuleBased {
	return &RuleBased{taxonomy: taxonomy}
}

// Name identifies the classifier for cache keying.
func (r *RuleBased) Name() string {
	return "rules"
}

// Classify derives STEEP from keyword matches, dimension from taxonomy
// name matches, and tags from the taxonomy vocabulary found in the text.
// Never returns an error.
func (r *RuleBased) Classify(_ context.Context, req Request) (Verdict, error) {
	sig := index.Tokenize(req.Title + " " + req.Summary)

	verdict := Verdict{
		STEEP:     matchSTEEP(sig),
		Dimension: r.matchDimension(sig),
		Tags:      capTags(r.matchTags(sig, req.Tags)),
	}
	return verdict, nil
}

// matchSTEEP picks the category with the most keyword hits. Ties resolve
// in the canonical category order; zero hits leave STEEP unset.
func matchSTEEP(sig index.Signature) string {
	best := ""
	bestHits := 0
	for _, category := range model.STEEPCategories {
		hits := 0
		for _, stem := range steepKeywords[category] {
			for token := range sig.Set {
				if strings.HasPrefix(token, stem) {
					hits += sig.Counts[token]
				}
			}
		}
		if hits > bestHits {
			best = category
			bestHits = hits
		}
	}
	return best
}

// matchDimension returns the first taxonomy dimension whose name appears
// in the text tokens.
func (r *RuleBased) matchDimension(sig index.Signature) string {
	for _, dim := range r.taxonomy.Dimensions {
		dimSig := index.Tokenize(dim)
		if dimSig.Empty() {
			continue
		}
		all := true
		for token := range dimSig.Set {
			if !sig.Set[token] {
				all = false
				break
			}
		}
		if all {
			return dim
		}
	}
	return ""
}

// matchTags normalizes and dedupes the proposed tags, then adds taxonomy
// vocabulary tags found in the text.
func (r *RuleBased) matchTags(sig index.Signature, proposed []string) []string {
	seen := make(map[string]bool)
	var tags []string

	for _, tag := range proposed {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		tags = append(tags, normalized)
	}

	for _, tag := range r.taxonomy.Tags {
		normalized := strings.ToLower(tag)
		if seen[normalized] {
			continue
		}
		if sig.Set[normalized] {
			seen[normalized] = true
			tags = append(tags, normalized)
		}
	}

	return tags
}
