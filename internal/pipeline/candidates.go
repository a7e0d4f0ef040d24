package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/pkoval/horizon/internal/classify"
	"github.com/pkoval/horizon/internal/model"
)

// maxCandidateLine bounds one JSONL line; extractor snippets stay well
// under this.
const maxCandidateLine = 1 << 20

// LoadCandidates reads the extractor's JSONL output, one candidate per
// line. Blank lines are skipped; a malformed line is fatal, since silent
// drops would skew the batch statistics.
func LoadCandidates(path string) ([]model.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candidates file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var candidates []model.Candidate
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxCandidateLine)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var cand model.Candidate
		if err := json.Unmarshal([]byte(text), &cand); err != nil {
			return nil, fmt.Errorf("candidates file %s line %d: %w", path, line, err)
		}
		candidates = append(candidates, cand)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read candidates file: %w", err)
	}

	return candidates, nil
}

// validTypes are the record types a candidate may suggest for itself.
var validTypes = map[string]bool{"S": true, "WS": true, "T": true, "WC": true}

// normalizeCandidate repairs a candidate in place so scoring never sees a
// defective one: missing IDs are minted, invalid classification falls
// back to the classifier and then to safe defaults, tags are deduped and
// capped. Input defects never abort the batch.
func normalizeCandidate(cand *model.Candidate, taxonomy model.Taxonomy, verdict classify.Verdict) {
	if cand.CandidateID == "" {
		cand.CandidateID = uuid.New().String()
	}
	if cand.Title == "" {
		cand.Title = cand.ClaimSummary
	}

	if !model.ValidSTEEP(cand.ProposedSTEEP) {
		if model.ValidSTEEP(verdict.STEEP) {
			cand.ProposedSTEEP = verdict.STEEP
		} else {
			cand.ProposedSTEEP = "Technological"
		}
	}

	if cand.ProposedDimension == "" || !taxonomy.HasDimension(cand.ProposedDimension) {
		if verdict.Dimension != "" && taxonomy.HasDimension(verdict.Dimension) {
			cand.ProposedDimension = verdict.Dimension
		} else {
			cand.ProposedDimension = "Other"
		}
	}

	tags := cand.ProposedTags
	if len(tags) == 0 {
		tags = verdict.Tags
	}
	cand.ProposedTags = normalizeTags(tags)

	if !validTypes[cand.TypeSuggested] {
		cand.TypeSuggested = "S"
	}
}

// normalizeTags trims, dedupes and caps a tag list at eight entries.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range tags {
		t := strings.TrimSpace(tag)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == 8 {
			break
		}
	}
	return out
}

// needsClassifier reports whether normalization would fall back to
// defaults without a classifier verdict.
func needsClassifier(cand *model.Candidate, taxonomy model.Taxonomy) bool {
	if !model.ValidSTEEP(cand.ProposedSTEEP) {
		return true
	}
	if cand.ProposedDimension == "" || !taxonomy.HasDimension(cand.ProposedDimension) {
		return true
	}
	return len(cand.ProposedTags) == 0
}
