package classify

import (
	"context"
)

// Classifier proposes taxonomy placement for a candidate. Implementations
// must be safe for concurrent use.
type Classifier interface {
	// Name identifies the classifier, including the model where one is
	// involved. Used to key the verdict cache.
	Name() string

	// Classify fills in or corrects the STEEP category, dimension and tags
	// for one candidate.
	Classify(ctx context.Context, req Request) (Verdict, error)
}

// Request carries the candidate fields a classifier may read.
type Request struct {
	ContentHash string
	Title       string
	Summary     string
	STEEP       string
	Dimension   string
	Tags        []string
}

// Verdict is a classifier's proposal. Empty fields keep the candidate's
// existing values.
type Verdict struct {
	STEEP     string   `json:"steep,omitempty"`
	Dimension string   `json:"dimension,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// maxTags bounds the tag list on any verdict.
const maxTags = 8

func capTags(tags []string) []string {
	if len(tags) > maxTags {
		return tags[:maxTags]
	}
	return tags
}
