package classify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkoval/horizon/internal/cache"
)

// Cached wraps a classifier with a verdict store keyed on content hash.
// A hit skips the inner classifier entirely, so reruns of the same batch
// make no API calls.
type Cached struct {
	inner Classifier
	store cache.Store
}

// NewCached wraps a classifier with a verdict store.
func NewCached(inner Classifier, store cache.Store) *Cached {
	return &Cached{inner: inner, store: store}
}

// Name identifies the wrapped classifier.
func (c *Cached) Name() string {
	return c.inner.Name()
}

// Classify answers from the store when possible, otherwise delegates and
// records the verdict. Candidates without a content hash bypass the store.
func (c *Cached) Classify(ctx context.Context, req Request) (Verdict, error) {
	if req.ContentHash == "" {
		return c.inner.Classify(ctx, req)
	}

	key := cache.VerdictKey(c.inner.Name(), req.ContentHash)
	if data, found := c.store.Get(key); found {
		var verdict Verdict
		if err := json.Unmarshal(data, &verdict); err == nil {
			return verdict, nil
		}
		// Unreadable entries are replaced on the next write.
	}

	verdict, err := c.inner.Classify(ctx, req)
	if err != nil {
		return Verdict{}, err
	}

	data, err := json.Marshal(verdict)
	if err != nil {
		return Verdict{}, fmt.Errorf("marshal verdict: %w", err)
	}
	if err := c.store.Set(key, data, 0); err != nil {
		return Verdict{}, fmt.Errorf("store verdict: %w", err)
	}

	return verdict, nil
}
