package classify

import (
	"fmt"
	"strings"

	"github.com/pkoval/horizon/internal/model"
	"github.com/pkoval/horizon/internal/worker"
)

// New creates a classifier based on configuration. An empty provider
// disables classification entirely (nil classifier, no error).
func New(cfg model.ClassifierConfig, taxonomy model.Taxonomy) (Classifier, error) {
	switch strings.ToLower(cfg.Provider) {
	case "rules":
		return NewRuleBased(taxonomy), nil

	case "openai":
		rps := cfg.RequestsPerSecond
		if rps <= 0 {
			rps = 2
		}
		limiter := worker.NewLimiter(rps, cfg.Burst)
		return NewOpenAIClassifier(cfg, taxonomy, limiter)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown classifier provider: %s (supported: rules, openai)", cfg.Provider)
	}
}
