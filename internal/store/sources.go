package store

import (
	"fmt"
	"os"

	"github.com/pkoval/horizon/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadSources reads the ordered source list from a YAML file. Order is
// significant: rotation walks the list as stored.
func LoadSources(path string) ([]model.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var raw []model.Source
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}

	sources := make([]model.Source, 0, len(raw))
	for _, src := range raw {
		if src.Name == "" && src.URL == "" {
			continue
		}
		src.Tier = model.ParseTier(string(src.Tier))
		sources = append(sources, src)
	}
	return sources, nil
}

// TierFor resolves the tier of a named source, defaulting to C when the
// source is not on the list.
func TierFor(sources []model.Source, name string) model.SourceTier {
	for _, src := range sources {
		if src.Name == name {
			return src.Tier
		}
	}
	return model.TierC
}
