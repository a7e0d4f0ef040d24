package model

import "time"

// Config is the complete runtime configuration.
// Populated from defaults, then config file, env vars and flags.
type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Thresholds  ThresholdsConfig  `yaml:"thresholds"`
	Weights     WeightsConfig     `yaml:"weights"`
	Rotation    RotationConfig    `yaml:"rotation"`
	Classifier  ClassifierConfig  `yaml:"classifier"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	Output      OutputConfig      `yaml:"output"`
}

// PathsConfig locates the persisted stores and run outputs.
type PathsConfig struct {
	DataDir      string `yaml:"data_dir"`      // state, locks, run logs
	OutputDir    string `yaml:"output_dir"`    // per-date export directories
	CorpusFile   string `yaml:"corpus_file"`   // master-schema CSV corpus
	SourcesFile  string `yaml:"sources_file"`  // YAML source list
	MasterFile   string `yaml:"master_file"`   // signals master CSV
	ForcesFile   string `yaml:"forces_file"`   // forces master CSV
	RotationFile string `yaml:"rotation_file"` // rotation_state.json
}

// ThresholdsConfig holds the fixed decision gates.
type ThresholdsConfig struct {
	DuplicateSimilarity   float64 `yaml:"duplicate_similarity"`    // >= is a duplicate
	AcceptPriority        float64 `yaml:"accept_priority"`         // accept floor
	ReviewMinPriority     float64 `yaml:"review_min_priority"`     // reject below
	MinCredibilityAccept  float64 `yaml:"min_credibility_accept"`  // accept floor
	MinCredibilityReview  float64 `yaml:"min_credibility_review"`  // review band floor
	MinEligibleCalibrate  int     `yaml:"min_eligible_calibrate"`  // batch size gate
	SynthesisLinkMinScore float64 `yaml:"synthesis_link_min_score"`
}

// WeightsConfig holds the priority index weighting.
type WeightsConfig struct {
	Relevance   float64 `yaml:"relevance"`
	Novelty     float64 `yaml:"novelty"`
	Credibility float64 `yaml:"credibility"`
}

// RotationConfig controls circular batch selection over the source list.
type RotationConfig struct {
	BatchSize int `yaml:"batch_size"`
}

// ClassifierConfig selects and tunes the classification capability.
type ClassifierConfig struct {
	Provider          string  `yaml:"provider"` // "", "rules", "openai"
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"-"`
	BaseURL           string  `yaml:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ConcurrencyConfig sizes the scoring worker pool.
type ConcurrencyConfig struct {
	ScoringWorkers int `yaml:"scoring_workers"`
}

// CacheConfig controls the classifier verdict cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// OutputConfig controls run output rendering.
type OutputConfig struct {
	Verbose          bool `yaml:"verbose"`
	AllowEmptyCorpus bool `yaml:"allow_empty_corpus"` // first-ever run only
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:      "data",
			OutputDir:    "out",
			CorpusFile:   "inputs/corpus.csv",
			SourcesFile:  "inputs/sources.yaml",
			MasterFile:   "out/signals_master.csv",
			ForcesFile:   "out/forces_master.csv",
			RotationFile: "data/rotation_state.json",
		},
		Thresholds: ThresholdsConfig{
			DuplicateSimilarity:   0.92,
			AcceptPriority:        60,
			ReviewMinPriority:     45,
			MinCredibilityAccept:  45,
			MinCredibilityReview:  25,
			MinEligibleCalibrate:  10,
			SynthesisLinkMinScore: 0.35,
		},
		Weights: WeightsConfig{
			Relevance:   0.45,
			Novelty:     0.35,
			Credibility: 0.20,
		},
		Rotation: RotationConfig{
			BatchSize: 50,
		},
		Classifier: ClassifierConfig{
			Provider:          "rules",
			Model:             "gpt-4o-mini",
			TimeoutSeconds:    30,
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Concurrency: ConcurrencyConfig{
			ScoringWorkers: 4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "data/classify-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose:          false,
			AllowEmptyCorpus: false,
		},
	}
}
