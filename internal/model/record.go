package model

import (
	"encoding/json"
	"strings"
)

// RecordType distinguishes signals from the synthesized force types.
type RecordType string

const (
	TypeSignal     RecordType = "S"  // single observation of change
	TypeMegatrend  RecordType = "MT" // long-horizon force
	TypeTrend      RecordType = "T"  // established force
	TypeWeakSignal RecordType = "WS" // emerging force
	TypeWildcard   RecordType = "WC" // low-probability, high-impact force
)

// SourceTier is the coarse credibility class assigned to each source.
type SourceTier string

const (
	TierA SourceTier = "A"
	TierB SourceTier = "B"
	TierC SourceTier = "C"
	TierD SourceTier = "D"
)

// ParseTier normalizes a tier string, defaulting to C for anything unknown.
func ParseTier(s string) SourceTier {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return TierA
	case "B":
		return TierB
	case "D":
		return TierD
	default:
		return TierC
	}
}

// STEEPCategories is the accepted STEEP taxonomy vocabulary.
var STEEPCategories = []string{"Social", "Technological", "Economic", "Environmental", "Political"}

// ValidSTEEP reports whether the value is one of the accepted STEEP categories.
func ValidSTEEP(value string) bool {
	for _, c := range STEEPCategories {
		if value == c {
			return true
		}
	}
	return false
}

// MasterColumns is the fixed column order of the master CSV schema.
// Rows written with any other column set fail schema validation.
var MasterColumns = []string{
	"id", "project_id", "title", "type", "steep", "dimension", "scope",
	"impact", "ttm", "sentiment", "source", "tags", "text",
	"magnitude", "distance", "color_hex", "feasibility", "urgency",
	"created_at", "updated_at",
}

// CorpusRecord is an existing catalogued entry used as the deduplication
// baseline. Loaded in bulk at index-build time, read-only during a run.
type CorpusRecord struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Type      string `json:"type"`
	Scope     string `json:"scope"`
}

// MasterRecord is a persisted, immutable-once-written row of the master
// store. No two records in the same store share an ID.
type MasterRecord struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Type        RecordType `json:"type"`
	STEEP       string     `json:"steep"`
	Dimension   string     `json:"dimension"`
	Scope       string     `json:"scope"`
	Impact      *float64   `json:"impact"`
	TTM         string     `json:"ttm"`
	Sentiment   string     `json:"sentiment"`
	Source      string     `json:"source"`
	Tags        []string   `json:"tags"`
	Text        string     `json:"text"`
	Magnitude   *float64   `json:"magnitude"`
	Distance    *int       `json:"distance"`
	ColorHex    string     `json:"color_hex"`
	Feasibility *float64   `json:"feasibility"`
	Urgency     *float64   `json:"urgency"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

// DefaultSignalColor is the color assigned to signal rows.
const DefaultSignalColor = "#94A3B8"

// EncodeTags serializes a tag list the way the master schema stores it
// (a JSON array in a single CSV cell). Empty list encodes as "".
func EncodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeTags parses a serialized tag cell. Accepts a JSON array or a
// comma-separated list; blanks and duplicates are dropped.
func DecodeTags(value string) []string {
	text := strings.TrimSpace(value)
	if text == "" {
		return nil
	}
	var parts []string
	var parsed []string
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		parts = parsed
	} else {
		parts = strings.Split(text, ",")
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// Source describes one entry of the rotating source list.
type Source struct {
	Name string     `yaml:"name" json:"source_name"`
	URL  string     `yaml:"url" json:"source_link"`
	Tier SourceTier `yaml:"tier" json:"tier"`
}

// RotationState is the single process-wide rotation cursor persisted
// between runs. LastOffset is the start of the next batch.
type RotationState struct {
	LastOffset int    `json:"last_offset"`
	LastDate   string `json:"last_date"`
}
