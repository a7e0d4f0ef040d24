package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkoval/horizon/internal/model"
)

// MasterStore is the append-only, ID-deduplicated persistent record set.
// The discipline is load at run start, merge in memory, write once at run
// end: no partially-appended state is ever observable on disk.
type MasterStore struct {
	path string
}

// NewMasterStore creates a store bound to a CSV file path.
func NewMasterStore(path string) *MasterStore {
	return &MasterStore{path: path}
}

// Path returns the backing file path.
func (s *MasterStore) Path() string {
	return s.path
}

// Load reads all persisted records. A missing file is an empty store, not
// an error; an unreadable or malformed file is fatal for the run.
func (s *MasterStore) Load() ([]model.MasterRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open master store: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read master store: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	if len(header) != len(model.MasterColumns) {
		return nil, fmt.Errorf("master store %s: expected %d columns, found %d",
			s.path, len(model.MasterColumns), len(header))
	}

	records := make([]model.MasterRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("master store %s row %d: %w", s.path, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Merge appends the incoming records that are not already present,
// matching on ID. Existing rows are never modified; a duplicate incoming
// ID is silently dropped, which makes Merge idempotent.
func Merge(existing, incoming []model.MasterRecord) ([]model.MasterRecord, int) {
	seen := make(map[string]bool, len(existing))
	for _, rec := range existing {
		seen[rec.ID] = true
	}

	merged := append([]model.MasterRecord(nil), existing...)
	appended := 0
	for _, rec := range incoming {
		if rec.ID == "" || seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		merged = append(merged, rec)
		appended++
	}
	return merged, appended
}

// Save writes the full record set atomically: the CSV is rendered to a
// temp file in the same directory and renamed over the target, so a crash
// mid-write leaves the previous store intact.
func (s *MasterStore) Save(records []model.MasterRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	writer := csv.NewWriter(tmp)
	writeErr := writer.Write(model.MasterColumns)
	for _, rec := range records {
		if writeErr != nil {
			break
		}
		writeErr = writer.Write(rowFromRecord(rec))
	}
	if writeErr == nil {
		writer.Flush()
		writeErr = writer.Error()
	}

	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write master store: %w", writeErr)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace master store: %w", err)
	}
	return nil
}

// RenderRow renders a record in the fixed master column order.
func RenderRow(rec model.MasterRecord) []string {
	return rowFromRecord(rec)
}

// ParseRow parses the leading master-schema cells of a row. Staging rows
// carry extra columns after the master set; those are ignored here.
func ParseRow(row []string) (model.MasterRecord, error) {
	if len(row) > len(model.MasterColumns) {
		row = row[:len(model.MasterColumns)]
	}
	return recordFromRow(row)
}

// rowFromRecord renders a record in the fixed master column order.
func rowFromRecord(rec model.MasterRecord) []string {
	return []string{
		rec.ID,
		rec.ProjectID,
		rec.Title,
		string(rec.Type),
		rec.STEEP,
		rec.Dimension,
		rec.Scope,
		formatFloat(rec.Impact),
		rec.TTM,
		rec.Sentiment,
		rec.Source,
		model.EncodeTags(rec.Tags),
		rec.Text,
		formatFloat(rec.Magnitude),
		formatInt(rec.Distance),
		rec.ColorHex,
		formatFloat(rec.Feasibility),
		formatFloat(rec.Urgency),
		rec.CreatedAt,
		rec.UpdatedAt,
	}
}

func recordFromRow(row []string) (model.MasterRecord, error) {
	if len(row) != len(model.MasterColumns) {
		return model.MasterRecord{}, fmt.Errorf("expected %d cells, found %d", len(model.MasterColumns), len(row))
	}

	impact, err := parseFloat(row[7])
	if err != nil {
		return model.MasterRecord{}, fmt.Errorf("impact: %w", err)
	}
	magnitude, err := parseFloat(row[13])
	if err != nil {
		return model.MasterRecord{}, fmt.Errorf("magnitude: %w", err)
	}
	distance, err := parseInt(row[14])
	if err != nil {
		return model.MasterRecord{}, fmt.Errorf("distance: %w", err)
	}
	feasibility, err := parseFloat(row[16])
	if err != nil {
		return model.MasterRecord{}, fmt.Errorf("feasibility: %w", err)
	}
	urgency, err := parseFloat(row[17])
	if err != nil {
		return model.MasterRecord{}, fmt.Errorf("urgency: %w", err)
	}

	return model.MasterRecord{
		ID:          row[0],
		ProjectID:   row[1],
		Title:       row[2],
		Type:        model.RecordType(row[3]),
		STEEP:       row[4],
		Dimension:   row[5],
		Scope:       row[6],
		Impact:      impact,
		TTM:         row[8],
		Sentiment:   row[9],
		Source:      row[10],
		Tags:        model.DecodeTags(row[11]),
		Text:        row[12],
		Magnitude:   magnitude,
		Distance:    distance,
		ColorHex:    row[15],
		Feasibility: feasibility,
		Urgency:     urgency,
		CreatedAt:   row[18],
		UpdatedAt:   row[19],
	}, nil
}

// Nullable numerics: empty cells round-trip as nil.

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func parseFloat(cell string) (*float64, error) {
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseInt(cell string) (*int, error) {
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(cell)
	if err != nil {
		// Legacy rows may store distance as a float.
		f, ferr := strconv.ParseFloat(cell, 64)
		if ferr != nil {
			return nil, err
		}
		i := int(f)
		return &i, nil
	}
	return &v, nil
}
