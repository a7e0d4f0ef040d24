package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkoval/horizon/internal/model"
)

// ErrCorruptState marks rotation state that exists but cannot be parsed.
// Fatal: a batch cannot be picked safely from unknown state.
var ErrCorruptState = errors.New("rotation state unreadable")

// LoadRotationState reads the persisted rotation cursor. A missing file
// is the zero state (fresh install), not an error.
func LoadRotationState(path string) (model.RotationState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.RotationState{}, nil
		}
		return model.RotationState{}, fmt.Errorf("read rotation state: %w", err)
	}

	var state model.RotationState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.RotationState{}, fmt.Errorf("%w: %s: %v", ErrCorruptState, path, err)
	}
	return state, nil
}

// SaveRotationState persists the cursor atomically (temp file + rename).
func SaveRotationState(path string, state model.RotationState) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rotation state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write rotation state: %w", writeErr)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace rotation state: %w", err)
	}
	return nil
}
