package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkoval/horizon/internal/model"
)

func TestRotationState_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "rotation_state.json")

	want := model.RotationState{LastOffset: 130, LastDate: "2026-08-23"}
	if err := SaveRotationState(path, want); err != nil {
		t.Fatalf("SaveRotationState failed: %v", err)
	}

	got, err := LoadRotationState(path)
	if err != nil {
		t.Fatalf("LoadRotationState failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestLoadRotationState_MissingIsZero(t *testing.T) {
	got, err := LoadRotationState(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Expected missing state to be zero state, got %v", err)
	}
	if got.LastOffset != 0 || got.LastDate != "" {
		t.Errorf("Expected zero state, got %+v", got)
	}
}

func TestLoadRotationState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotation_state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadRotationState(path)
	if !errors.Is(err, ErrCorruptState) {
		t.Errorf("Expected ErrCorruptState, got %v", err)
	}
}
