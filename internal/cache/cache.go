package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store defines the interface for verdict caching
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// VerdictKey generates a cache key for a classifier verdict. Keyed on the
// candidate content hash and the classifier identity, so switching model
// or backend never replays stale verdicts.
func VerdictKey(classifier, contentHash string) string {
	hash := sha256.Sum256([]byte(classifier + "\n" + contentHash))
	return "horizon:verdict:v1:" + hex.EncodeToString(hash[:])
}
