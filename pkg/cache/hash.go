package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key builds a cache key from an operation name and a parameter
// fingerprint. The parts are JSON-marshaled in order and hashed, so two
// requests share an entry only when every parameter that affects the
// result is identical.
//
// The fingerprint must include the page limit for collector operations:
// a stargazer set fetched with page_limit=50 is a different result than
// one fetched with page_limit=400. API tokens are deliberately never part
// of a fingerprint; which credential served a request does not change its
// result.
func Key(op string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", op, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func marshal(v any) ([]byte, error)   { return json.Marshal(v) }
func unmarshal(d []byte, v any) error { return json.Unmarshal(d, v) }
