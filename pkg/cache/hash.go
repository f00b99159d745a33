package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		data = fmt.Appendf(nil, "%#v", parts)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// entry wraps cached data with its expiry for backends that do not expire
// keys natively.
type entry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func encodeEntry(data []byte, ttl time.Duration, now time.Time) ([]byte, error) {
	e := entry{Data: data}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	return json.Marshal(e)
}

// decodeEntry returns the payload and whether it is still live. Corrupt
// entries are reported as not live.
func decodeEntry(raw []byte, now time.Time) ([]byte, bool) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false
	}
	if !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt) {
		return nil, false
	}
	return e.Data, true
}
