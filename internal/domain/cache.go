package domain

import "time"

// CacheEntry maps a cache key (program identity + version fingerprint) to a
// stored AppSpec. At most one live entry exists per key; concurrent stores
// are last-writer-wins.
type CacheEntry struct {
	Key      string    `json:"key"`
	Spec     AppSpec   `json:"spec"`
	StoredAt time.Time `json:"stored_at"`
	Fresh    bool      `json:"fresh"`
}

// Expired reports whether the entry outlived the given TTL. A zero TTL
// means entries never expire (explicit invalidation only).
func (e CacheEntry) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(e.StoredAt) > ttl
}
