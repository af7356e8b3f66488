package cache

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

// LoadFile pre-populates the cache from a persisted schema file: a JSON
// mapping from program key to AppSpec. Malformed entries are counted,
// logged, and treated as misses rather than propagated. Only an unreadable
// file or invalid top-level document is an error.
func LoadFile(c ports.SchemaCache, path string, log ports.Logger) (loaded, skipped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read schema file %s: %w", path, err)
	}
	return LoadBytes(c, data, log)
}

// LoadBytes bulk-loads schemas from raw JSON, used for both persisted files
// and the embedded defaults.
func LoadBytes(c ports.SchemaCache, data []byte, log ports.Logger) (loaded, skipped int, err error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, 0, fmt.Errorf("decode schema file: %w", err)
	}

	for key, blob := range raw {
		var spec domain.AppSpec
		if err := json.Unmarshal(blob, &spec); err != nil {
			skipped++
			warn(log, key, err)
			continue
		}
		if err := spec.Validate(); err != nil {
			skipped++
			warn(log, key, err)
			continue
		}
		if key == "" {
			key = spec.Program
		}
		c.Put(key, spec)
		loaded++
	}
	return loaded, skipped, nil
}

func warn(log ports.Logger, key string, cause error) {
	if log == nil {
		return
	}
	log.Warn("skipping corrupted schema entry", map[string]interface{}{
		"key":   key,
		"error": fmt.Sprintf("%v: %v", domain.ErrCacheCorruption, cause),
	})
}
