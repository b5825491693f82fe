package dimensions

import (
	"fmt"

	"github.com/srinathmkce/imagetoken/pkg/config"
)

// OpenCache returns the cache described by cfg, or nil when caching is
// disabled.
func OpenCache(cfg config.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Backend {
	case "memory":
		return NewMemoryCache(), nil
	case "sqlite", "":
		cache, err := NewSQLiteCache(SQLiteCacheConfig{
			Path:        cfg.SQLite.Path,
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, err
		}
		return cache, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
