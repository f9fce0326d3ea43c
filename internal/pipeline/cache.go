package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/finkpi/finkpi/internal/store"
)

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	Result
	FromCache bool
}

// LoadWithCache is the memoized load path: the parsed dataset is keyed by
// source file path, mtime, and size. If the store's tracked source matches
// the file's current stat, records come straight from SQLite; otherwise the
// CSV is re-cleaned and re-derived and the store is fully replaced.
func LoadWithCache(inputPath string, db *store.Store) (*CachedResult, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", inputPath, err)
	}

	tracked, ok, err := db.Source(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading source tracker: %w", err)
	}

	if ok && tracked.MtimeNs == info.ModTime().UnixNano() && tracked.SizeBytes == info.Size() {
		records, err := db.LoadFinancials()
		if err != nil {
			return nil, fmt.Errorf("loading cached records: %w", err)
		}
		return &CachedResult{
			Result: Result{
				Records:   records,
				Summaries: Summarize(records),
				Stats:     CleanStats{Input: len(records), Kept: len(records)},
			},
			FromCache: true,
		}, nil
	}

	res, err := Run(inputPath)
	if err != nil {
		return nil, err
	}

	if err := db.ReplaceFinancials(res.Records, inputPath, info.ModTime().UnixNano(), info.Size()); err != nil {
		return nil, fmt.Errorf("caching records: %w", err)
	}
	if err := db.ReplaceSummaries(res.Summaries); err != nil {
		return nil, fmt.Errorf("caching summaries: %w", err)
	}

	return &CachedResult{Result: *res}, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "finkpi")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "finkpi")
}

// CachePath returns the default path of the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "financials.db")
}
