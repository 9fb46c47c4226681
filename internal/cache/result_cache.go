package cache

import "time"

// CachedResult is the final patched code for one file
type CachedResult struct {
	Path      string
	Code      string
	InputHash string // hash of the code the result was derived from
	CachedAt  time.Time
}

// ResultCache maps file names to their patched code.
//
// Thread Safety: ResultCache is NOT thread-safe. Callers serialize access the
// same way they serialize patching.
type ResultCache struct {
	entries map[string]*CachedResult
	hasher  *FileHasher
}

// NewResultCache creates an empty result cache
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]*CachedResult),
		hasher:  NewFileHasher(),
	}
}

// Get retrieves the cached result for path
func (rc *ResultCache) Get(path string) (*CachedResult, bool) {
	entry, exists := rc.entries[path]
	return entry, exists
}

// Set stores the patched code for path along with the hash of its input
func (rc *ResultCache) Set(path, input, code string) {
	rc.entries[path] = &CachedResult{
		Path:      path,
		Code:      code,
		InputHash: rc.hasher.HashString(input),
		CachedAt:  time.Now(),
	}
}

// Fresh reports whether path is cached and was derived from exactly input
func (rc *ResultCache) Fresh(path, input string) bool {
	entry, exists := rc.entries[path]
	return exists && entry.InputHash == rc.hasher.HashString(input)
}

// Invalidate removes an entry from the cache
func (rc *ResultCache) Invalidate(path string) {
	delete(rc.entries, path)
}

// InvalidateAll clears the entire cache
func (rc *ResultCache) InvalidateAll() {
	rc.entries = make(map[string]*CachedResult)
}

// Size returns the number of cached entries
func (rc *ResultCache) Size() int {
	return len(rc.entries)
}
