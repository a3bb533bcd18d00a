package data

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
	"github.com/rs/zerolog/log"
)

// MemoryCache implements DataCache using in-memory storage
type MemoryCache struct {
	cache map[string][]types.OHLCV
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string][]types.OHLCV),
	}
}

// Get retrieves data from cache if available
func (c *MemoryCache) Get(key string) ([]types.OHLCV, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	data, exists := c.cache[key]
	if exists {
		// Return a copy to prevent external modifications
		result := make([]types.OHLCV, len(data))
		copy(result, data)
		return result, true
	}

	return nil, false
}

// Set stores data in cache
func (c *MemoryCache) Set(key string, data []types.OHLCV) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]types.OHLCV, len(data))
	copy(cached, data)
	c.cache[key] = cached
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string][]types.OHLCV)
}

// Size returns the number of cached entries
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// fileStamp identifies one version of a file on disk
type fileStamp struct {
	modTime int64
	size    int64
}

func statFile(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{modTime: info.ModTime().UnixNano(), size: info.Size()}
}

// CachedProvider wraps another DataProvider with caching functionality.
// An entry is reused only while the file's modification time and size are
// unchanged, so a rewritten file is read again.
type CachedProvider struct {
	provider DataProvider
	cache    DataCache

	mu     sync.Mutex
	stamps map[string]fileStamp
}

// NewCachedProvider creates a new cached data provider
func NewCachedProvider(provider DataProvider) *CachedProvider {
	return NewCachedProviderWithCache(provider, NewMemoryCache())
}

// NewCachedProviderWithCache creates a new cached data provider with custom cache
func NewCachedProviderWithCache(provider DataProvider, cache DataCache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
		stamps:   make(map[string]fileStamp),
	}
}

// GetName returns the name of the underlying provider with cache indication
func (p *CachedProvider) GetName() string {
	return "Cached " + p.provider.GetName()
}

// LoadData loads data with caching. The file is read again whenever its
// modification time or size changed since the cached load.
func (p *CachedProvider) LoadData(source string) ([]types.OHLCV, error) {
	stamp := statFile(source)

	p.mu.Lock()
	known, seen := p.stamps[source]
	p.mu.Unlock()

	if seen && known == stamp {
		if cachedData, exists := p.cache.Get(source); exists {
			return cachedData, nil
		}
	}

	data, err := p.provider.LoadData(source)
	if err != nil {
		log.Error().Str("file", filepath.Base(source)).Err(err).Msg("failed to load data")
		return nil, err
	}

	p.cache.Set(source, data)
	p.mu.Lock()
	p.stamps[source] = stamp
	p.mu.Unlock()

	log.Debug().Str("file", filepath.Base(source)).Int("records", len(data)).Msg("loaded and cached data")
	return data, nil
}

// ValidateData validates data using the underlying provider
func (p *CachedProvider) ValidateData(data []types.OHLCV) error {
	return p.provider.ValidateData(data)
}

// ClearCache clears all cached data
func (p *CachedProvider) ClearCache() {
	p.cache.Clear()
	p.mu.Lock()
	p.stamps = make(map[string]fileStamp)
	p.mu.Unlock()
}

// GetCacheSize returns the number of cached entries
func (p *CachedProvider) GetCacheSize() int {
	return p.cache.Size()
}
