package alarm

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/hammamikhairi/powernap/internal/logger"
)

// soundCache keeps rendered PCM in memory, keyed by sha256 of a
// description of the sound (beep pattern or file path and mtime), so a
// repeated alarm is not synthesized or decoded again.
type soundCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	log     *logger.Logger
	hits    int64
	misses  int64
}

func newSoundCache(log *logger.Logger) *soundCache {
	return &soundCache{
		entries: make(map[string][]byte),
		log:     log,
	}
}

// get returns the cached PCM for desc, or renders it with build and
// stores the result. Errors from build are not cached.
func (c *soundCache) get(desc string, build func() ([]byte, error)) ([]byte, error) {
	key := hashKey(desc)

	c.mu.RLock()
	pcm, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		c.log.Debug("sound cache hit: %s (%d bytes)", desc, len(pcm))
		return pcm, nil
	}

	pcm, err := build()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.misses++
	c.entries[key] = pcm
	c.mu.Unlock()
	c.log.Debug("sound cache store: %s (%d bytes)", desc, len(pcm))
	return pcm, nil
}

// stats returns hit and miss counts.
func (c *soundCache) stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func hashKey(desc string) string {
	h := sha256.Sum256([]byte(desc))
	return hex.EncodeToString(h[:])
}
