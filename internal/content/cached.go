package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/abhisek/pathmind/internal/cache"
	"github.com/abhisek/pathmind/internal/logger"
)

// DefaultCacheTTL is how long generated lessons are reused.
const DefaultCacheTTL = 24 * time.Hour

// CachingGenerator serves GenerateModuleContent from a cache keyed by
// (topic, module). Other calls pass straight through. Cache errors are
// logged and treated as misses.
type CachingGenerator struct {
	Generator
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCaching wraps inner with c. A zero ttl uses DefaultCacheTTL.
func NewCaching(inner Generator, c cache.Cache, ttl time.Duration, log *logger.Logger) *CachingGenerator {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachingGenerator{Generator: inner, cache: c, ttl: ttl, log: log}
}

// GenerateModuleContent returns a cached lesson when present.
func (g *CachingGenerator) GenerateModuleContent(ctx context.Context, topic, module string) (*ModuleContent, error) {
	key := moduleCacheKey(topic, module)

	raw, ok, err := g.cache.Get(ctx, key)
	switch {
	case err != nil:
		g.log.Warn("content cache read failed", "topic", topic, "module", module, "error", err)
	case ok:
		var mc ModuleContent
		if err := json.Unmarshal(raw, &mc); err == nil {
			return &mc, nil
		}
		g.log.Warn("content cache entry corrupt", "topic", topic, "module", module)
	}

	mc, err := g.Generator.GenerateModuleContent(ctx, topic, module)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(mc); err == nil {
		if err := g.cache.Set(ctx, key, raw, g.ttl); err != nil {
			g.log.Warn("content cache write failed", "topic", topic, "module", module, "error", err)
		}
	}
	return mc, nil
}

func moduleCacheKey(topic, module string) string {
	sum := sha256.Sum256([]byte(topic + "\x00" + module))
	return "module:" + hex.EncodeToString(sum[:])
}
