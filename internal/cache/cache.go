// Package cache stores rendered responses such as chart images so repeated
// requests for the same inputs skip the work.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/fifty-year-mortgage/pkg/constants"
	"go.uber.org/zap"
)

// Backend names accepted in the server configuration.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Cache is a byte cache with per-entry expiry. A miss is reported with
// ok == false and a nil error; err is set only when the backend failed.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Settings selects and tunes a cache backend.
type Settings struct {
	Backend  string `yaml:"backend"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      int    `yaml:"ttl"` // seconds
}

// TTLDuration returns the configured TTL, or the default when unset.
func (s Settings) TTLDuration() time.Duration {
	if s.TTL <= 0 {
		return constants.DefaultCacheTTLSeconds * time.Second
	}
	return time.Duration(s.TTL) * time.Second
}

// New builds the backend named in settings. An empty backend is the
// in-memory cache.
func New(ctx context.Context, settings Settings, logger *zap.Logger) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(strings.TrimSpace(settings.Backend)) {
	case "", BackendMemory:
		logger.Debug("using in-memory cache", zap.String("op", "cache.New"))
		return NewMemoryCache(), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, settings)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis cache",
			zap.String("op", "cache.New"),
			zap.String("address", settings.Address),
		)
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", settings.Backend)
	}
}

// Key derives a stable cache key from a namespace and its parts.
func Key(namespace string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return namespace + ":" + hex.EncodeToString(sum[:])
}
