// Package preferences persists small per-visitor settings such as whether the
// policy notice was dismissed.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Backend names accepted in the server configuration.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// ErrInvalidKey is returned for empty keys.
var ErrInvalidKey = errors.New("preference key must not be empty")

// Store is a key-value store of string preferences. Get reports ok == false
// for keys that were never set. Writes to the same key are last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Settings selects a store backend.
type Settings struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// New builds the backend named in settings. An empty backend is the
// in-memory store.
func New(settings Settings, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(strings.TrimSpace(settings.Backend)) {
	case "", BackendMemory:
		logger.Debug("using in-memory preference store", zap.String("op", "preferences.New"))
		return NewMemoryStore(), nil
	case BackendSQLite:
		s, err := NewSQLiteStore(settings.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("using sqlite preference store",
			zap.String("op", "preferences.New"),
			zap.String("path", settings.Path),
		)
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported preference backend %q", settings.Backend)
	}
}

// Flag reads a boolean preference. Unset keys and unreadable stores report false.
func Flag(ctx context.Context, store Store, key string) (bool, error) {
	value, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return value == "true", nil
}

// SetFlag writes a boolean preference.
func SetFlag(ctx context.Context, store Store, key string, value bool) error {
	if value {
		return store.Set(ctx, key, "true")
	}
	return store.Set(ctx, key, "false")
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
