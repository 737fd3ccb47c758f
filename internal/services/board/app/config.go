package app

import (
	"fmt"
	"strings"

	"github.com/willoftheprophets/runabout/internal/board"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// RuntimeConfig holds everything the board server needs to start.
type RuntimeConfig struct {
	Port        int
	Storage     string
	DBPath      string
	Scenario    string
	FixturePath string
	WindowClock string
	CacheSize   int
}

// validate normalizes cfg and resolves the window clock.
func (cfg *RuntimeConfig) validate() (board.Clock, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return 0, fmt.Errorf("port %d is out of range", cfg.Port)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if cfg.Storage == "" {
		cfg.Storage = StorageSQLite
	}
	switch cfg.Storage {
	case StorageSQLite:
		if strings.TrimSpace(cfg.DBPath) == "" {
			return 0, fmt.Errorf("db path is required for %s storage", StorageSQLite)
		}
	case StorageMemory:
	default:
		return 0, fmt.Errorf("unknown storage %q (valid: %s, %s)", cfg.Storage, StorageSQLite, StorageMemory)
	}
	if strings.TrimSpace(cfg.Scenario) != "" && strings.TrimSpace(cfg.FixturePath) != "" {
		return 0, fmt.Errorf("scenario and fixture path are mutually exclusive")
	}
	cfg.WindowClock = strings.ToLower(strings.TrimSpace(cfg.WindowClock))
	clock, ok := board.ParseClock(cfg.WindowClock)
	if !ok {
		return 0, fmt.Errorf("unknown window clock %q (valid: embargo, query)", cfg.WindowClock)
	}
	return clock, nil
}
