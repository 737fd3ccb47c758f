// Package board parses board command flags and starts the board service.
package board

import (
	"context"
	"flag"

	entrypoint "github.com/willoftheprophets/runabout/internal/platform/cmd"
	"github.com/willoftheprophets/runabout/internal/services/board/app"
)

// Config holds board command configuration.
type Config struct {
	Port        int    `env:"RUNABOUT_BOARD_PORT" envDefault:"8095"`
	Storage     string `env:"RUNABOUT_BOARD_STORAGE" envDefault:"sqlite"`
	DBPath      string `env:"RUNABOUT_BOARD_DB_PATH" envDefault:"data/board.db"`
	Scenario    string `env:"RUNABOUT_BOARD_SCENARIO"`
	FixturePath string `env:"RUNABOUT_BOARD_FIXTURE"`
	WindowClock string `env:"RUNABOUT_BOARD_WINDOW_CLOCK" envDefault:"embargo"`
	CacheSize   int    `env:"RUNABOUT_BOARD_CACHE_SIZE" envDefault:"4096"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The board server port")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Board storage backend (sqlite, memory)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "Built-in fixture to load into an empty store")
	fs.StringVar(&cfg.FixturePath, "fixture", cfg.FixturePath, "YAML fixture file to load into an empty store")
	fs.StringVar(&cfg.WindowClock, "window-clock", cfg.WindowClock, "Time tested against modifier windows (embargo, query)")
	fs.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "Maximum memoized positions")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the board service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBoard, func(ctx context.Context) error {
		return app.Run(ctx, app.RuntimeConfig{
			Port:        cfg.Port,
			Storage:     cfg.Storage,
			DBPath:      cfg.DBPath,
			Scenario:    cfg.Scenario,
			FixturePath: cfg.FixturePath,
			WindowClock: cfg.WindowClock,
			CacheSize:   cfg.CacheSize,
		})
	})
}
