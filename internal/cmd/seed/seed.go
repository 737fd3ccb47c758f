// Package seed parses seed command flags and loads board fixtures.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/willoftheprophets/runabout/internal/platform/i18n/catalog"
	"github.com/willoftheprophets/runabout/internal/platform/timeouts"
	fixtures "github.com/willoftheprophets/runabout/internal/seed"
	storagesqlite "github.com/willoftheprophets/runabout/internal/storage/sqlite"
)

const defaultDBPath = "data/board.db"

// ErrStorePopulated reports that the target store already holds board data.
var ErrStorePopulated = errors.New("board store already populated")

// Config holds seed command configuration.
type Config struct {
	DBPath      string
	Scenario    string
	FixturePath string
	Locale      string
	List        bool
	Check       bool
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config, taking defaults from lookup.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		DBPath:      envOrDefault(lookup, []string{"RUNABOUT_SEED_DB_PATH", "RUNABOUT_BOARD_DB_PATH"}, defaultDBPath),
		Locale:      envOrDefault(lookup, []string{"RUNABOUT_SEED_LOCALE", "RUNABOUT_POSITION_LOCALE"}, catalog.BaseLocale),
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.Scenario, "scenario", "", "Built-in scenario to load")
	fs.StringVar(&cfg.FixturePath, "fixture", "", "YAML fixture file to load")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Output locale")
	fs.BoolVar(&cfg.List, "list", false, "List built-in scenarios")
	fs.BoolVar(&cfg.Check, "check", false, "Verify fixture expectations without writing")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.List {
		return cfg, nil
	}
	if (cfg.Scenario == "") == (cfg.FixturePath == "") {
		return Config{}, errors.New("exactly one of -scenario or -fixture is required")
	}
	return cfg, nil
}

// Run executes the seed command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	printer := catalog.Default().Printer(cfg.Locale)

	if cfg.List {
		names, err := fixtures.ListScenarios()
		if err != nil {
			return err
		}
		printer.Fprintf(out, "seed.scenarios.header")
		for _, name := range names {
			printer.Fprintf(out, "seed.scenarios.item", name)
		}
		return nil
	}

	fixture, err := loadFixture(cfg)
	if err != nil {
		return err
	}
	b, err := fixture.Board()
	if err != nil {
		return err
	}
	if err := b.Verify(); err != nil {
		return fmt.Errorf("fixture %q expectations: %w", fixture.Name, err)
	}
	printer.Fprintf(out, "seed.verified", len(b.Expect))
	if cfg.Check {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Seed)
	defer cancel()
	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open board store: %w", err)
	}
	defer store.Close()

	revision, err := store.Revision(ctx)
	if err != nil {
		return fmt.Errorf("read revision: %w", err)
	}
	if revision != 0 {
		return fmt.Errorf("%w: %s is at revision %d", ErrStorePopulated, cfg.DBPath, revision)
	}
	result, err := fixtures.Apply(ctx, store, b)
	if err != nil {
		return err
	}
	printer.Fprintf(out, "seed.applied", fixture.Name, result.Rolls, result.Buttholes, result.SpecialSquares)
	return nil
}

func loadFixture(cfg Config) (fixtures.Fixture, error) {
	if cfg.Scenario != "" {
		return fixtures.LoadScenario(cfg.Scenario)
	}
	return fixtures.LoadFile(cfg.FixturePath)
}

func envOrDefault(lookup EnvLookup, keys []string, fallback string) string {
	for _, key := range keys {
		if lookup == nil {
			break
		}
		value, ok := lookup(key)
		if ok {
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return fallback
}
