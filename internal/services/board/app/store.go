package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/willoftheprophets/runabout/internal/seed"
	"github.com/willoftheprophets/runabout/internal/storage"
	"github.com/willoftheprophets/runabout/internal/storage/memory"
	storagesqlite "github.com/willoftheprophets/runabout/internal/storage/sqlite"
)

func openStore(cfg RuntimeConfig) (storage.Store, error) {
	if cfg.Storage == StorageMemory {
		return memory.New(), nil
	}
	path := strings.TrimSpace(cfg.DBPath)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := storagesqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open board store: %w", err)
	}
	return store, nil
}

// seedStore loads the configured fixture into an empty store. A store that
// has already been written to is left alone. Expectations are checked with
// the fixture's own clock, not the one the server answers with.
func seedStore(ctx context.Context, cfg RuntimeConfig, store storage.Store) error {
	fixture, ok, err := loadFixture(cfg)
	if err != nil || !ok {
		return err
	}
	revision, err := store.Revision(ctx)
	if err != nil {
		return fmt.Errorf("read revision: %w", err)
	}
	if revision != 0 {
		log.Printf("store already populated at revision %d; skipping fixture %q", revision, fixture.Name)
		return nil
	}

	b, err := fixture.Board()
	if err != nil {
		return err
	}
	if err := b.Verify(); err != nil {
		return fmt.Errorf("fixture %q expectations: %w", fixture.Name, err)
	}
	result, err := seed.Apply(ctx, store, b)
	if err != nil {
		return fmt.Errorf("seed fixture %q: %w", fixture.Name, err)
	}
	log.Printf("seeded fixture %q: %d rolls, %d buttholes, %d special squares", fixture.Name, result.Rolls, result.Buttholes, result.SpecialSquares)
	return nil
}

func loadFixture(cfg RuntimeConfig) (seed.Fixture, bool, error) {
	if name := strings.TrimSpace(cfg.Scenario); name != "" {
		fixture, err := seed.LoadScenario(name)
		return fixture, err == nil, err
	}
	if path := strings.TrimSpace(cfg.FixturePath); path != "" {
		fixture, err := seed.LoadFile(path)
		return fixture, err == nil, err
	}
	return seed.Fixture{}, false, nil
}
