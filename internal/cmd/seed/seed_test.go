package seed

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	storagesqlite "github.com/willoftheprophets/runabout/internal/storage/sqlite"
)

func noEnv(string) (string, bool) { return "", false }

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-scenario", "butthole"}, noEnv)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "data/board.db" {
		t.Fatalf("db path = %q, want data/board.db", cfg.DBPath)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("locale = %q, want en-US", cfg.Locale)
	}
}

func TestParseConfigEnvFallbackOrder(t *testing.T) {
	env := map[string]string{
		"RUNABOUT_BOARD_DB_PATH": "/var/board.db",
		"RUNABOUT_SEED_LOCALE":   " ",
	}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-fixture", "x.yaml"}, lookup)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/var/board.db" {
		t.Fatalf("db path = %q, want /var/board.db", cfg.DBPath)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("blank locale should fall back, got %q", cfg.Locale)
	}
}

func TestParseConfigRequiresOneSource(t *testing.T) {
	for _, args := range [][]string{nil, {"-scenario", "a", "-fixture", "b.yaml"}} {
		fs := flag.NewFlagSet("seed", flag.ContinueOnError)
		if _, err := ParseConfig(fs, args, noEnv); err == nil {
			t.Fatalf("ParseConfig(%v) expected error", args)
		}
	}
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-list"}, noEnv)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !cfg.List {
		t.Fatal("expected list flag")
	}
}

func TestRunListsScenarios(t *testing.T) {
	var out bytes.Buffer
	if err := Run(context.Background(), Config{List: true, Locale: "en-US"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Available scenarios:\n") {
		t.Fatalf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "  wrap-around\n") {
		t.Fatalf("output missing wrap-around: %q", out.String())
	}
}

func TestRunCheckDoesNotWrite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "board.db")
	var out bytes.Buffer
	cfg := Config{DBPath: dbPath, Scenario: "butthole", Check: true, Locale: "en-US"}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "Checked 3 expected positions.\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunSeedsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "board.db")
	var out bytes.Buffer
	cfg := Config{DBPath: dbPath, Scenario: "special-squares", Locale: "en-US"}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Seeded special-squares: 5 rolls, 0 buttholes, 1 special squares.") {
		t.Fatalf("output = %q", out.String())
	}

	store, err := storagesqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	rolls, err := store.ListRolls(context.Background(), time.Date(2370, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list rolls: %v", err)
	}
	if len(rolls) != 5 {
		t.Fatalf("rolls = %d, want 5", len(rolls))
	}
}

func TestRunRefusesPopulatedStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "board.db")
	cfg := Config{DBPath: dbPath, Scenario: "butthole", Locale: "en-US"}
	if err := Run(context.Background(), cfg, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	err := Run(context.Background(), cfg, nil)
	if !errors.Is(err, ErrStorePopulated) {
		t.Fatalf("second run err = %v, want ErrStorePopulated", err)
	}

	store, err := storagesqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	rolls, err := store.ListRolls(context.Background(), time.Date(2370, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list rolls: %v", err)
	}
	if len(rolls) != 7 {
		t.Fatalf("rolls = %d, want 7", len(rolls))
	}
}

func TestRunChecksFixtureWithItsOwnClock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	fixture := `name: query-window
clock: query
special_squares:
  - square: 24
    auto_move: 5
    active: {from: "2369-07-01T00:00:00Z", until: "2369-08-01T00:00:00Z"}
rolls:
  - {number: 3, embargo: "2369-07-01T00:00:00Z"}
  - {number: 20, embargo: "2369-07-02T00:00:00Z"}
  - {number: 2, embargo: "2369-07-03T00:00:00Z"}
expect:
  - {at: "2369-08-01T01:00:00Z", position: 26}
`
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cfg := Config{FixturePath: path, Check: true, Locale: "en-US"}
	if err := Run(context.Background(), cfg, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
}
