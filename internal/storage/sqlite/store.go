package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/willoftheprophets/runabout/internal/board"
	sqlitemigrate "github.com/willoftheprophets/runabout/internal/platform/storage/sqlitemigrate"
	"github.com/willoftheprophets/runabout/internal/storage"
	"github.com/willoftheprophets/runabout/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed roll and modifier persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a board SQLite store and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ListRolls returns rolls embargoed at or before until.
func (s *Store) ListRolls(ctx context.Context, until time.Time) ([]board.Roll, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, number, embargo
FROM rolls
WHERE embargo <= ?
ORDER BY embargo ASC, id ASC
`, toMillis(until))
	if err != nil {
		return nil, fmt.Errorf("list rolls: %w", err)
	}
	defer rows.Close()

	var rolls []board.Roll
	for rows.Next() {
		var roll board.Roll
		var embargo int64
		if err := rows.Scan(&roll.ID, &roll.Number, &embargo); err != nil {
			return nil, fmt.Errorf("scan roll: %w", err)
		}
		roll.Embargo = fromMillis(embargo)
		rolls = append(rolls, roll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rolls: %w", err)
	}
	return rolls, nil
}

// ListButtholes returns every registered butthole in insertion order.
func (s *Store) ListButtholes(ctx context.Context) ([]board.Butthole, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, start_square, end_square, active_start, active_end
FROM buttholes
ORDER BY id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list buttholes: %w", err)
	}
	defer rows.Close()

	var buttholes []board.Butthole
	for rows.Next() {
		var butthole board.Butthole
		var start, end sql.NullInt64
		if err := rows.Scan(&butthole.ID, &butthole.StartSquare, &butthole.EndSquare, &start, &end); err != nil {
			return nil, fmt.Errorf("scan butthole: %w", err)
		}
		butthole.Window = fromNullWindow(start, end)
		buttholes = append(buttholes, butthole)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate buttholes: %w", err)
	}
	return buttholes, nil
}

// ListSpecialSquares returns every registered special square in insertion order.
func (s *Store) ListSpecialSquares(ctx context.Context) ([]board.SpecialSquare, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, square, auto_move, active_start, active_end
FROM special_squares
ORDER BY id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list special squares: %w", err)
	}
	defer rows.Close()

	var specials []board.SpecialSquare
	for rows.Next() {
		var special board.SpecialSquare
		var start, end sql.NullInt64
		if err := rows.Scan(&special.ID, &special.Square, &special.AutoMove, &start, &end); err != nil {
			return nil, fmt.Errorf("scan special square: %w", err)
		}
		special.Window = fromNullWindow(start, end)
		specials = append(specials, special)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate special squares: %w", err)
	}
	return specials, nil
}

// Revision returns the trigger-maintained write generation.
func (s *Store) Revision(ctx context.Context) (uint64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	var revision int64
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT revision FROM board_revision WHERE id = 1").Scan(&revision); err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	return uint64(revision), nil
}

// AppendRoll records a roll.
func (s *Store) AppendRoll(ctx context.Context, roll board.Roll) (board.Roll, error) {
	if err := s.ready(ctx); err != nil {
		return board.Roll{}, err
	}
	if err := roll.Validate(); err != nil {
		return board.Roll{}, err
	}

	return insertRoll(ctx, s.sqlDB, roll)
}

// PutButthole inserts a butthole, or updates the one with the same ID.
func (s *Store) PutButthole(ctx context.Context, butthole board.Butthole) (board.Butthole, error) {
	if err := s.ready(ctx); err != nil {
		return board.Butthole{}, err
	}
	if err := butthole.Validate(); err != nil {
		return board.Butthole{}, err
	}
	start, end := toNullWindow(butthole.Window)

	if butthole.ID == 0 {
		return insertButthole(ctx, s.sqlDB, butthole)
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE buttholes
SET start_square = ?, end_square = ?, active_start = ?, active_end = ?
WHERE id = ?
`, butthole.StartSquare, butthole.EndSquare, start, end, butthole.ID)
	if err != nil {
		return board.Butthole{}, fmt.Errorf("update butthole: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return board.Butthole{}, err
	}
	return butthole, nil
}

// PutSpecialSquare inserts a special square, or updates the one with the same ID.
func (s *Store) PutSpecialSquare(ctx context.Context, special board.SpecialSquare) (board.SpecialSquare, error) {
	if err := s.ready(ctx); err != nil {
		return board.SpecialSquare{}, err
	}
	if err := special.Validate(); err != nil {
		return board.SpecialSquare{}, err
	}
	start, end := toNullWindow(special.Window)

	if special.ID == 0 {
		return insertSpecialSquare(ctx, s.sqlDB, special)
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE special_squares
SET square = ?, auto_move = ?, active_start = ?, active_end = ?
WHERE id = ?
`, special.Square, special.AutoMove, start, end, special.ID)
	if err != nil {
		return board.SpecialSquare{}, fmt.Errorf("update special square: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return board.SpecialSquare{}, err
	}
	return special, nil
}

// WriteBatch inserts every record of batch in one transaction.
func (s *Store) WriteBatch(ctx context.Context, batch storage.Batch) (storage.Batch, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Batch{}, err
	}
	if err := validateBatch(batch); err != nil {
		return storage.Batch{}, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Batch{}, fmt.Errorf("begin batch: %w", err)
	}
	written, err := writeBatch(ctx, tx, batch)
	if err != nil {
		_ = tx.Rollback()
		return storage.Batch{}, err
	}
	if err := tx.Commit(); err != nil {
		return storage.Batch{}, fmt.Errorf("commit batch: %w", err)
	}
	return written, nil
}

func validateBatch(batch storage.Batch) error {
	for _, butthole := range batch.Buttholes {
		if err := butthole.Validate(); err != nil {
			return err
		}
	}
	for _, special := range batch.SpecialSquares {
		if err := special.Validate(); err != nil {
			return err
		}
	}
	for _, roll := range batch.Rolls {
		if err := roll.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func writeBatch(ctx context.Context, tx *sql.Tx, batch storage.Batch) (storage.Batch, error) {
	var written storage.Batch
	for _, butthole := range batch.Buttholes {
		butthole.ID = 0
		stored, err := insertButthole(ctx, tx, butthole)
		if err != nil {
			return storage.Batch{}, err
		}
		written.Buttholes = append(written.Buttholes, stored)
	}
	for _, special := range batch.SpecialSquares {
		special.ID = 0
		stored, err := insertSpecialSquare(ctx, tx, special)
		if err != nil {
			return storage.Batch{}, err
		}
		written.SpecialSquares = append(written.SpecialSquares, stored)
	}
	for _, roll := range batch.Rolls {
		stored, err := insertRoll(ctx, tx, roll)
		if err != nil {
			return storage.Batch{}, err
		}
		written.Rolls = append(written.Rolls, stored)
	}
	return written, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRoll(ctx context.Context, db execer, roll board.Roll) (board.Roll, error) {
	result, err := db.ExecContext(ctx, "INSERT INTO rolls (number, embargo) VALUES (?, ?)", roll.Number, toMillis(roll.Embargo))
	if err != nil {
		return board.Roll{}, fmt.Errorf("append roll: %w", err)
	}
	if roll.ID, err = result.LastInsertId(); err != nil {
		return board.Roll{}, fmt.Errorf("append roll id: %w", err)
	}
	roll.Embargo = fromMillis(toMillis(roll.Embargo))
	return roll, nil
}

func insertButthole(ctx context.Context, db execer, butthole board.Butthole) (board.Butthole, error) {
	start, end := toNullWindow(butthole.Window)
	result, err := db.ExecContext(ctx, `
INSERT INTO buttholes (start_square, end_square, active_start, active_end)
VALUES (?, ?, ?, ?)
`, butthole.StartSquare, butthole.EndSquare, start, end)
	if err != nil {
		return board.Butthole{}, fmt.Errorf("insert butthole: %w", err)
	}
	if butthole.ID, err = result.LastInsertId(); err != nil {
		return board.Butthole{}, fmt.Errorf("insert butthole id: %w", err)
	}
	return butthole, nil
}

func insertSpecialSquare(ctx context.Context, db execer, special board.SpecialSquare) (board.SpecialSquare, error) {
	start, end := toNullWindow(special.Window)
	result, err := db.ExecContext(ctx, `
INSERT INTO special_squares (square, auto_move, active_start, active_end)
VALUES (?, ?, ?, ?)
`, special.Square, special.AutoMove, start, end)
	if err != nil {
		return board.SpecialSquare{}, fmt.Errorf("insert special square: %w", err)
	}
	if special.ID, err = result.LastInsertId(); err != nil {
		return board.SpecialSquare{}, fmt.Errorf("insert special square id: %w", err)
	}
	return special, nil
}

// DeleteButthole removes a butthole by ID.
func (s *Store) DeleteButthole(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM buttholes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete butthole: %w", err)
	}
	return requireAffected(result)
}

// DeleteSpecialSquare removes a special square by ID.
func (s *Store) DeleteSpecialSquare(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM special_squares WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete special square: %w", err)
	}
	return requireAffected(result)
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func toNullWindow(window board.Window) (sql.NullInt64, sql.NullInt64) {
	var start, end sql.NullInt64
	if !window.Start.IsZero() {
		start = sql.NullInt64{Int64: toMillis(window.Start), Valid: true}
	}
	if !window.End.IsZero() {
		end = sql.NullInt64{Int64: toMillis(window.End), Valid: true}
	}
	return start, end
}

func fromNullWindow(start, end sql.NullInt64) board.Window {
	var window board.Window
	if start.Valid {
		window.Start = fromMillis(start.Int64)
	}
	if end.Valid {
		window.End = fromMillis(end.Int64)
	}
	return window
}

var _ storage.Store = (*Store)(nil)
