// Package sqlite persists the roll ledger and modifier registry in SQLite.
//
// Timestamps are stored as UTC unix milliseconds. Missing window bounds are
// NULL. The board_revision row is bumped by triggers on every table, so
// writes made by other processes sharing the database file also advance the
// revision observed by Revision.
package sqlite
