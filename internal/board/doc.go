// Package board computes where the runabout sits on the circular board.
//
// The board is a ring of Size squares numbered 1..Size. A position is never
// stored: it is always derived by replaying the roll history up to a query
// time, starting from square Start.
//
// # Replay
//
// Replay filters rolls to those embargoed at or before the query time, orders
// them by embargo (ties keep their input order), and folds each one into the
// position:
//
//  1. advance by the roll number, wrapping past Size back to 1;
//  2. look up the modifier triggered by the landing square whose active
//     window covers the roll (see Clock);
//  3. apply at most one modifier. Its destination is not checked again.
//
// Replay is pure. It never mutates the rolls or the registry it is given.
package board
