// Package seed loads YAML board fixtures into a store.
//
// A fixture lists rolls, buttholes and special squares, plus optional
// expected positions that are checked by replaying the fixture in memory
// before anything is written.
package seed
