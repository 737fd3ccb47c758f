// Package timeouts defines timeout constants shared by runabout processes.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the board service.
const GRPCDial = 2 * time.Second

// GRPCRequest caps a single position query from the CLI.
const GRPCRequest = 2 * time.Second

// Shutdown limits how long the board server drains in-flight requests and
// how long a process waits for pending spans to flush.
const Shutdown = 5 * time.Second

// Seed caps how long a fixture load may hold the store.
const Seed = 30 * time.Second
