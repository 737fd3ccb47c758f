// Package app wires the board gRPC server: store, optional seed fixture,
// position calculator, health and telemetry.
package app
