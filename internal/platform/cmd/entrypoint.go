// Package cmd holds the startup plumbing shared by runabout binaries.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/willoftheprophets/runabout/internal/platform/config"
	"github.com/willoftheprophets/runabout/internal/platform/otel"
	"github.com/willoftheprophets/runabout/internal/platform/timeouts"
)

// Service names, used as the telemetry service name and the log prefix.
const (
	ServiceBoard    = "board"
	ServicePosition = "position"
	ServiceSeed     = "seed"
)

// ParseConfig fills cfg from RUNABOUT_* environment variables. Commands
// register flags afterwards so flags override the environment.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses args into fs. A nil args slice parses nothing rather
// than os.Args.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag set is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// SetLogPrefix tags the standard logger with the upper-cased service name.
func SetLogPrefix(service string) {
	service = strings.TrimSpace(service)
	if service == "" {
		return
	}
	log.SetPrefix("[" + strings.ToUpper(service) + "] ")
}

type telemetrySetup func(ctx context.Context, service string) (func(context.Context) error, error)

// RunWithTelemetry installs tracing for service, runs run, and flushes
// pending spans before returning run's error.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	return runWithTelemetry(ctx, service, otel.Setup, run)
}

func runWithTelemetry(ctx context.Context, service string, setup telemetrySetup, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	switch {
	case service == "":
		return errors.New("service name is required")
	case run == nil:
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := setup(ctx, service)
	if err != nil {
		return err
	}
	runErr := run(ctx)

	flushCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := shutdown(flushCtx); err != nil {
		log.Printf("flush telemetry for %s: %v", service, err)
	}
	return runErr
}
