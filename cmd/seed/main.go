// Command seed loads a YAML board fixture into the SQLite store used by the
// board service.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	seedcmd "github.com/willoftheprophets/runabout/internal/cmd/seed"
	entrypoint "github.com/willoftheprophets/runabout/internal/platform/cmd"
	"github.com/willoftheprophets/runabout/internal/platform/config"
)

func main() {
	cfg, err := seedcmd.ParseConfig(flag.CommandLine, os.Args[1:], os.LookupEnv)
	if err != nil {
		config.Usagef("Error: %v", err)
	}
	entrypoint.SetLogPrefix(entrypoint.ServiceSeed)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		return seedcmd.Run(ctx, cfg, os.Stdout)
	})
	if err != nil {
		config.Exitf("Error: %v", err)
	}
}
