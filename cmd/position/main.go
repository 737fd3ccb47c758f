// Command position asks a running board service where the runabout is.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	positioncmd "github.com/willoftheprophets/runabout/internal/cmd/position"
	entrypoint "github.com/willoftheprophets/runabout/internal/platform/cmd"
	"github.com/willoftheprophets/runabout/internal/platform/config"
)

func main() {
	cfg, err := positioncmd.ParseConfig(flag.CommandLine, os.Args[1:], time.Now)
	if err != nil {
		if errors.Is(err, positioncmd.ErrUsage) {
			config.Usagef("%v", err)
		}
		config.Exitf("parse flags: %v", err)
	}
	entrypoint.SetLogPrefix(entrypoint.ServicePosition)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := positioncmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
