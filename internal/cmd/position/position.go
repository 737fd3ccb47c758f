// Package position parses position command flags and queries the board service.
package position

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	entrypoint "github.com/willoftheprophets/runabout/internal/platform/cmd"
	"github.com/willoftheprophets/runabout/internal/platform/discovery"
	platformgrpc "github.com/willoftheprophets/runabout/internal/platform/grpc"
	"github.com/willoftheprophets/runabout/internal/platform/i18n/catalog"
	"github.com/willoftheprophets/runabout/internal/platform/timeouts"
	boardgrpc "github.com/willoftheprophets/runabout/internal/services/board/api/grpc/board"
	"golang.org/x/text/message"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// ErrUsage marks invalid command-line input.
var ErrUsage = errors.New("usage")

// Config holds position command configuration.
type Config struct {
	Addr    string        `env:"RUNABOUT_BOARD_ADDR"`
	Locale  string        `env:"RUNABOUT_POSITION_LOCALE" envDefault:"en-US"`
	Timeout time.Duration `env:"RUNABOUT_POSITION_TIMEOUT" envDefault:"2s"`
	At      time.Time
	Trace   bool
	Clear   bool
}

// ParseConfig parses environment and flags into a Config. Without -at the
// query time is now().
func ParseConfig(fs *flag.FlagSet, args []string, now func() time.Time) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	var at string
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Board server address")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Output locale")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Request timeout")
	fs.StringVar(&at, "at", "", "Query time in RFC 3339 (default now)")
	fs.BoolVar(&cfg.Trace, "trace", false, "Print every replay step")
	fs.BoolVar(&cfg.Clear, "clear", false, "Clear the server's position caches")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	cfg.Addr = discovery.ResolveAddr(cfg.Addr, discovery.ServiceBoard)
	if cfg.Clear && cfg.Trace {
		return Config{}, fmt.Errorf("%w: -clear and -trace are mutually exclusive", ErrUsage)
	}
	at = strings.TrimSpace(at)
	if at == "" {
		if now == nil {
			now = time.Now
		}
		cfg.At = now().UTC()
		return cfg, nil
	}
	parsed, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return Config{}, fmt.Errorf("%w: -at must be RFC 3339: %v", ErrUsage, err)
	}
	cfg.At = parsed.UTC()
	return cfg, nil
}

// Run dials the board service and prints the requested result to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServicePosition, func(ctx context.Context) error {
		conn, err := platformgrpc.DialWithHealth(ctx, platformgrpc.DialConfig{
			Addr:    cfg.Addr,
			Service: boardgrpc.ServiceName,
			Timeout: timeouts.GRPCDial,
		})
		if err != nil {
			return fmt.Errorf("connect to board service at %s: %w", cfg.Addr, err)
		}
		defer conn.Close()
		return query(ctx, boardgrpc.NewBoardServiceClient(conn), cfg, out)
	})
}

func query(ctx context.Context, client boardgrpc.BoardServiceClient, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.GRPCRequest
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if cfg.Locale != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "accept-language", cfg.Locale)
	}

	printer := catalog.Default().Printer(cfg.Locale)
	switch {
	case cfg.Clear:
		if _, err := client.ClearCaches(ctx, &emptypb.Empty{}); err != nil {
			return fmt.Errorf("clear caches: %w", err)
		}
		printer.Fprintf(out, "position.cleared")
		return nil
	case cfg.Trace:
		return printTrace(ctx, client, printer, cfg.At, out)
	default:
		resp, err := client.CalculatePosition(ctx, timestamppb.New(cfg.At))
		if err != nil {
			return fmt.Errorf("calculate position: %w", err)
		}
		printer.Fprintf(out, "position.result", cfg.At.Format(time.RFC3339), int(resp.GetValue()))
		return nil
	}
}

func printTrace(ctx context.Context, client boardgrpc.BoardServiceClient, printer *message.Printer, at time.Time, out io.Writer) error {
	list, err := client.TraceReplay(ctx, timestamppb.New(at))
	if err != nil {
		return fmt.Errorf("trace replay: %w", err)
	}
	stamp := at.UTC().Format(time.RFC3339)
	steps := list.GetValues()
	if len(steps) == 0 {
		printer.Fprintf(out, "position.trace.empty", stamp)
		return nil
	}
	printer.Fprintf(out, "position.trace.header", len(steps), stamp)
	for _, step := range steps {
		fields := step.GetStructValue().GetFields()
		modifier := fields["modifier"].GetStringValue()
		if modifier == "" {
			modifier = "-"
		}
		printer.Fprintf(out, "position.trace.step",
			fields["embargo"].GetStringValue(),
			int(fields["roll"].GetNumberValue()),
			int(fields["landed"].GetNumberValue()),
			modifier,
			int(fields["position"].GetNumberValue()),
		)
	}
	return nil
}
