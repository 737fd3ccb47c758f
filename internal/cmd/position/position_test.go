package position

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/willoftheprophets/runabout/internal/board"
	calc "github.com/willoftheprophets/runabout/internal/position"
	boardgrpc "github.com/willoftheprophets/runabout/internal/services/board/api/grpc/board"
	"github.com/willoftheprophets/runabout/internal/storage/memory"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func fixedNow() time.Time {
	return time.Date(2369, time.July, 5, 8, 0, 0, 0, time.UTC)
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("position", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, fixedNow)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "board:8095" {
		t.Fatalf("addr = %q, want board:8095", cfg.Addr)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("locale = %q, want en-US", cfg.Locale)
	}
	if cfg.Timeout != 2*time.Second {
		t.Fatalf("timeout = %v, want 2s", cfg.Timeout)
	}
	if !cfg.At.Equal(fixedNow()) {
		t.Fatalf("at = %v, want %v", cfg.At, fixedNow())
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("RUNABOUT_POSITION_LOCALE", "pt-BR")

	fs := flag.NewFlagSet("position", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-addr", "localhost:9001", "-at", "2369-07-02T01:00:00+02:00", "-trace"}, fixedNow)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "localhost:9001" {
		t.Fatalf("addr = %q, want localhost:9001", cfg.Addr)
	}
	if cfg.Locale != "pt-BR" {
		t.Fatalf("locale = %q, want pt-BR", cfg.Locale)
	}
	if want := time.Date(2369, time.July, 1, 23, 0, 0, 0, time.UTC); !cfg.At.Equal(want) || cfg.At.Location() != time.UTC {
		t.Fatalf("at = %v, want %v in UTC", cfg.At, want)
	}
	if !cfg.Trace {
		t.Fatal("expected trace")
	}
}

func TestParseConfigUsageErrors(t *testing.T) {
	tests := [][]string{
		{"-at", "July 5th"},
		{"-clear", "-trace"},
	}
	for _, args := range tests {
		fs := flag.NewFlagSet("position", flag.ContinueOnError)
		_, err := ParseConfig(fs, args, fixedNow)
		if !errors.Is(err, ErrUsage) {
			t.Fatalf("ParseConfig(%v) err = %v, want ErrUsage", args, err)
		}
	}
}

func startClient(t *testing.T) (boardgrpc.BoardServiceClient, *calc.Calculator) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	for day, number := range []int{3, 20, 2} {
		roll := board.Roll{Number: number, Embargo: time.Date(2369, time.July, day+1, 0, 0, 0, 0, time.UTC)}
		if _, err := store.AppendRoll(ctx, roll); err != nil {
			t.Fatalf("append roll: %v", err)
		}
	}
	if _, err := store.PutButthole(ctx, board.Butthole{StartSquare: 24, EndSquare: 2}); err != nil {
		t.Fatalf("put butthole: %v", err)
	}
	calculator, err := calc.NewCalculator(store)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	boardgrpc.RegisterBoardServiceServer(server, boardgrpc.NewService(calculator))
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return boardgrpc.NewBoardServiceClient(conn), calculator
}

func TestQueryPrintsPosition(t *testing.T) {
	client, _ := startClient(t)
	var out bytes.Buffer

	cfg := Config{Locale: "en-US", At: time.Date(2369, time.July, 3, 1, 0, 0, 0, time.UTC)}
	if err := query(context.Background(), client, cfg, &out); err != nil {
		t.Fatalf("query: %v", err)
	}
	// 4, 24 -> butthole 2, 4.
	want := "At 2369-07-03T01:00:00Z the runabout is on square 4.\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestQueryPrintsLocalizedTrace(t *testing.T) {
	client, _ := startClient(t)
	var out bytes.Buffer

	cfg := Config{Locale: "pt-BR", Trace: true, At: time.Date(2369, time.July, 31, 0, 0, 0, 0, time.UTC)}
	if err := query(context.Background(), client, cfg, &out); err != nil {
		t.Fatalf("query: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "3 rolagens") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "butthole") || !strings.HasSuffix(lines[2], "->   2") {
		t.Fatalf("step = %q", lines[2])
	}
}

func TestQueryPrintsEmptyTrace(t *testing.T) {
	client, _ := startClient(t)
	var out bytes.Buffer

	cfg := Config{Locale: "en-US", Trace: true, At: time.Date(2369, time.January, 1, 0, 0, 0, 0, time.UTC)}
	if err := query(context.Background(), client, cfg, &out); err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.HasPrefix(out.String(), "No rolls") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestQueryClearsCaches(t *testing.T) {
	client, calculator := startClient(t)
	at := time.Date(2369, time.July, 3, 1, 0, 0, 0, time.UTC)
	if err := query(context.Background(), client, Config{At: at}, nil); err != nil {
		t.Fatalf("query: %v", err)
	}
	if calculator.CacheStats().Entries != 1 {
		t.Fatalf("entries = %d, want 1", calculator.CacheStats().Entries)
	}

	var out bytes.Buffer
	if err := query(context.Background(), client, Config{Locale: "en-US", Clear: true}, &out); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if calculator.CacheStats().Entries != 0 {
		t.Fatalf("entries after clear = %d, want 0", calculator.CacheStats().Entries)
	}
	if out.String() != "Position caches cleared.\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestQueryWrapsServerErrors(t *testing.T) {
	client, _ := startClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := query(ctx, client, Config{At: fixedNow()}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if status.Code(errors.Unwrap(err)) != codes.Canceled {
		t.Fatalf("code = %s, want Canceled", status.Code(errors.Unwrap(err)))
	}
}
