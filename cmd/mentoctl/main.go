// Command mentoctl records and inspects level progress on a mento-server.
//
//	mentoctl [flags] complete <user> <island> <level>
//	mentoctl [flags] progress <user> <island>
//	mentoctl [flags] current <user>
//	mentoctl [flags] reset <user>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mento-app/mento-server/internal/client"
	"github.com/mento-app/mento-server/internal/logger"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mentoctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", envOr("MENTO_ADDR", "http://localhost:3000"), "server base URL")
	token := fs.String("token", os.Getenv("MENTO_TOKEN"), "bearer token")
	timeout := fs.Duration("timeout", 10*time.Second, "per-call timeout")
	verbose := fs.Bool("v", false, "log requests to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := 12 // above Error: silent
	if *verbose {
		level = -4
	}
	cl := client.New(*addr, logger.NewWithWriter(stderr, level),
		client.WithToken(*token),
		client.WithTimeout(*timeout),
	)

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "usage: mentoctl [flags] complete|progress|current|reset <user> [island] [level]")
		return 2
	}

	cmd, params := rest[0], rest[1:]
	need := map[string]int{"complete": 3, "progress": 2, "current": 1, "reset": 1}
	n, ok := need[cmd]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		return 2
	}
	if len(params) != n {
		fmt.Fprintf(stderr, "%s takes %d arguments, got %d\n", cmd, n, len(params))
		return 2
	}

	var res client.Result
	switch cmd {
	case "complete":
		res = cl.CompleteLevel(ctx, params[0], params[1], params[2])
		if res.Success() {
			fmt.Fprintf(stdout, "level %s of %s completed\n", params[2], params[1])
		}
	case "progress":
		p := cl.IslandProgress(ctx, params[0], params[1])
		res = p.Result
		if res.Success() {
			fmt.Fprintf(stdout, "completed: %s\nnext unlocked: %d\n", joinInts(p.CompletedLevels), p.NextUnlocked)
		}
	case "current", "reset":
		var l client.LevelResult
		if cmd == "current" {
			l = cl.CurrentLevel(ctx, params[0])
		} else {
			l = cl.ResetProgress(ctx, params[0])
		}
		res = l.Result
		if res.Success() {
			fmt.Fprintf(stdout, "current level: %d\n", l.CurrentLevel)
		}
	}

	if !res.Success() {
		fmt.Fprintf(stderr, "%s: %s\n", res.Kind, res.Message)
		return 1
	}
	return 0
}

func joinInts(v []int) string {
	if len(v) == 0 {
		return "none"
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
