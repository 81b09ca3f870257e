// avjson converts between plain JSON and DynamoDB attribute values, reads and
// writes single items of a DynamoDB table, and writes or reads DynamoDB
// export files on local disk, S3 or MinIO.
//
// Usage:
//
//	avjson encode [flags] < value.json
//	avjson decode [flags] < attribute-value.json
//	avjson put --table NAME [flags] < item.json
//	avjson get --table NAME --key JSON [flags]
//	avjson export --store URL [flags] < items.ndjson
//	avjson cat --store URL [flags]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/hupe1980/avjson"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env carries the standard streams and shared flags of one invocation.
type env struct {
	stdin    io.Reader
	stdout   io.Writer
	logLevel string
}

func (e *env) logger() (*avjson.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", e.logLevel, err)
	}
	return avjson.NewTextLogger(level), nil
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	{"encode", "convert a JSON value to DynamoDB JSON", runEncode},
	{"decode", "convert DynamoDB JSON to a plain JSON value", runDecode},
	{"put", "write a JSON object as an item", runPut},
	{"get", "read an item by key", runGet},
	{"export", "write JSON lines as DynamoDB export files", runExport},
	{"cat", "print the items of DynamoDB export files as JSON lines", runCat},
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(os.Stderr)
		if len(args) == 0 {
			return errors.New("missing command")
		}
		return nil
	}

	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(ctx, &env{stdin: stdin, stdout: stdout}, args[1:])
		}
	}
	printUsage(os.Stderr)
	return fmt.Errorf("unknown command %q", args[0])
}

// newFlagSet returns a flag set with the flags every command shares.
func newFlagSet(name string, e *env) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("avjson "+name, pflag.ContinueOnError)
	flagSet.StringVar(&e.logLevel, "log-level", "warn", "minimum log level (debug, info, warn, error)")
	flagSet.SortFlags = false
	return flagSet
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "avjson converts between JSON and DynamoDB attribute values.\n\nUsage:\n  avjson <command> [flags]\n\nCommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintf(w, "\nRun \"avjson <command> --help\" for the flags of a command.\n")
}
