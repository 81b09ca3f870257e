package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/hupe1980/avjson/table"
	"github.com/hupe1980/avjson/value"
)

type tableFlags struct {
	name       string
	region     string
	endpoint   string
	consistent bool
}

func (f *tableFlags) add(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&f.name, "table", "t", "", "DynamoDB table name (required)")
	flagSet.StringVar(&f.region, "region", "", "AWS region (default: from the AWS configuration)")
	flagSet.StringVar(&f.endpoint, "endpoint", "", "DynamoDB endpoint URL, e.g. http://localhost:8000")
	flagSet.BoolVar(&f.consistent, "consistent-read", false, "use strongly consistent reads")
}

func (f *tableFlags) open(ctx context.Context, e *env) (*table.Table, error) {
	if f.name == "" {
		return nil, errors.New("--table is required")
	}
	logger, err := e.logger()
	if err != nil {
		return nil, err
	}
	return table.Load(ctx, f.name,
		table.WithRegion(f.region),
		table.WithEndpoint(f.endpoint),
		table.WithConsistentRead(f.consistent),
		table.WithLogger(logger),
	)
}

func runPut(ctx context.Context, e *env, args []string) error {
	var tf tableFlags
	var input, ifNotExists string

	flagSet := newFlagSet("put", e)
	tf.add(flagSet)
	flagSet.StringVarP(&input, "input", "i", "", "read the item from this file instead of stdin")
	flagSet.StringVar(&ifNotExists, "if-not-exists", "", "fail if an item with this key attribute already exists")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	data, err := readInput(e, input)
	if err != nil {
		return err
	}
	item, err := value.Parse(data)
	if err != nil {
		return err
	}

	tbl, err := tf.open(ctx, e)
	if err != nil {
		return err
	}
	var opts []table.PutOption
	if ifNotExists != "" {
		opts = append(opts, table.IfNotExists(ifNotExists))
	}
	return tbl.Put(ctx, item, opts...)
}

func runGet(ctx context.Context, e *env, args []string) error {
	var tf tableFlags
	var key string

	flagSet := newFlagSet("get", e)
	tf.add(flagSet)
	flagSet.StringVarP(&key, "key", "k", "", `key as a JSON object, e.g. '{"id":"42"}' (required)`)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if key == "" {
		return errors.New("--key is required")
	}

	keyValue, err := value.Parse([]byte(key))
	if err != nil {
		return fmt.Errorf("invalid --key: %w", err)
	}

	tbl, err := tf.open(ctx, e)
	if err != nil {
		return err
	}
	var out value.Value
	if err := tbl.Get(ctx, keyValue, &out); err != nil {
		return err
	}

	data, err := value.Marshal(out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "%s\n", data)
	return err
}
