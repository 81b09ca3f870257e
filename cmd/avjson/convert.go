package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/avjson"
	"github.com/hupe1980/avjson/codec"
	"github.com/hupe1980/avjson/value"
	"github.com/hupe1980/avjson/wire"
)

// readInput reads the file named by path, or stdin when path is "" or "-".
func readInput(e *env, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(e.stdin)
	}
	return os.ReadFile(path)
}

func writeJSON(e *env, v any) error {
	data, err := codec.Default.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "%s\n", data)
	return err
}

func runEncode(_ context.Context, e *env, args []string) error {
	var input string
	var item bool

	flagSet := newFlagSet("encode", e)
	flagSet.StringVarP(&input, "input", "i", "", "read the value from this file instead of stdin")
	flagSet.BoolVar(&item, "item", false, "encode a top-level object as a field map instead of an M value")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	data, err := readInput(e, input)
	if err != nil {
		return err
	}
	v, err := value.Parse(data)
	if err != nil {
		return err
	}

	if item {
		obj, ok := v.(value.Object)
		if !ok {
			return &avjson.ShapeError{Want: "object", Got: value.Kind(v)}
		}
		out, err := wire.FromSDKItem(avjson.EncodeObject(obj))
		if err != nil {
			return err
		}
		return writeJSON(e, out)
	}

	out, err := wire.FromSDK(avjson.Encode(v))
	if err != nil {
		return err
	}
	return writeJSON(e, out)
}

func runDecode(_ context.Context, e *env, args []string) error {
	var input string
	var item, strictNull bool
	var maxDepth int

	flagSet := newFlagSet("decode", e)
	flagSet.StringVarP(&input, "input", "i", "", "read DynamoDB JSON from this file instead of stdin")
	flagSet.BoolVar(&item, "item", false, "decode a field map instead of a single attribute value")
	flagSet.BoolVar(&strictNull, "strict-null", false, "reject NULL attributes whose flag is false")
	flagSet.IntVar(&maxDepth, "max-depth", avjson.DefaultMaxDepth, "maximum nesting depth, 0 disables the limit")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	data, err := readInput(e, input)
	if err != nil {
		return err
	}
	c := avjson.New(avjson.WithStrictNull(strictNull), avjson.WithMaxDepth(maxDepth))

	var v value.Value
	if item {
		var in wire.Item
		if err := codec.Default.Unmarshal(data, &in); err != nil {
			return err
		}
		if v, err = c.DecodeWireItem(in); err != nil {
			return err
		}
	} else {
		var in wire.AttributeValue
		if err := codec.Default.Unmarshal(data, &in); err != nil {
			return err
		}
		if v, err = c.DecodeWire(&in); err != nil {
			return err
		}
	}

	out, err := value.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "%s\n", out)
	return err
}
