package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/pflag"

	"github.com/hupe1980/avjson/blobstore"
	"github.com/hupe1980/avjson/blobstore/minio"
	"github.com/hupe1980/avjson/blobstore/s3"
	"github.com/hupe1980/avjson/export"
	"github.com/hupe1980/avjson/value"
)

type storeFlags struct {
	url           string
	minioEndpoint string
	minioInsecure bool
}

func (f *storeFlags) add(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&f.url, "store", "s", "", "export location: a directory, file://DIR, s3://BUCKET/PREFIX or minio://BUCKET/PREFIX (required)")
	flagSet.StringVar(&f.minioEndpoint, "minio-endpoint", "localhost:9000", "MinIO endpoint for minio:// stores")
	flagSet.BoolVar(&f.minioInsecure, "minio-insecure", false, "use plain HTTP for minio:// stores")
}

// openStore resolves the --store flag. minio:// reads its credentials from
// MINIO_ACCESS_KEY and MINIO_SECRET_KEY.
func (f *storeFlags) open(ctx context.Context) (blobstore.BlobStore, error) {
	if f.url == "" {
		return nil, errors.New("--store is required")
	}
	if !strings.Contains(f.url, "://") {
		return blobstore.NewLocalStore(f.url), nil
	}

	u, err := url.Parse(f.url)
	if err != nil {
		return nil, fmt.Errorf("invalid --store: %w", err)
	}
	prefix := strings.TrimPrefix(u.Path, "/")

	switch u.Scheme {
	case "file":
		return blobstore.NewLocalStore(u.Host + u.Path), nil
	case "s3":
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3.NewStore(awss3.NewFromConfig(cfg), u.Host, prefix), nil
	case "minio":
		client, err := miniogo.New(f.minioEndpoint, &miniogo.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: !f.minioInsecure,
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		return minio.NewStore(client, u.Host, prefix), nil
	default:
		return nil, fmt.Errorf("unsupported store scheme %q", u.Scheme)
	}
}

func runExport(ctx context.Context, e *env, args []string) error {
	var sf storeFlags
	var input, name, compression string

	flagSet := newFlagSet("export", e)
	sf.add(flagSet)
	flagSet.StringVarP(&input, "input", "i", "", "read JSON lines from this file instead of stdin")
	flagSet.StringVar(&name, "name", "data", "data file name, without extension")
	flagSet.StringVarP(&compression, "compression", "c", "gzip", "none, gzip, zstd or lz4")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	comp, err := export.ParseCompression(compression)
	if err != nil {
		return err
	}
	logger, err := e.logger()
	if err != nil {
		return err
	}
	store, err := sf.open(ctx)
	if err != nil {
		return err
	}

	data, err := readInput(e, input)
	if err != nil {
		return err
	}

	w := export.NewWriter(store, "", export.WithCompression(comp), export.WithLogger(logger))
	fw, err := w.Create(ctx, name)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		v, err := value.Parse(line)
		if err == nil {
			err = fw.Write(v)
		}
		if err != nil {
			_ = fw.Close()
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		_ = fw.Close()
		return err
	}
	if err := fw.Close(); err != nil {
		return err
	}
	return w.Finish(ctx)
}

func runCat(ctx context.Context, e *env, args []string) error {
	var sf storeFlags
	var prefix string
	var concurrency int

	flagSet := newFlagSet("cat", e)
	sf.add(flagSet)
	flagSet.StringVar(&prefix, "prefix", "", "only read export files below this prefix")
	flagSet.IntVar(&concurrency, "concurrency", 4, "number of files read in parallel")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	logger, err := e.logger()
	if err != nil {
		return err
	}
	store, err := sf.open(ctx)
	if err != nil {
		return err
	}

	r := export.NewReader(store, export.WithConcurrency(concurrency), export.WithLogger(logger))
	var mu sync.Mutex
	return r.Each(ctx, prefix, func(rec export.Record) error {
		data, err := value.Marshal(rec.Item)
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		_, err = fmt.Fprintf(e.stdout, "%s\n", data)
		return err
	})
}
