package export

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/hupe1980/avjson"
	"github.com/hupe1980/avjson/blobstore"
	"github.com/hupe1980/avjson/value"
	"github.com/hupe1980/avjson/wire"
	"golang.org/x/sync/errgroup"
)

// Record is one decoded export item.
type Record struct {
	File  string
	Line  int
	Item  value.Object
	codec *avjson.Codec
}

// Decode fills out from the record's item using the reader's codec.
func (r Record) Decode(out any) error {
	return r.codec.FromValue(r.Item, out)
}

// LineError reports a data file line that could not be parsed or decoded.
type LineError struct {
	File  string
	Line  int
	cause error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("export: %s:%d: %v", e.File, e.Line, e.cause)
}

func (e *LineError) Unwrap() error { return e.cause }

// Reader reads export data files.
type Reader struct {
	store blobstore.BlobStore
	opts  options
}

// NewReader creates a Reader over store.
func NewReader(store blobstore.BlobStore, optFns ...Option) *Reader {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Reader{store: store, opts: opts}
}

// Files returns the data files of the export under prefix. The manifest is
// used when present, otherwise every file with a data file extension.
func (r *Reader) Files(ctx context.Context, prefix string) ([]string, error) {
	blob, err := r.store.Open(ctx, path.Join(prefix, ManifestName))
	switch {
	case err == nil:
		defer func() { _ = blob.Close() }()
		return r.manifestFiles(ctx, blob)
	case !errors.Is(err, blobstore.ErrNotFound):
		return nil, err
	}

	names, err := r.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	files := names[:0]
	for _, name := range names {
		if _, ok := compressionForFile(name); ok && !strings.HasSuffix(name, ManifestName) {
			files = append(files, name)
		}
	}
	return files, nil
}

func (r *Reader) manifestFiles(ctx context.Context, blob blobstore.Blob) ([]string, error) {
	rc, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var files []string
	sc := bufio.NewScanner(rc)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		var e ManifestEntry
		if err := gojson.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("export: manifest: %w", err)
		}
		files = append(files, e.DataFileKey)
	}
	return files, sc.Err()
}

// Each decodes every item of the export under prefix and calls fn for it.
// Files are decoded in parallel, but fn is never called concurrently. The
// first error stops the walk and is returned.
func (r *Reader) Each(ctx context.Context, prefix string, fn func(Record) error) error {
	files, err := r.Files(ctx, prefix)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.concurrency)
	for _, name := range files {
		g.Go(func() error {
			return r.ReadFile(gctx, name, func(rec Record) error {
				mu.Lock()
				defer mu.Unlock()
				return fn(rec)
			})
		})
	}
	return g.Wait()
}

// ReadFile decodes the items of a single data file in order.
func (r *Reader) ReadFile(ctx context.Context, name string, fn func(Record) error) error {
	c, ok := compressionForFile(name)
	if !ok {
		return fmt.Errorf("export: %s is not a data file", name)
	}

	blob, err := r.store.Open(ctx, name)
	if err != nil {
		return err
	}
	defer func() { _ = blob.Close() }()

	raw, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return err
	}
	defer func() { _ = raw.Close() }()

	zr, err := c.newReader(raw)
	if err != nil {
		return &LineError{File: name, cause: err}
	}
	defer func() { _ = zr.Close() }()

	count, err := r.scan(ctx, name, zr, fn)
	r.opts.logger.WithFile(name).LogExport(ctx, "read", count, err)
	return err
}

func (r *Reader) scan(ctx context.Context, name string, rd io.Reader, fn func(Record) error) (int, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), r.opts.maxLineSize)

	count, lineNo := 0, 0
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}

		var l line
		if err := gojson.Unmarshal(sc.Bytes(), &l); err != nil {
			return count, &LineError{File: name, Line: lineNo, cause: err}
		}
		if l.Item == nil {
			return count, &LineError{File: name, Line: lineNo, cause: errors.New(`missing "Item"`)}
		}
		obj, err := r.opts.codec.DecodeWireItem(l.Item)
		if err != nil {
			return count, &LineError{File: name, Line: lineNo, cause: err}
		}
		if err := fn(Record{File: name, Line: lineNo, Item: obj, codec: r.opts.codec}); err != nil {
			return count, err
		}
		count++
	}
	if err := sc.Err(); err != nil {
		return count, &LineError{File: name, Line: lineNo + 1, cause: err}
	}
	return count, nil
}

// Wire parses a single export line without decoding it, for callers that
// want the raw attribute values.
func Wire(data []byte) (wire.Item, error) {
	var l line
	if err := gojson.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return l.Item, nil
}
