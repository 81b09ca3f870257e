package export

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	gojson "github.com/goccy/go-json"
	"github.com/hupe1980/avjson/blobstore"
	"github.com/hupe1980/avjson/wire"
)

// ManifestName is the name of the per-export manifest listing data files.
const ManifestName = "manifest-files.json"

// ManifestEntry describes one data file of an export.
type ManifestEntry struct {
	ItemCount   int    `json:"itemCount"`
	DataFileKey string `json:"dataFileS3Key"`
}

// line is the JSON shape of one exported item.
type line struct {
	Item wire.Item `json:"Item"`
}

// Writer writes export data files under a prefix.
type Writer struct {
	store  blobstore.BlobStore
	prefix string
	opts   options

	mu      sync.Mutex
	entries []ManifestEntry
}

// NewWriter creates a Writer storing files below prefix (e.g. "data/").
func NewWriter(store blobstore.BlobStore, prefix string, optFns ...Option) *Writer {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Writer{store: store, prefix: prefix, opts: opts}
}

// Create starts a new data file. The compression extension is appended to
// name + ".json".
func (w *Writer) Create(ctx context.Context, name string) (*FileWriter, error) {
	key := path.Join(w.prefix, name+".json"+w.opts.compression.Ext())

	blob, err := w.store.Create(ctx, key)
	if err != nil {
		return nil, err
	}
	zw, err := w.opts.compression.newWriter(blob)
	if err != nil {
		_ = blob.Close()
		return nil, err
	}
	return &FileWriter{
		ctx:    ctx,
		parent: w,
		key:    key,
		blob:   blob,
		zw:     zw,
		buf:    bufio.NewWriter(zw),
	}, nil
}

// Finish writes the manifest for all closed data files.
func (w *Writer) Finish(ctx context.Context) error {
	w.mu.Lock()
	entries := append([]ManifestEntry(nil), w.entries...)
	w.mu.Unlock()

	var buf bytes.Buffer
	for _, e := range entries {
		data, err := gojson.Marshal(e)
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return w.store.Put(ctx, path.Join(w.prefix, ManifestName), buf.Bytes())
}

// Entries returns the manifest entries of all closed data files.
func (w *Writer) Entries() []ManifestEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]ManifestEntry(nil), w.entries...)
}

func (w *Writer) addEntry(e ManifestEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, e)
}

// FileWriter appends items to one data file. It is not safe for concurrent use.
type FileWriter struct {
	ctx    context.Context
	parent *Writer
	key    string
	blob   blobstore.WritableBlob
	zw     interface{ Close() error }
	buf    *bufio.Writer
	count  int
	closed bool
}

// Key returns the blob name of the data file.
func (f *FileWriter) Key() string { return f.key }

// Write encodes v, which must serialize to an object, and appends it.
func (f *FileWriter) Write(v any) error {
	fields, err := f.parent.opts.codec.ToFields(v)
	if err != nil {
		return err
	}
	return f.WriteFields(fields)
}

// WriteFields appends an already encoded field map.
func (f *FileWriter) WriteFields(fields map[string]types.AttributeValue) error {
	if f.closed {
		return fmt.Errorf("export: write to closed file %s", f.key)
	}
	item, err := wire.FromSDKItem(fields)
	if err != nil {
		return err
	}
	data, err := gojson.Marshal(line{Item: item})
	if err != nil {
		return err
	}
	if _, err := f.buf.Write(data); err != nil {
		return err
	}
	if err := f.buf.WriteByte('\n'); err != nil {
		return err
	}
	f.count++
	return nil
}

// Close flushes the file and records it in the manifest.
func (f *FileWriter) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	err := f.buf.Flush()
	if cerr := f.zw.Close(); err == nil {
		err = cerr
	}
	if cerr := f.blob.Close(); err == nil {
		err = cerr
	}
	f.parent.opts.logger.WithFile(f.key).LogExport(f.ctx, "write", f.count, err)
	if err != nil {
		return err
	}
	f.parent.addEntry(ManifestEntry{ItemCount: f.count, DataFileKey: f.key})
	return nil
}
