package export

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/hupe1980/avjson"
	"github.com/hupe1980/avjson/blobstore"
	"github.com/hupe1980/avjson/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID      string `json:"id"`
	Note    string `json:"note"`
	Counter int    `json:"counter"`
}

func TestRoundTrip_Compressions(t *testing.T) {
	for _, c := range []Compression{None, Gzip, Zstd, LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			ctx := context.Background()
			store := blobstore.NewMemoryStore()

			w := NewWriter(store, "export/data", WithCompression(c))
			fw, err := w.Create(ctx, "part-0000")
			require.NoError(t, err)
			assert.Equal(t, "export/data/part-0000.json"+c.Ext(), fw.Key())

			for i := range 3 {
				require.NoError(t, fw.Write(account{ID: fmt.Sprintf("id-%d", i), Counter: i}))
			}
			require.NoError(t, fw.Close())
			require.NoError(t, fw.Close())
			require.NoError(t, w.Finish(ctx))

			var got []account
			r := NewReader(store)
			err = r.Each(ctx, "export/data", func(rec Record) error {
				var a account
				if err := rec.Decode(&a); err != nil {
					return err
				}
				got = append(got, a)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, []account{
				{ID: "id-0", Counter: 0},
				{ID: "id-1", Counter: 1},
				{ID: "id-2", Counter: 2},
			}, got)
		})
	}
}

func TestWriter_Manifest(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	w := NewWriter(store, "data")

	for i := range 2 {
		fw, err := w.Create(ctx, fmt.Sprintf("part-%d", i))
		require.NoError(t, err)
		for range i + 1 {
			require.NoError(t, fw.WriteFields(avjson.MustFields(avjson.F("id", "x"))))
		}
		require.NoError(t, fw.Close())
	}
	require.NoError(t, w.Finish(ctx))

	assert.Equal(t, []ManifestEntry{
		{ItemCount: 1, DataFileKey: "data/part-0.json.gz"},
		{ItemCount: 2, DataFileKey: "data/part-1.json.gz"},
	}, w.Entries())

	files, err := NewReader(store).Files(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/part-0.json.gz", "data/part-1.json.gz"}, files)
}

func TestWriter_Errors(t *testing.T) {
	ctx := context.Background()
	w := NewWriter(blobstore.NewMemoryStore(), "data", WithCompression(None))
	fw, err := w.Create(ctx, "part")
	require.NoError(t, err)

	err = fw.Write(42)
	assert.ErrorIs(t, err, avjson.ErrNotObject)

	require.NoError(t, fw.Close())
	assert.Error(t, fw.WriteFields(avjson.MustFields(avjson.F("a", 1))))
}

func TestReader_ListFallbackAndMultiSlot(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	require.NoError(t, store.Put(ctx, "exp/data/a.json", []byte(
		`{"Item":{"id":{"S":"a"},"both":{"N":"1","S":"one"}}}`+"\n\n"+
			`{"Item":{"id":{"S":"b"},"empty":{"S":"\u0000"},"blob":{"B":"aGk="}}}`+"\n")))
	require.NoError(t, store.Put(ctx, "exp/data/b.json", []byte(
		`{"Item":{"id":{"S":"c"},"tags":{"SS":["x","y"]},"nums":{"NS":["1","2.5"]}}}`+"\n")))
	require.NoError(t, store.Put(ctx, "exp/manifest-summary.json", []byte(`{}`)))
	require.NoError(t, store.Put(ctx, "exp/data/readme.txt", []byte(`ignored`)))

	var items []value.Object
	err := NewReader(store, WithConcurrency(2)).Each(ctx, "exp/data/", func(rec Record) error {
		items = append(items, rec.Item)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, items, 3)

	sort.Slice(items, func(i, j int) bool {
		return items[i]["id"].(value.String) < items[j]["id"].(value.String)
	})
	assert.Equal(t, value.Number("1"), items[0]["both"])
	assert.Equal(t, value.String(""), items[1]["empty"])
	assert.Equal(t, value.String("hi"), items[1]["blob"])
	assert.Equal(t, value.Array{value.String("x"), value.String("y")}, items[2]["tags"])
	assert.Equal(t, value.Array{value.Number("1"), value.Number("2.5")}, items[2]["nums"])
}

func TestReader_LineErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		data  string
		line  int
		cause error
	}{
		{"bad json", `{"Item":{"id":{"S":"a"}}}` + "\n" + `{"Item":`, 2, nil},
		{"missing item", `{"Other":{}}`, 1, nil},
		{"empty attribute", `{"Item":{"id":{}}}`, 1, avjson.ErrEmptyAttributeValue},
		{"bad number", `{"Item":{"n":{"N":"abc"}}}`, 1, avjson.ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			require.NoError(t, store.Put(ctx, "f.json", []byte(tt.data)))

			err := NewReader(store).ReadFile(ctx, "f.json", func(Record) error { return nil })
			require.Error(t, err)

			var le *LineError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, "f.json", le.File)
			assert.Equal(t, tt.line, le.Line)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestReader_CallbackErrorStops(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "f.json", []byte(
		`{"Item":{"id":{"S":"a"}}}`+"\n"+`{"Item":{"id":{"S":"b"}}}`+"\n")))

	stop := errors.New("stop")
	calls := 0
	err := NewReader(store).Each(ctx, "", func(Record) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestReader_NotADataFile(t *testing.T) {
	err := NewReader(blobstore.NewMemoryStore()).ReadFile(context.Background(), "x.csv", func(Record) error { return nil })
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]Compression{"": None, "gzip": Gzip, "GZ": Gzip, "zstd": Zstd, "lz4": LZ4} {
		got, err := ParseCompression(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}

func TestWire(t *testing.T) {
	item, err := Wire([]byte(`{"Item":{"id":{"S":"a"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "a", *item["id"].S)
}
