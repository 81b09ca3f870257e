package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberConstructors(t *testing.T) {
	assert.Equal(t, Number("-42"), Int(-42))
	assert.Equal(t, Number("18446744073709551615"), Uint(math.MaxUint64))

	n, err := Float(1.0)
	require.NoError(t, err)
	assert.Equal(t, Number("1"), n)

	n, err = Float(0.5)
	require.NoError(t, err)
	assert.Equal(t, Number("0.5"), n)

	_, err = Float(math.NaN())
	assert.ErrorIs(t, err, ErrNonFinite)
	_, err = Float(math.Inf(1))
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestNumberAccessors(t *testing.T) {
	f, err := Number("2.5").Float64()
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	i, err := Number("12").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(12), i)

	_, err = Number("12.5").Int64()
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	v, err := Parse([]byte(`{"a":[1,2.50,"x",null,true],"b":{}}`))
	require.NoError(t, err)
	assert.Equal(t, Object{
		"a": Array{Number("1"), Number("2.50"), String("x"), Null{}, Bool(true)},
		"b": Object{},
	}, v)

	_, err = Parse([]byte(`{"a":`))
	assert.Error(t, err)

	for _, bad := range []string{`1 2`, `5]`, `5}`, `01`, `-01.5`, `{"a":1}}`, `[1]]`, `1.`, `+1`, ``} {
		_, err = Parse([]byte(bad))
		assert.ErrorIs(t, err, ErrInvalidJSON, bad)
	}

	v, err = Parse([]byte(" -0.5e+10\n"))
	require.NoError(t, err)
	assert.Equal(t, Number("-0.5e+10"), v)
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(Object{"n": Number("1.50"), "l": Array{Null{}, String("")}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1.50,"l":[null,""]}`, string(data))
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"i":  7,
		"u":  uint8(3),
		"f":  0.25,
		"jn": json.Number("9.75"),
		"s":  "x",
		"b":  false,
		"n":  nil,
		"l":  []any{int64(1), String("already")},
	})
	require.NoError(t, err)
	assert.Equal(t, Object{
		"i":  Number("7"),
		"u":  Number("3"),
		"f":  Number("0.25"),
		"jn": Number("9.75"),
		"s":  String("x"),
		"b":  Bool(false),
		"n":  Null{},
		"l":  Array{Number("1"), String("already")},
	}, v)

	_, err = FromAny(struct{}{})
	var ute *UnsupportedTypeError
	assert.ErrorAs(t, err, &ute)

	_, err = FromAny([]any{math.Inf(-1)})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestToAny(t *testing.T) {
	got := ToAny(Object{"n": Number("1"), "a": Array{Bool(true), Null{}}})
	assert.Equal(t, map[string]any{
		"n": json.Number("1"),
		"a": []any{true, nil},
	}, got)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Number("1"), Number("1.0")))
	assert.True(t, Equal(Number("1e2"), Number("100")))
	assert.False(t, Equal(Number("1"), Number("2")))
	assert.False(t, Equal(Number("1"), String("1")))
	assert.True(t, Equal(Object{"a": Array{Number("0")}}, Object{"a": Array{Number("0.0")}}))
	assert.False(t, Equal(Object{"a": Null{}}, Object{"b": Null{}}))
	assert.False(t, Equal(Array{Null{}}, Array{Null{}, Null{}}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(Null{}, nil))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "number", Kind(Int(1)))
	assert.Equal(t, "object", Kind(Object{}))
	assert.Equal(t, "nil", Kind(nil))
}

func TestMarshalJSON_NestedValues(t *testing.T) {
	in := map[string]any{
		"n": Number("5"),
		"z": Null{},
		"l": Array{Int(1), Null{}, String("x")},
		"o": Object{"f": Number("1.50"), "b": Bool(true)},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":5,"z":null,"l":[1,null,"x"],"o":{"f":1.50,"b":true}}`, string(data))

	_, err = json.Marshal(map[string]any{"n": Number("five")})
	assert.Error(t, err)
}

func TestHolder(t *testing.T) {
	type event struct {
		ID      string `json:"id"`
		Payload Holder `json:"payload"`
	}

	in := event{ID: "e1", Payload: Holder{Value: Object{"n": Number("1.50"), "z": Null{}}}}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"e1","payload":{"n":1.50,"z":null}}`, string(data))

	var out event
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, Object{"n": Number("1.50"), "z": Null{}}, out.Payload.Value)

	data, err = json.Marshal(event{ID: "e2"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"e2","payload":null}`, string(data))

	v, err := FromAny(Holder{Value: Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, Bool(true), v)
}
