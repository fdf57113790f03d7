package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCompact(t *testing.T) {
	out, err := Marshal(map[string]any{"b": []int{1, 2}, "a": "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":[1,2]}`, string(out))
}

func TestMarshalNumber(t *testing.T) {
	out, err := Marshal([]any{Number("1.50"), Number("7")})
	require.NoError(t, err)
	assert.Equal(t, `[1.50,7]`, string(out))
}

func TestUnmarshal(t *testing.T) {
	var v map[string]any
	require.NoError(t, UnmarshalFromString(`{"a":1,"b":"c"}`, &v))
	assert.Equal(t, float64(1), v["a"])
	assert.Equal(t, "c", v["b"])

	assert.Error(t, Unmarshal([]byte(`{invalid json}`), &v))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid([]byte(` {"a":[1,2,{"b":null}]} `)))
	assert.True(t, Valid([]byte(`"plain"`)))
	assert.False(t, Valid([]byte(`{"a":1}}`)))
	assert.False(t, Valid([]byte(`not valid text`)))
	assert.False(t, Valid([]byte(``)))
}
