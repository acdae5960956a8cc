package weakarray_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/plus3/weakref/weakarray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReferenceKind(t *testing.T) {
	k, err := weakarray.ParseReferenceKind("weak")
	require.NoError(t, err)
	assert.Equal(t, weakarray.Weak, k)

	k, err = weakarray.ParseReferenceKind("strong")
	require.NoError(t, err)
	assert.Equal(t, weakarray.Strong, k)

	_, err = weakarray.ParseReferenceKind("soft")
	assert.True(t, errors.Is(err, weakarray.ErrUnknownReferenceKind))
}

func TestReferenceKindString(t *testing.T) {
	assert.Equal(t, "weak", weakarray.Weak.String())
	assert.Equal(t, "strong", weakarray.Strong.String())
	assert.Equal(t, "ReferenceKind(9)", weakarray.ReferenceKind(9).String())
}

func TestReferenceKindJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Kind weakarray.ReferenceKind `json:"kind"`
	}{weakarray.Strong})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"strong"}`, string(data))

	var out struct {
		Kind weakarray.ReferenceKind `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"weak"}`), &out))
	assert.Equal(t, weakarray.Weak, out.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"soft"}`), &out))
}
