package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_AbsentNullValue(t *testing.T) {
	var body struct {
		A Optional[string] `json:"a"`
		B Optional[string] `json:"b"`
		C Optional[string] `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"b": null, "c": "x"}`), &body))

	assert.False(t, body.A.Set)
	assert.True(t, body.B.Set)
	assert.Nil(t, body.B.Value)
	require.True(t, body.C.Set)
	assert.Equal(t, "x", *body.C.Value)

	n := body.B.Nullable()
	assert.True(t, n.Set)
	assert.Nil(t, n.Value)
}

func TestOptional_RejectsWrongType(t *testing.T) {
	var body struct {
		A Optional[int] `json:"a"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"a": "nope"}`), &body))
}
