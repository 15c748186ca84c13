package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/calumari/jsonedit"
)

func TestEncodeYAML(t *testing.T) {
	t.Run("keeps key order", func(t *testing.T) {
		var buf bytes.Buffer
		doc := jsonedit.D{{Key: "zeta", Value: int64(1)}, {Key: "alpha", Value: int64(2)}}
		require.NoError(t, encodeYAML(&buf, doc))
		assert.Equal(t, "zeta: 1\nalpha: 2\n", buf.String())
	})

	t.Run("values round trip", func(t *testing.T) {
		var buf bytes.Buffer
		doc := jsonedit.D{
			{Key: "int", Value: int64(3)},
			{Key: "float", Value: 1.5},
			{Key: "bool", Value: true},
			{Key: "null", Value: nil},
			{Key: "quoted", Value: "true"},
			{Key: "list", Value: jsonedit.A{"x", int64(2)}},
			{Key: "nested", Value: jsonedit.D{{Key: "k", Value: "v"}}},
		}
		require.NoError(t, encodeYAML(&buf, doc))

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, map[string]any{
			"int":    3,
			"float":  1.5,
			"bool":   true,
			"null":   nil,
			"quoted": "true",
			"list":   []any{"x", 2},
			"nested": map[string]any{"k": "v"},
		}, got)
		assert.Less(t, strings.Index(buf.String(), "int:"), strings.Index(buf.String(), "nested:"))
	})

	t.Run("large integers are exact", func(t *testing.T) {
		var buf bytes.Buffer
		doc := jsonedit.D{
			{Key: "big", Value: int64(9007199254740993)},
			{Key: "min", Value: int64(-9223372036854775808)},
			{Key: "umax", Value: uint64(18446744073709551615)},
			{Key: "whole", Value: float64(4)},
		}
		require.NoError(t, encodeYAML(&buf, doc))
		assert.Equal(t, "big: 9007199254740993\nmin: -9223372036854775808\numax: 18446744073709551615\nwhole: 4\n", buf.String())
	})

	t.Run("empty document", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, encodeYAML(&buf, jsonedit.D{}))
		assert.Equal(t, "{}\n", buf.String())
	})

	t.Run("scalar root", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, encodeYAML(&buf, "text"))
		assert.Equal(t, "text\n", buf.String())
	})

	t.Run("other go values fall back to yaml encoding", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, encodeYAML(&buf, jsonedit.D{{Key: "m", Value: map[string]int{"a": 1}}}))
		assert.Equal(t, "m:\n  a: 1\n", buf.String())
	})
}
