package ai

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObject(t *testing.T) {
	fence := "```"

	cases := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{"json fence", "Here you go:\n" + fence + "json\n{\"a\":1}\n" + fence, map[string]any{"a": float64(1)}},
		{"json fence uppercase", fence + "JSON\n{\"a\":2}" + fence, map[string]any{"a": float64(2)}},
		{"json fence wins over earlier plain fence", fence + "\nnot it\n" + fence + "\n" + fence + "json\n{\"a\":3}\n" + fence, map[string]any{"a": float64(3)}},
		{"untagged fence", "Result\n" + fence + "\n{\"a\":4}\n" + fence, map[string]any{"a": float64(4)}},
		{"other language tag stripped", fence + "javascript\n{\"a\":5}\n" + fence, map[string]any{"a": float64(5)}},
		{"braces only", "{\"a\":1} trailing text", map[string]any{"a": float64(1)}},
		{"braces with prose both sides", "Sure! {\"a\":{\"b\":[1,2]}} hope it helps", map[string]any{"a": map[string]any{"b": []any{float64(1), float64(2)}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got map[string]any
			require.NoError(t, ParseObject("test", tc.raw, &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseObject_Errors(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		var got map[string]any
		err := ParseObject("copy", "I could not do that, sorry.", &got)

		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "copy", perr.Stage)
		assert.Equal(t, "I could not do that, sorry.", perr.Excerpt)
		assert.Nil(t, got)
	})

	t.Run("broken json inside fence", func(t *testing.T) {
		var got map[string]any
		err := ParseObject("copy", "```json\n{\"a\": }\n```", &got)

		var perr *ParseError
		assert.True(t, errors.As(err, &perr))
	})

	t.Run("array is not an object", func(t *testing.T) {
		var got map[string]any
		err := ParseObject("copy", "```json\n[1,2]\n```", &got)
		assert.Error(t, err)
	})

	t.Run("excerpt is truncated", func(t *testing.T) {
		raw := strings.Repeat("あ", 300)
		var got map[string]any
		err := ParseObject("copy", raw, &got)

		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.LessOrEqual(t, len(perr.Excerpt), excerptLimit+3)
		assert.True(t, strings.HasSuffix(perr.Excerpt, "..."))
	})
}
