package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain JSON untouched", `{"summary":"Meeting"}`, `{"summary":"Meeting"}`},
		{"fenced with json tag", "```json\n{\"summary\":\"Meeting\"}\n```", `{"summary":"Meeting"}`},
		{"fenced without tag", "```\n{\"summary\":\"Meeting\"}\n```", `{"summary":"Meeting"}`},
		{"fence glued to content", "```json{\"summary\":\"Meeting\"}```", `{"summary":"Meeting"}`},
		{"surrounding whitespace", "  \n```json\n{}\n```\n  ", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestParseEvent(t *testing.T) {
	t.Run("parses a fenced extraction", func(t *testing.T) {
		raw := "```json\n{\"summary\":\"Dinner\",\"start\":{\"date\":\"2026-09-01\"},\"end\":{\"date\":\"2026-09-01\"}}\n```"

		ev, err := ParseEvent(raw)
		require.NoError(t, err)
		assert.Equal(t, "Dinner", ev.Summary)
		require.NotNil(t, ev.Start)
		assert.Equal(t, "2026-09-01", ev.Start.Date)
	})

	t.Run("keeps the raw text on unparsable output", func(t *testing.T) {
		raw := "Sorry, I could not find any schedule information."

		_, err := ParseEvent(raw)
		require.Error(t, err)

		var unparsable *UnparsableOutputError
		require.True(t, errors.As(err, &unparsable))
		assert.Equal(t, raw, unparsable.Raw)
	})
}
