package generation

import (
	"testing"

	"github.com/phrazzld/cardchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Accepted(t *testing.T) {
	t.Parallel()

	want := []domain.FlashcardPair{
		{Term: "HTTP", Definition: "HyperText Transfer Protocol"},
		{Term: "TCP", Definition: "Transmission Control Protocol"},
	}

	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "bare array",
			raw:  `[{"term":"HTTP","definition":"HyperText Transfer Protocol"},{"term":"TCP","definition":"Transmission Control Protocol"}]`,
		},
		{
			name: "content wrapper",
			raw: `{"content":[{"type":"text","text":"[{\"term\":\"HTTP\",\"definition\":\"HyperText Transfer Protocol\"},` +
				`{\"term\":\"TCP\",\"definition\":\"Transmission Control Protocol\"}]"}]}`,
		},
		{
			name: "code fence",
			raw: "```json\n" +
				`[{"term":"HTTP","definition":"HyperText Transfer Protocol"},{"term":"TCP","definition":"Transmission Control Protocol"}]` +
				"\n```",
		},
		{
			name: "prose around array",
			raw: "Here are your flashcards:\n" +
				`[{"term":"HTTP","definition":"HyperText Transfer Protocol"},{"term":"TCP","definition":"Transmission Control Protocol"}]` +
				"\nGood luck!",
		},
		{
			name: "extra fields ignored",
			raw:  `[{"term":"HTTP","definition":"HyperText Transfer Protocol","hint":"web"},{"term":"TCP","definition":"Transmission Control Protocol"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pairs, err := Extract(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, want, pairs)
		})
	}
}

func TestExtract_PreservesOrderAndText(t *testing.T) {
	t.Parallel()

	pairs, err := Extract(`[
		{"term":"Zeta","definition":"last letter"},
		{"term":"Alpha","definition":"  first letter  "}
	]`)

	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "Zeta", pairs[0].Term)
	assert.Equal(t, "Alpha", pairs[1].Term)
	assert.Equal(t, "  first letter  ", pairs[1].Definition)
}

func TestExtract_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "not json", raw: "not json"},
		{name: "missing term fails whole response", raw: `[{"term":"A","definition":"B"},{"definition":"no term"}]`},
		{name: "blank definition", raw: `[{"term":"A","definition":"   "}]`},
		{name: "non-string term", raw: `[{"term":42,"definition":"B"}]`},
		{name: "null term", raw: `[{"term":null,"definition":"B"}]`},
		{name: "non-object element", raw: `[{"term":"A","definition":"B"},"C"]`},
		{name: "nested array element", raw: `[["A","B"]]`},
		{name: "object without content", raw: `{"cards":[]}`},
		{name: "wrapped text is not json", raw: `{"content":[{"type":"text","text":"sorry, I can't"}]}`},
		{name: "truncated array", raw: `[{"term":"A","definition":"B"},{"term":"C"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pairs, err := Extract(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.Nil(t, pairs)
		})
	}
}

func TestExtract_EmptyArray(t *testing.T) {
	t.Parallel()

	pairs, err := Extract("[]")

	assert.ErrorIs(t, err, domain.ErrEmptyResult)
	assert.NotErrorIs(t, err, ErrMalformedResponse)
	assert.Nil(t, pairs)
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[1]", stripCodeFence("```json\n[1]\n```"))
	assert.Equal(t, "[1]", stripCodeFence("```\n[1]```"))
	assert.Equal(t, "[1]", stripCodeFence("[1]"))
}
