package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidatesPlainArray(t *testing.T) {
	raw := `[{"title":"T","author":"A","genre":"G","reason":"R"}]`
	got, err := ParseCandidates(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Candidate{Title: "T", Author: "A", Genre: "G", Reason: "R"}, got[0])
}

func TestParseCandidatesStripsCodeFences(t *testing.T) {
	fenced := "```json\n[{\"title\":\"T\",\"author\":\"A\",\"genre\":\"G\",\"reason\":\"R\"}]\n```"
	got, err := ParseCandidates(fenced)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T", got[0].Title)

	bare := "```\n[{\"title\":\"T\",\"author\":\"A\",\"genre\":\"G\",\"reason\":\"R\"}]\n```"
	got, err = ParseCandidates(bare)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestParseCandidatesExtractsArrayFromProse(t *testing.T) {
	raw := `Here are some books you might like:
[{"title":"T","author":"A","genre":"G","reason":"R"}]
Hope that helps!`
	got, err := ParseCandidates(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "R", got[0].Reason)
}

func TestParseCandidatesIgnoresBracketsInsideStrings(t *testing.T) {
	raw := `[{"title":"The [Annotated] Hobbit","author":"Tolkien","genre":"Fantasy","reason":"Classic [still]"}]`
	got, err := ParseCandidates(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "The [Annotated] Hobbit", got[0].Title)
}

func TestParseCandidatesDefaultsGenre(t *testing.T) {
	raw := `[{"title":"T","author":"A","reason":"R"}]`
	got, err := ParseCandidates(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "General", got[0].Genre)
}

func TestParseCandidatesFiltersIncompleteElements(t *testing.T) {
	raw := `[
		{"title":"Kept","author":"A","genre":"G","reason":"R"},
		{"title":"","author":"A","reason":"R"},
		{"title":"NoAuthor","reason":"R"},
		{"title":"NoReason","author":"A"}
	]`
	got, err := ParseCandidates(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kept", got[0].Title)
}

func TestParseCandidatesFailureModes(t *testing.T) {
	cases := map[string]string{
		"not_an_array":       `{"title":"T","author":"A","reason":"R"}`,
		"no_json_at_all":     "I cannot recommend any books right now.",
		"empty_array":        `[]`,
		"all_missing_reason": `[{"title":"T","author":"A"},{"title":"U","author":"B"}]`,
		"invalid_json":       `[{"title": "T",]`,
		"empty_input":        "",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCandidates(raw)
			assert.ErrorIs(t, err, ErrNoCandidates)
		})
	}
}
