package recommender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalm342/ShelfSense/config"
)

type generatorCall struct {
	Model  string
	Prompt string
}

// stubGenerator returns canned responses (or errors) per model name and
// records every call.
type stubGenerator struct {
	calls     []generatorCall
	responses map[string]string
	errs      map[string]error
}

func (g *stubGenerator) GenerateText(ctx context.Context, model, prompt string) (*Generation, error) {
	g.calls = append(g.calls, generatorCall{Model: model, Prompt: prompt})
	if err := g.errs[model]; err != nil {
		return nil, err
	}
	return &Generation{Text: g.responses[model], ModelVersion: model + "-001"}, nil
}

func testModelConfig() config.RecommenderConfig {
	return config.RecommenderConfig{
		PrimaryModel:  "primary-model",
		FallbackModel: "fallback-model",
	}
}

func testProfile() *Profile {
	return &Profile{
		TotalBooks:      5,
		TopGenres:       []string{"Fantasy", "Sci-Fi"},
		FavoriteAuthors: []string{"Le Guin"},
		RecentBooks:     []RecentBook{{Title: "A Wizard of Earthsea", Author: "Le Guin", Genre: "Fantasy"}},
		AvgRating:       4.2,
		AvgPageCount:    320,
	}
}

const validResponse = `[{"title":"T","author":"A","genre":"G","reason":"R"}]`

func TestRecommendUsesPrimaryOnSuccess(t *testing.T) {
	gen := &stubGenerator{responses: map[string]string{"primary-model": validResponse}}
	client := NewModelClient(gen, testModelConfig(), nil)

	got := client.Recommend(context.Background(), testProfile())
	require.Len(t, got, 1)
	require.Len(t, gen.calls, 1)
	assert.Equal(t, "primary-model", gen.calls[0].Model)
}

func TestRecommendFallsBackWithIdenticalPrompt(t *testing.T) {
	gen := &stubGenerator{
		errs:      map[string]error{"primary-model": errors.New("quota exceeded")},
		responses: map[string]string{"fallback-model": validResponse},
	}
	client := NewModelClient(gen, testModelConfig(), nil)

	got := client.Recommend(context.Background(), testProfile())
	require.Len(t, got, 1)
	require.Len(t, gen.calls, 2)
	assert.Equal(t, "primary-model", gen.calls[0].Model)
	assert.Equal(t, "fallback-model", gen.calls[1].Model)
	assert.Equal(t, gen.calls[0].Prompt, gen.calls[1].Prompt)
}

func TestRecommendParseFailureEscalatesLikeInvocationError(t *testing.T) {
	gen := &stubGenerator{responses: map[string]string{
		"primary-model":  "I'm sorry, I cannot help with that.",
		"fallback-model": validResponse,
	}}
	client := NewModelClient(gen, testModelConfig(), nil)

	got := client.Recommend(context.Background(), testProfile())
	require.Len(t, got, 1)
	require.Len(t, gen.calls, 2)
}

func TestRecommendBothTiersFailReturnsEmpty(t *testing.T) {
	gen := &stubGenerator{errs: map[string]error{
		"primary-model":  errors.New("network timeout"),
		"fallback-model": errors.New("rate limited"),
	}}
	client := NewModelClient(gen, testModelConfig(), nil)

	got := client.Recommend(context.Background(), testProfile())
	assert.Empty(t, got)
	assert.Len(t, gen.calls, 2)
}

func TestRecommendDailyQuotaExhaustedSkipsCalls(t *testing.T) {
	gen := &stubGenerator{responses: map[string]string{"primary-model": validResponse}}
	cfg := testModelConfig()
	cfg.Quota.RequestsPerDay = 1
	client := NewModelClient(gen, cfg, nil)

	first := client.Recommend(context.Background(), testProfile())
	require.Len(t, first, 1)

	// Second request has no daily quota left for either tier.
	second := client.Recommend(context.Background(), testProfile())
	assert.Empty(t, second)
	assert.Len(t, gen.calls, 1)
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	p := testProfile()
	a := BuildPrompt(p)
	b := BuildPrompt(p)
	assert.Equal(t, a, b)

	assert.Contains(t, a, "Books in library: 5")
	assert.Contains(t, a, "Average rating of library books: 4.2 out of 5")
	assert.Contains(t, a, "Fantasy, Sci-Fi")
	assert.Contains(t, a, "Le Guin")
	assert.Contains(t, a, `"A Wizard of Earthsea" by Le Guin (Fantasy)`)
	assert.Contains(t, a, "exactly 10")
}
