package recommender

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vishalm342/ShelfSense/catalog"
	"github.com/vishalm342/ShelfSense/models"
)

type stubLibrary struct {
	entries []models.LibraryEntry
	err     error
}

func (s stubLibrary) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.LibraryEntry, error) {
	return s.entries, s.err
}

type stubModel struct {
	candidates []Candidate
}

func (s stubModel) Recommend(ctx context.Context, p *Profile) []Candidate {
	return s.candidates
}

func fantasyLibrary(n int) []models.LibraryEntry {
	entries := make([]models.LibraryEntry, 0, n)
	for i := 0; i < n; i++ {
		cats := []string{"Fantasy"}
		if i == 2 {
			cats = []string{"Sci-Fi"}
		}
		entries = append(entries, entry(fmt.Sprintf("Book %d", i), []string{"Author"}, cats, 4.0, 300))
	}
	return entries
}

func TestGateBlocksSmallLibraries(t *testing.T) {
	for n := 0; n < MinLibrarySize; n++ {
		svc := NewService(
			stubLibrary{entries: fantasyLibrary(n)},
			&stubSearcher{},
			stubModel{candidates: []Candidate{{Title: "T", Author: "A", Reason: "R"}}},
		)

		res := svc.RecommendationsForUser(context.Background(), primitive.NewObjectID())
		assert.Empty(t, res.Recommendations, "n=%d", n)
		assert.Empty(t, res.Source, "n=%d", n)
		assert.NotEmpty(t, res.Message, "n=%d", n)
		require.NotNil(t, res.UserProfile, "n=%d", n)
		assert.Equal(t, n, res.UserProfile.TotalBooks, "n=%d", n)
		assert.Empty(t, res.UserProfile.TopGenres, "n=%d", n)
	}
}

func TestAIPoweredPath(t *testing.T) {
	candidates := make([]Candidate, 0, 10)
	byQuery := map[string][]catalog.Book{}
	for i := 0; i < 10; i++ {
		title := fmt.Sprintf("Rec %d", i)
		candidates = append(candidates, Candidate{
			Title:  title,
			Author: "Author",
			Genre:  "Fantasy",
			Reason: fmt.Sprintf("reason %d", i),
		})
		byQuery[title] = []catalog.Book{{ExternalID: fmt.Sprintf("v%d", i), Title: title}}
	}

	svc := NewService(
		stubLibrary{entries: fantasyLibrary(5)},
		&stubSearcher{byQuery: byQuery},
		stubModel{candidates: candidates},
	)

	res := svc.RecommendationsForUser(context.Background(), primitive.NewObjectID())
	assert.Equal(t, SourceAI, res.Source)
	assert.LessOrEqual(t, len(res.Recommendations), 10)
	require.Len(t, res.Recommendations, 10)
	for _, r := range res.Recommendations {
		assert.NotEmpty(t, r.Reason)
	}
	require.NotNil(t, res.UserProfile)
	assert.Equal(t, 5, res.UserProfile.TotalBooks)
	assert.Equal(t, []string{"Fantasy", "Sci-Fi"}, res.UserProfile.TopGenres)
}

func TestGenreFallbackWhenModelReturnsNothing(t *testing.T) {
	fallbackBooks := []catalog.Book{
		{ExternalID: "g1", Title: "Popular 1"},
		{ExternalID: "g2", Title: "Popular 2"},
		{ExternalID: "g3", Title: "Popular 3"},
		{ExternalID: "g4", Title: "Popular 4"},
	}
	searcher := &stubSearcher{byQuery: map[string][]catalog.Book{
		"Fantasy books highly rated": fallbackBooks,
	}}

	svc := NewService(
		stubLibrary{entries: fantasyLibrary(5)},
		searcher,
		stubModel{}, // both model tiers failed upstream
	)

	res := svc.RecommendationsForUser(context.Background(), primitive.NewObjectID())
	assert.Equal(t, SourceGenre, res.Source)
	require.Len(t, res.Recommendations, 4)
	for _, r := range res.Recommendations {
		assert.Contains(t, r.Reason, "Popular Fantasy book")
		assert.Equal(t, "Fantasy", r.Genre)
	}
	assert.Equal(t, []string{"Fantasy books highly rated"}, searcher.queries)
}

func TestGenreFallbackWithoutGenreSignalUsesGenericQuery(t *testing.T) {
	searcher := &stubSearcher{byQuery: map[string][]catalog.Book{
		"bestseller books highly rated": {{ExternalID: "b1", Title: "Bestseller"}},
	}}

	entries := []models.LibraryEntry{
		entry("1", nil, nil, 0, 0),
		entry("2", nil, nil, 0, 0),
		entry("3", nil, nil, 0, 0),
	}
	svc := NewService(stubLibrary{entries: entries}, searcher, stubModel{})

	res := svc.RecommendationsForUser(context.Background(), primitive.NewObjectID())
	assert.Equal(t, SourceGenre, res.Source)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "General", res.Recommendations[0].Genre)
}

func TestTotalFailure(t *testing.T) {
	svc := NewService(
		stubLibrary{entries: fantasyLibrary(5)},
		&stubSearcher{}, // catalog returns nothing either
		stubModel{},
	)

	res := svc.RecommendationsForUser(context.Background(), primitive.NewObjectID())
	assert.Equal(t, SourceFailed, res.Source)
	assert.Empty(t, res.Recommendations)
	assert.NotEmpty(t, res.Message)
}

func TestLibraryLoadFailureReturnsErrorEnvelope(t *testing.T) {
	svc := NewService(
		stubLibrary{err: errors.New("mongo down")},
		&stubSearcher{},
		stubModel{},
	)

	res := svc.RecommendationsForUser(context.Background(), primitive.NewObjectID())
	assert.Equal(t, SourceError, res.Source)
	assert.Empty(t, res.Recommendations)
	assert.NotEmpty(t, res.Message)
	assert.NotContains(t, res.Message, "mongo")
}

type panickyModel struct{}

func (panickyModel) Recommend(ctx context.Context, p *Profile) []Candidate {
	panic("integration bug")
}

func TestPanicIsCaughtAtTheBoundary(t *testing.T) {
	svc := NewService(
		stubLibrary{entries: fantasyLibrary(5)},
		&stubSearcher{},
		panickyModel{},
	)

	res := svc.RecommendationsForUser(context.Background(), primitive.NewObjectID())
	assert.Equal(t, SourceError, res.Source)
	assert.Empty(t, res.Recommendations)
	assert.NotEmpty(t, res.Message)
	assert.NotContains(t, res.Message, "integration bug")
}
