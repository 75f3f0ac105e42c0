package recommender

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalm342/ShelfSense/catalog"
)

// stubSearcher answers Search from a fixed title -> book map and records
// queries. Safe for concurrent use.
type stubSearcher struct {
	mu      sync.Mutex
	byQuery map[string][]catalog.Book
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string, maxResults int) []catalog.Book {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return s.byQuery[query]
}

func TestEnrichAttachesReasonToMatchingBook(t *testing.T) {
	searcher := &stubSearcher{byQuery: map[string][]catalog.Book{
		"Dune":     {{ExternalID: "v1", Title: "Dune"}},
		"Hyperion": {{ExternalID: "v2", Title: "Hyperion"}},
	}}
	candidates := []Candidate{
		{Title: "Dune", Author: "Herbert", Genre: "Sci-Fi", Reason: "sand"},
		{Title: "Hyperion", Author: "Simmons", Genre: "Sci-Fi", Reason: "pilgrims"},
	}

	got := Enrich(context.Background(), searcher, candidates)
	require.Len(t, got, 2)
	assert.Equal(t, "v1", got[0].ExternalID)
	assert.Equal(t, "sand", got[0].Reason)
	assert.Equal(t, "v2", got[1].ExternalID)
	assert.Equal(t, "pilgrims", got[1].Reason)
}

func TestEnrichDropsUnmatchedTitlesWithoutPlaceholders(t *testing.T) {
	searcher := &stubSearcher{byQuery: map[string][]catalog.Book{
		"First": {{ExternalID: "v1", Title: "First"}},
		// "Second" has no catalog match
		"Third": {{ExternalID: "v3", Title: "Third"}},
	}}
	candidates := []Candidate{
		{Title: "First", Author: "A", Genre: "G", Reason: "r1"},
		{Title: "Second", Author: "B", Genre: "G", Reason: "r2"},
		{Title: "Third", Author: "C", Genre: "G", Reason: "r3"},
	}

	got := Enrich(context.Background(), searcher, candidates)
	require.Len(t, got, 2)

	// The drop must not shift rationale onto the wrong book.
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "r1", got[0].Reason)
	assert.Equal(t, "Third", got[1].Title)
	assert.Equal(t, "r3", got[1].Reason)
}

func TestEnrichLooksUpEveryTitle(t *testing.T) {
	searcher := &stubSearcher{byQuery: map[string][]catalog.Book{}}
	candidates := []Candidate{
		{Title: "A", Author: "x", Reason: "r"},
		{Title: "B", Author: "x", Reason: "r"},
		{Title: "C", Author: "x", Reason: "r"},
	}

	got := Enrich(context.Background(), searcher, candidates)
	assert.Empty(t, got)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, searcher.queries)
}

type panickySearcher struct {
	stub stubSearcher
}

func (p *panickySearcher) Search(ctx context.Context, query string, maxResults int) []catalog.Book {
	if query == "boom" {
		panic("lookup exploded")
	}
	return p.stub.Search(ctx, query, maxResults)
}

func TestEnrichSurvivesPanickingLookup(t *testing.T) {
	searcher := &panickySearcher{stub: stubSearcher{byQuery: map[string][]catalog.Book{
		"Fine": {{ExternalID: "v1", Title: "Fine"}},
	}}}
	candidates := []Candidate{
		{Title: "boom", Author: "x", Reason: "r"},
		{Title: "Fine", Author: "y", Reason: "kept"},
	}

	got := Enrich(context.Background(), searcher, candidates)
	require.Len(t, got, 1)
	assert.Equal(t, "Fine", got[0].Title)
	assert.Equal(t, "kept", got[0].Reason)
}

func TestEnrichEmptyInput(t *testing.T) {
	got := Enrich(context.Background(), &stubSearcher{}, nil)
	assert.Empty(t, got)
}
