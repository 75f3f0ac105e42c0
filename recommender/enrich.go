package recommender

import (
	"context"
	"sync"

	"github.com/vishalm342/ShelfSense/catalog"
	"github.com/vishalm342/ShelfSense/internal/logger"
)

// Searcher is the catalog capability the recommender needs. catalog.Client
// satisfies it; tests substitute stubs, and a caching or throttling decorator
// can wrap it without touching orchestration logic.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) []catalog.Book
}

// Recommendation is the final user-facing unit: an enriched catalog record
// with the model's rationale and genre carried over from its candidate.
type Recommendation struct {
	catalog.Book
	Genre  string `json:"genre"`
	Reason string `json:"reason"`
}

// Enrich looks up the best catalog match for every candidate title. The
// lookups run concurrently and join before returning. Each candidate stays
// keyed to its own lookup result, so a dropped title can never shift another
// candidate's reason onto the wrong book. Candidates with no match are
// dropped; the output may be shorter than the input.
func Enrich(ctx context.Context, cat Searcher, candidates []Candidate) []Recommendation {
	matches := make([]*catalog.Book, len(candidates))

	var wg sync.WaitGroup
	for i, cand := range candidates {
		wg.Add(1)
		go func(i int, cand Candidate) {
			defer wg.Done()
			// One misbehaving lookup must not sink the batch.
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorWithFields("enrichment lookup panicked", logger.Fields{
						"title": cand.Title,
						"panic": r,
					})
				}
			}()

			books := cat.Search(ctx, cand.Title, 1)
			if len(books) > 0 {
				matches[i] = &books[0]
			}
		}(i, cand)
	}
	wg.Wait()

	out := make([]Recommendation, 0, len(candidates))
	for i, cand := range candidates {
		if matches[i] == nil {
			continue
		}
		out = append(out, Recommendation{
			Book:   *matches[i],
			Genre:  cand.Genre,
			Reason: cand.Reason,
		})
	}
	return out
}
