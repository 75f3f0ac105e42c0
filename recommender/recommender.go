package recommender

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vishalm342/ShelfSense/internal/logger"
	"github.com/vishalm342/ShelfSense/models"
)

// Result sources. Absent source means the request never reached a
// recommendation path (insufficient library data).
const (
	SourceAI     = "AI-powered"
	SourceGenre  = "Genre-based"
	SourceFailed = "Failed"
	SourceError  = "Error"
)

// User-facing messages for non-recommendation terminal states. Internal
// diagnostics go to the log, never into these.
const (
	msgInsufficient = "Add at least 3 books to your library to get personalized recommendations."
	msgFailed       = "Unable to generate recommendations right now. Please try again later."
	msgError        = "An error occurred while generating recommendations. Please try again later."
)

// Result is the uniform envelope returned by every terminal state, so the
// HTTP layer never branches on error types.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	UserProfile     *Profile         `json:"user_profile,omitempty"`
	Source          string           `json:"source,omitempty"`
	Message         string           `json:"message,omitempty"`
}

// LibraryLister is the persistence capability the recommender reads from.
type LibraryLister interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.LibraryEntry, error)
}

// CandidateSource produces recommendation candidates for a profile.
// *ModelClient is the production implementation.
type CandidateSource interface {
	Recommend(ctx context.Context, p *Profile) []Candidate
}

// NoCandidates never produces candidates. Used when no model backend is
// configured, so every request degrades to the genre fallback.
type NoCandidates struct{}

func (NoCandidates) Recommend(ctx context.Context, p *Profile) []Candidate { return nil }

// Service orchestrates the recommendation pipeline: load library, build
// profile, gate on library size, invoke the model, enrich via the catalog,
// and degrade through the genre fallback when the model path yields nothing.
type Service struct {
	library LibraryLister
	catalog Searcher
	model   CandidateSource
}

func NewService(library LibraryLister, cat Searcher, model CandidateSource) *Service {
	return &Service{library: library, catalog: cat, model: model}
}

// RecommendationsForUser runs the full pipeline for one user. It always
// returns a well-formed Result; there is no error or panic exit path.
func (s *Service) RecommendationsForUser(ctx context.Context, userID primitive.ObjectID) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorWithFields("recommendation pipeline panicked", logger.Fields{
				"user_id": userID.Hex(),
				"panic":   fmt.Sprintf("%v", r),
				"stack":   string(debug.Stack()),
			})
			result = Result{
				Recommendations: []Recommendation{},
				Source:          SourceError,
				Message:         msgError,
			}
		}
	}()

	entries, err := s.library.ListByUser(ctx, userID)
	if err != nil {
		logger.ErrorWithFields("failed to load library for recommendations", logger.Fields{
			"user_id": userID.Hex(),
			"error":   err.Error(),
		})
		return Result{
			Recommendations: []Recommendation{},
			Source:          SourceError,
			Message:         msgError,
		}
	}

	profile := BuildProfile(entries)
	if profile == nil {
		return Result{
			Recommendations: []Recommendation{},
			UserProfile:     &Profile{TotalBooks: len(entries)},
			Message:         msgInsufficient,
		}
	}

	candidates := s.model.Recommend(ctx, profile)
	if len(candidates) > 0 {
		recs := Enrich(ctx, s.catalog, candidates)
		logger.InfoWithFields("recommendations generated", logger.Fields{
			"user_id":    userID.Hex(),
			"source":     SourceAI,
			"candidates": len(candidates),
			"enriched":   len(recs),
		})
		return Result{
			Recommendations: recs,
			UserProfile:     profile,
			Source:          SourceAI,
		}
	}

	return s.genreFallback(ctx, userID, profile)
}

// genreFallback queries the catalog directly with a query derived from the
// user's top genre, attaching a generic rationale to each hit.
func (s *Service) genreFallback(ctx context.Context, userID primitive.ObjectID, profile *Profile) Result {
	genre := ""
	if len(profile.TopGenres) > 0 {
		genre = profile.TopGenres[0]
	}

	query := "bestseller books highly rated"
	if genre != "" {
		query = fmt.Sprintf("%s books highly rated", genre)
	}

	books := s.catalog.Search(ctx, query, 10)
	if len(books) == 0 {
		logger.WarnWithFields("genre fallback returned no results", logger.Fields{
			"user_id": userID.Hex(),
			"query":   query,
		})
		return Result{
			Recommendations: []Recommendation{},
			UserProfile:     profile,
			Source:          SourceFailed,
			Message:         msgFailed,
		}
	}

	reason := "Popular highly rated book you might enjoy."
	recGenre := "General"
	if genre != "" {
		reason = fmt.Sprintf("Popular %s book you might enjoy based on your reading taste.", genre)
		recGenre = genre
	}

	recs := make([]Recommendation, 0, len(books))
	for _, b := range books {
		recs = append(recs, Recommendation{
			Book:   b,
			Genre:  recGenre,
			Reason: reason,
		})
	}

	logger.InfoWithFields("recommendations generated", logger.Fields{
		"user_id": userID.Hex(),
		"source":  SourceGenre,
		"count":   len(recs),
	})
	return Result{
		Recommendations: recs,
		UserProfile:     profile,
		Source:          SourceGenre,
	}
}
