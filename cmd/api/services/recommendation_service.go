package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/vishalm342/ShelfSense/internal/logger"
	"github.com/vishalm342/ShelfSense/eventbus"
	"github.com/vishalm342/ShelfSense/events"
	"github.com/vishalm342/ShelfSense/recommender"
)

// RecommendationService fronts the recommender pipeline for the API layer
// and emits an event for every terminal outcome.
type RecommendationService struct {
	rec *recommender.Service
	bus eventbus.EventBus
}

func NewRecommendationService(rec *recommender.Service, bus eventbus.EventBus) *RecommendationService {
	return &RecommendationService{rec: rec, bus: bus}
}

// RecommendationsForUser always returns a presentable result; the pipeline
// degrades to a genre fallback or an explanatory message rather than failing.
func (s *RecommendationService) RecommendationsForUser(ctx context.Context, userID string) recommender.Result {
	oid, err := parseObjectID(userID)
	if err != nil {
		// Should not happen for IDs minted by the auth layer.
		return recommender.Result{
			Recommendations: []recommender.Recommendation{},
			Source:          recommender.SourceError,
			Message:         "An error occurred while generating recommendations. Please try again later.",
		}
	}

	result := s.rec.RecommendationsForUser(ctx, oid)

	payload := events.RecommendationGeneratedEvent{
		BaseEvent: events.NewBase(uuid.NewString(), events.RecommendationGenerated),
		UserID:    oid,
		Source:    result.Source,
		Count:     len(result.Recommendations),
	}
	event, err := eventbus.NewJSONEvent(uuid.NewString(), string(events.RecommendationGenerated), payload)
	if err != nil {
		logger.Log.Warnf("failed to encode recommendation event: %v", err)
		return result
	}
	if err := s.bus.Publish(ctx, eventbus.TopicRecommendationEvents.Base(), event); err != nil {
		logger.Log.Warnf("failed to publish recommendation event: %v", err)
	}

	return result
}
