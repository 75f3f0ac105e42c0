package eventbus

// Global topic declarations. Kept in one place so they can be swapped for
// configured values later.

var (
	TopicLibraryEvents        = NewTopic("shelfsense.library.events")
	TopicRecommendationEvents = NewTopic("shelfsense.recommendation.events")
)
