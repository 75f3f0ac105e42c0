package events

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType identifies the kind of domain event.
type EventType string

const (
	LibraryBookAdded        EventType = "library.book_added"
	LibraryBookRemoved      EventType = "library.book_removed"
	LibraryImportCompleted  EventType = "library.import_completed"
	RecommendationGenerated EventType = "recommendation.generated"
)

// BaseEvent carries the fields shared by every domain event.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// LibraryBookAddedEvent is emitted when a user adds a book to their library.
type LibraryBookAddedEvent struct {
	BaseEvent
	UserID     primitive.ObjectID `json:"user_id"`
	EntryID    primitive.ObjectID `json:"entry_id"`
	ExternalID string             `json:"external_id"`
	Title      string             `json:"title"`
	Authors    []string           `json:"authors"`
	Categories []string           `json:"categories"`
	Status     string             `json:"status"`
}

// LibraryBookRemovedEvent is emitted when a user removes a library entry.
type LibraryBookRemovedEvent struct {
	BaseEvent
	UserID  primitive.ObjectID `json:"user_id"`
	EntryID primitive.ObjectID `json:"entry_id"`
}

// LibraryImportCompletedEvent is emitted after a Goodreads CSV import run.
type LibraryImportCompletedEvent struct {
	BaseEvent
	UserID   primitive.ObjectID `json:"user_id"`
	Imported int                `json:"imported"`
	Skipped  int                `json:"skipped"`
}

// RecommendationGeneratedEvent is emitted after a recommendation request
// reaches a terminal state.
type RecommendationGeneratedEvent struct {
	BaseEvent
	UserID primitive.ObjectID `json:"user_id"`
	Source string             `json:"source"`
	Count  int                `json:"count"`
}

// NewBase fills the shared event fields.
func NewBase(id string, t EventType) BaseEvent {
	return BaseEvent{
		ID:        id,
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    "shelfsense-api",
		Version:   "1",
	}
}
