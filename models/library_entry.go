package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reading status values for a library entry.
const (
	StatusWantToRead = "want_to_read"
	StatusReading    = "reading"
	StatusFinished   = "finished"
)

// ValidStatus reports whether s is one of the known reading statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusFinished:
		return true
	}
	return false
}

// LibraryEntry is a book in a user's library. Catalog metadata is denormalized
// onto the entry at add time so profile building needs no catalog round trips.
// Collection: library_entries
type LibraryEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	ExternalID    string             `bson:"external_id" json:"external_id"`
	Title         string             `bson:"title" json:"title"`
	Subtitle      string             `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Authors       []string           `bson:"authors" json:"authors"`
	Description   string             `bson:"description" json:"description"`
	ThumbnailURL  string             `bson:"thumbnail_url" json:"thumbnail_url"`
	CoverURL      string             `bson:"cover_url" json:"cover_url"`
	Categories    []string           `bson:"categories" json:"categories"`
	PageCount     int                `bson:"page_count" json:"page_count"`
	AverageRating float64            `bson:"average_rating" json:"average_rating"`
	RatingsCount  int                `bson:"ratings_count" json:"ratings_count"`
	Status        string             `bson:"status" json:"status"`
	AddedAt       time.Time          `bson:"added_at" json:"added_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
