package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vishalm342/ShelfSense/models"
)

type LibraryEntryRepository struct {
	col *mongo.Collection
}

func NewLibraryEntryRepository(db *mongo.Database) *LibraryEntryRepository {
	return &LibraryEntryRepository{col: db.Collection("library_entries")}
}

// UpsertByUserAndExternalID upserts an entry uniquely identified by
// (user_id, external_id). Re-adding a book refreshes its catalog snapshot
// without duplicating the entry or resetting added_at.
func (r *LibraryEntryRepository) UpsertByUserAndExternalID(ctx context.Context, e *models.LibraryEntry) (*mongo.UpdateResult, error) {
	now := time.Now()
	if e.AddedAt.IsZero() {
		e.AddedAt = now
	}
	e.UpdatedAt = now
	if e.Status == "" {
		e.Status = models.StatusWantToRead
	}

	filter := bson.M{"user_id": e.UserID, "external_id": e.ExternalID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"added_at": e.AddedAt,
			"status":   e.Status,
		},
		"$set": bson.M{
			"updated_at":     e.UpdatedAt,
			"user_id":        e.UserID,
			"external_id":    e.ExternalID,
			"title":          e.Title,
			"subtitle":       e.Subtitle,
			"authors":        e.Authors,
			"description":    e.Description,
			"thumbnail_url":  e.ThumbnailURL,
			"cover_url":      e.CoverURL,
			"categories":     e.Categories,
			"page_count":     e.PageCount,
			"average_rating": e.AverageRating,
			"ratings_count":  e.RatingsCount,
		},
	}
	opts := options.Update().SetUpsert(true)
	return r.col.UpdateOne(ctx, filter, update, opts)
}

// ListByUser returns all entries for a user ordered by added_at descending.
// The recommender relies on this ordering for its recent-books sampling.
func (r *LibraryEntryRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.LibraryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LibraryEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUserPaged returns one page of entries with the same ordering as
// ListByUser. skip and limit are assumed pre-validated by the caller.
func (r *LibraryEntryRepository) ListByUserPaged(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.LibraryEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "added_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LibraryEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LibraryEntryRepository) FindByUserAndExternalID(ctx context.Context, userID primitive.ObjectID, externalID string) (*models.LibraryEntry, error) {
	var e models.LibraryEntry
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "external_id": externalID}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *LibraryEntryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.LibraryEntry, error) {
	var e models.LibraryEntry
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// UpdateStatus sets the reading status of an entry owned by userID.
func (r *LibraryEntryRepository) UpdateStatus(ctx context.Context, userID, id primitive.ObjectID, status string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry owned by userID.
func (r *LibraryEntryRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByUser returns the number of entries in a user's library.
func (r *LibraryEntryRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"user_id": userID})
}
