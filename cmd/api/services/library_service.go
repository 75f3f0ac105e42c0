package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vishalm342/ShelfSense/catalog"
	"github.com/vishalm342/ShelfSense/cmd/api/dto"
	"github.com/vishalm342/ShelfSense/internal/logger"
	"github.com/vishalm342/ShelfSense/eventbus"
	"github.com/vishalm342/ShelfSense/events"
	"github.com/vishalm342/ShelfSense/importer"
	"github.com/vishalm342/ShelfSense/models"
	"github.com/vishalm342/ShelfSense/repositories"
)

var (
	ErrEntryNotFound = errors.New("library entry not found")
	ErrInvalidStatus = errors.New("invalid reading status")
)

// LibraryService manages a user's personal library.
type LibraryService struct {
	entries *repositories.LibraryEntryRepository
	catalog *catalog.Client
	bus     eventbus.EventBus
}

func NewLibraryService(entries *repositories.LibraryEntryRepository, cat *catalog.Client, bus eventbus.EventBus) *LibraryService {
	return &LibraryService{entries: entries, catalog: cat, bus: bus}
}

// AddBook resolves a catalog volume and upserts it into the user's library.
// Re-adding an already shelved book refreshes its catalog snapshot without
// duplicating the entry.
func (s *LibraryService) AddBook(ctx context.Context, userID string, in dto.AddLibraryBookRequestDTO) (dto.LibraryEntryDTO, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return dto.LibraryEntryDTO{}, ErrEntryNotFound
	}
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return dto.LibraryEntryDTO{}, ErrInvalidStatus
	}

	book := s.catalog.GetByID(ctx, in.ExternalID)
	if book == nil {
		return dto.LibraryEntryDTO{}, ErrBookNotFound
	}

	entry := &models.LibraryEntry{
		UserID:        oid,
		ExternalID:    book.ExternalID,
		Title:         book.Title,
		Subtitle:      book.Subtitle,
		Authors:       book.Authors,
		Description:   book.Description,
		ThumbnailURL:  book.ThumbnailURL,
		CoverURL:      book.CoverURL,
		Categories:    book.Categories,
		PageCount:     book.PageCount,
		AverageRating: book.AverageRating,
		RatingsCount:  book.RatingsCount,
		Status:        in.Status,
	}
	if _, err := s.entries.UpsertByUserAndExternalID(ctx, entry); err != nil {
		return dto.LibraryEntryDTO{}, fmt.Errorf("upsert library entry: %w", err)
	}

	// Re-read so the response reflects the stored entry (added_at and
	// status survive re-adds through $setOnInsert).
	stored, err := s.entries.FindByUserAndExternalID(ctx, oid, book.ExternalID)
	if err != nil {
		return dto.LibraryEntryDTO{}, fmt.Errorf("load library entry: %w", err)
	}

	s.publishLibraryEvent(ctx, events.LibraryBookAddedEvent{
		BaseEvent:  events.NewBase(uuid.NewString(), events.LibraryBookAdded),
		UserID:     oid,
		EntryID:    stored.ID,
		ExternalID: stored.ExternalID,
		Title:      stored.Title,
		Authors:    stored.Authors,
		Categories: stored.Categories,
		Status:     stored.Status,
	}, events.LibraryBookAdded)

	return entryToDTO(stored), nil
}

// List returns one page of the user's library ordered by added_at descending.
func (s *LibraryService) List(ctx context.Context, userID string, page, pageSize int) (dto.Pagination[dto.LibraryEntryDTO], error) {
	var empty dto.Pagination[dto.LibraryEntryDTO]
	oid, err := parseObjectID(userID)
	if err != nil {
		return empty, ErrEntryNotFound
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	total, err := s.entries.CountByUser(ctx, oid)
	if err != nil {
		return empty, fmt.Errorf("count library entries: %w", err)
	}

	entries, err := s.entries.ListByUserPaged(ctx, oid, int64(page-1)*int64(pageSize), int64(pageSize))
	if err != nil {
		return empty, fmt.Errorf("list library entries: %w", err)
	}

	out := make([]dto.LibraryEntryDTO, 0, len(entries))
	for i := range entries {
		out = append(out, entryToDTO(&entries[i]))
	}
	return dto.Pagination[dto.LibraryEntryDTO]{
		Data:     out,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// GetEntry loads one entry and verifies the caller owns it.
func (s *LibraryService) GetEntry(ctx context.Context, userID, entryID string) (dto.LibraryEntryDTO, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return dto.LibraryEntryDTO{}, ErrEntryNotFound
	}
	eid, err := parseObjectID(entryID)
	if err != nil {
		return dto.LibraryEntryDTO{}, ErrEntryNotFound
	}

	entry, err := s.entries.FindByID(ctx, eid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return dto.LibraryEntryDTO{}, ErrEntryNotFound
		}
		return dto.LibraryEntryDTO{}, fmt.Errorf("load library entry: %w", err)
	}
	// Ownership check doubles as existence: foreign entries look absent.
	if entry.UserID != oid {
		return dto.LibraryEntryDTO{}, ErrEntryNotFound
	}
	return entryToDTO(entry), nil
}

// UpdateStatus changes the reading status of an entry owned by the user.
func (s *LibraryService) UpdateStatus(ctx context.Context, userID, entryID, status string) error {
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}
	oid, err := parseObjectID(userID)
	if err != nil {
		return ErrEntryNotFound
	}
	eid, err := parseObjectID(entryID)
	if err != nil {
		return ErrEntryNotFound
	}

	if err := s.entries.UpdateStatus(ctx, oid, eid, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// RemoveBook deletes an entry owned by the user.
func (s *LibraryService) RemoveBook(ctx context.Context, userID, entryID string) error {
	oid, err := parseObjectID(userID)
	if err != nil {
		return ErrEntryNotFound
	}
	eid, err := parseObjectID(entryID)
	if err != nil {
		return ErrEntryNotFound
	}

	if err := s.entries.Delete(ctx, oid, eid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("delete library entry: %w", err)
	}

	s.publishLibraryEvent(ctx, events.LibraryBookRemovedEvent{
		BaseEvent: events.NewBase(uuid.NewString(), events.LibraryBookRemoved),
		UserID:    oid,
		EntryID:   eid,
	}, events.LibraryBookRemoved)

	return nil
}

// ImportGoodreads loads a Goodreads CSV export into the user's library.
// Rows without a usable title or author are skipped, not fatal.
func (s *LibraryService) ImportGoodreads(ctx context.Context, userID string, r io.Reader) (dto.ImportResultDTO, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return dto.ImportResultDTO{}, ErrEntryNotFound
	}

	parsed, err := importer.ParseCSV(r)
	if err != nil {
		return dto.ImportResultDTO{}, err
	}

	imported := 0
	skipped := parsed.Skipped
	for _, rec := range parsed.Records {
		entry := recordToEntry(oid, rec)
		if _, err := s.entries.UpsertByUserAndExternalID(ctx, entry); err != nil {
			logger.WarnWithFields("failed to import goodreads record", logger.Fields{
				"title": rec.Title,
				"error": err.Error(),
			})
			skipped++
			continue
		}
		imported++
	}

	s.publishLibraryEvent(ctx, events.LibraryImportCompletedEvent{
		BaseEvent: events.NewBase(uuid.NewString(), events.LibraryImportCompleted),
		UserID:    oid,
		Imported:  imported,
		Skipped:   skipped,
	}, events.LibraryImportCompleted)

	return dto.ImportResultDTO{Imported: imported, SkippedRows: skipped}, nil
}

// publishLibraryEvent emits a domain event best-effort; publish failures are
// logged and never surface to the caller.
func (s *LibraryService) publishLibraryEvent(ctx context.Context, payload any, eventType events.EventType) {
	event, err := eventbus.NewJSONEvent(uuid.NewString(), string(eventType), payload)
	if err != nil {
		logger.Log.Warnf("failed to encode %s event: %v", eventType, err)
		return
	}
	if err := s.bus.Publish(ctx, eventbus.TopicLibraryEvents.Base(), event); err != nil {
		logger.Log.Warnf("failed to publish %s event: %v", eventType, err)
	}
}

func entryToDTO(e *models.LibraryEntry) dto.LibraryEntryDTO {
	return dto.LibraryEntryDTO{
		ID:            e.ID.Hex(),
		ExternalID:    e.ExternalID,
		Title:         e.Title,
		Subtitle:      e.Subtitle,
		Authors:       e.Authors,
		Description:   e.Description,
		ThumbnailURL:  e.ThumbnailURL,
		CoverURL:      e.CoverURL,
		Categories:    e.Categories,
		PageCount:     e.PageCount,
		AverageRating: e.AverageRating,
		RatingsCount:  e.RatingsCount,
		Status:        e.Status,
		AddedAt:       e.AddedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
}

func recordToEntry(userID primitive.ObjectID, rec importer.Record) *models.LibraryEntry {
	authors := []string{}
	if rec.Author != "" {
		authors = append(authors, rec.Author)
	}
	categories := rec.Shelves
	if categories == nil {
		categories = []string{}
	}
	externalID := fmt.Sprintf("goodreads:%d", rec.GoodreadsID)
	if rec.ISBN13 != "" {
		externalID = "isbn:" + rec.ISBN13
	} else if rec.ISBN != "" {
		externalID = "isbn:" + rec.ISBN
	}
	return &models.LibraryEntry{
		UserID:        userID,
		ExternalID:    externalID,
		Title:         rec.Title,
		Authors:       authors,
		Description:   catalog.DefaultDescription,
		Categories:    categories,
		PageCount:     rec.PageCount,
		AverageRating: rec.AverageRating,
		Status:        rec.Status,
	}
}
