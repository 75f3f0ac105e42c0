package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vishalm342/ShelfSense/catalog"
	"github.com/vishalm342/ShelfSense/cmd/api/dto"
)

var ErrBookNotFound = errors.New("book not found")

// BookService exposes catalog search and lookup to the API layer.
type BookService struct {
	catalog *catalog.Client
}

func NewBookService(cat *catalog.Client) *BookService {
	return &BookService{catalog: cat}
}

// Search queries the catalog. Upstream failures surface as an empty result
// set, matching the catalog client's soft-failure contract.
func (s *BookService) Search(ctx context.Context, query string, maxResults int) dto.BookSearchResponseDTO {
	books := s.catalog.Search(ctx, query, maxResults)
	out := make([]dto.BookDTO, 0, len(books))
	for i := range books {
		out = append(out, bookToDTO(&books[i]))
	}
	return dto.BookSearchResponseDTO{Query: query, Books: out}
}

// Get looks up one volume by its catalog ID.
func (s *BookService) Get(ctx context.Context, externalID string) (dto.BookDTO, error) {
	book := s.catalog.GetByID(ctx, externalID)
	if book == nil {
		return dto.BookDTO{}, ErrBookNotFound
	}
	return bookToDTO(book), nil
}

func bookToDTO(b *catalog.Book) dto.BookDTO {
	return dto.BookDTO{
		ExternalID:    b.ExternalID,
		Title:         b.Title,
		Subtitle:      b.Subtitle,
		Authors:       b.Authors,
		Description:   b.Description,
		ThumbnailURL:  b.ThumbnailURL,
		CoverURL:      b.CoverURL,
		Categories:    b.Categories,
		PageCount:     b.PageCount,
		AverageRating: b.AverageRating,
		RatingsCount:  b.RatingsCount,
	}
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}
