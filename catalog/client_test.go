package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMapsAndNormalizesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "dune", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("maxResults"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"totalItems": 2,
			"items": [
				{
					"id": "vol-1",
					"volumeInfo": {
						"title": "Dune",
						"subtitle": "Deluxe Edition",
						"authors": ["Frank Herbert"],
						"description": "Desert planet epic",
						"categories": ["Fiction", "Science Fiction"],
						"pageCount": 412,
						"averageRating": 4.5,
						"ratingsCount": 5000,
						"imageLinks": {"thumbnail": "http://img/thumb.jpg", "large": "http://img/large.jpg"}
					}
				},
				{
					"id": "vol-2",
					"volumeInfo": {"title": "Dune Messiah"}
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL, srv.Client())
	books := client.Search(context.Background(), "dune", 2)

	require.Len(t, books, 2)

	assert.Equal(t, "vol-1", books[0].ExternalID)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "Deluxe Edition", books[0].Subtitle)
	assert.Equal(t, []string{"Frank Herbert"}, books[0].Authors)
	assert.Equal(t, "Desert planet epic", books[0].Description)
	assert.Equal(t, "http://img/thumb.jpg", books[0].ThumbnailURL)
	assert.Equal(t, "http://img/large.jpg", books[0].CoverURL)
	assert.Equal(t, 412, books[0].PageCount)
	assert.InDelta(t, 4.5, books[0].AverageRating, 0.001)
	assert.Equal(t, 5000, books[0].RatingsCount)

	// Absent fields get defaults, never zero values that break interpolation
	assert.Equal(t, DefaultDescription, books[1].Description)
	assert.Equal(t, []string{}, books[1].Authors)
	assert.Equal(t, []string{}, books[1].Categories)
	assert.Equal(t, 0, books[1].PageCount)
	assert.Equal(t, 0.0, books[1].AverageRating)
}

func TestSearchSkipsItemsWithoutTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems": 2, "items": [
			{"id": "no-title", "volumeInfo": {"authors": ["A"]}},
			{"id": "ok", "volumeInfo": {"title": "Kept"}}
		]}`))
	}))
	defer srv.Close()

	books := NewWithBaseURL(srv.URL, srv.Client()).Search(context.Background(), "q", 5)
	require.Len(t, books, 1)
	assert.Equal(t, "Kept", books[0].Title)
}

func TestSearchZeroItemsReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer srv.Close()

	books := NewWithBaseURL(srv.URL, srv.Client()).Search(context.Background(), "nothing", 5)
	assert.Empty(t, books)
}

// The adapter must never raise for upstream failure conditions; every
// category maps to an empty result.
func TestSearchFailsSoft(t *testing.T) {
	statuses := map[string]int{
		"auth_401":       http.StatusUnauthorized,
		"auth_403":       http.StatusForbidden,
		"rate_limit_429": http.StatusTooManyRequests,
		"server_500":     http.StatusInternalServerError,
	}
	for name, status := range statuses {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			books := NewWithBaseURL(srv.URL, srv.Client()).Search(context.Background(), "q", 5)
			assert.Empty(t, books)
		})
	}

	t.Run("malformed_payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"totalItems": not-json`))
		}))
		defer srv.Close()

		books := NewWithBaseURL(srv.URL, srv.Client()).Search(context.Background(), "q", 5)
		assert.Empty(t, books)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		client := NewWithBaseURL(srv.URL, &http.Client{Timeout: 20 * time.Millisecond})
		books := client.Search(context.Background(), "q", 5)
		assert.Empty(t, books)
	})

	t.Run("connection_refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listening anymore

		books := NewWithBaseURL(srv.URL, nil).Search(context.Background(), "q", 5)
		assert.Empty(t, books)
	})
}

func TestGetByIDFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes/vol-9", r.URL.Path)
		w.Write([]byte(`{"id": "vol-9", "volumeInfo": {"title": "Hyperion", "pageCount": 482}}`))
	}))
	defer srv.Close()

	b := NewWithBaseURL(srv.URL, srv.Client()).GetByID(context.Background(), "vol-9")
	require.NotNil(t, b)
	assert.Equal(t, "Hyperion", b.Title)
	assert.Equal(t, 482, b.PageCount)
}

func TestGetByIDNotFoundReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	b := NewWithBaseURL(srv.URL, srv.Client()).GetByID(context.Background(), "missing")
	assert.Nil(t, b)
}
