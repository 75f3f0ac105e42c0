package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/vishalm342/ShelfSense/cmd/api/httpclient"
	"github.com/vishalm342/ShelfSense/internal/logger"
	"github.com/vishalm342/ShelfSense/config"
)

// DefaultDescription replaces a missing upstream description so downstream
// prompt/string building never sees an empty field.
const DefaultDescription = "No description available"

// Book is the canonical representation of a catalog entry. Fields absent in
// the upstream payload are normalized to the documented defaults.
type Book struct {
	ExternalID    string   `json:"external_id"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	ThumbnailURL  string   `json:"thumbnail_url,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Categories    []string `json:"categories"`
	PageCount     int      `json:"page_count"`
	AverageRating float64  `json:"average_rating"`
	RatingsCount  int      `json:"ratings_count"`
}

// Client queries the Google Books volumes API.
//
// Search and GetByID fail soft: on timeout, auth failure, rate limiting or any
// other upstream problem they log a categorized diagnostic and return an empty
// result. Callers treat "no results" uniformly regardless of cause, which is
// what lets the recommender stack its own fallbacks on top without an
// exception-handling layer.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New builds a Client from application config. The API key comes from
// GOOGLE_BOOKS_API_KEY and is optional (the API allows keyless requests at a
// lower quota).
func New() *Client {
	cfg := config.GetConfig().Catalog
	return &Client{
		httpClient: httpclient.New(httpclient.Config{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}),
		baseURL:    cfg.BaseURL,
		apiKey:     os.Getenv("GOOGLE_BOOKS_API_KEY"),
	}
}

// NewWithBaseURL builds a Client against a specific endpoint. Tests point this
// at an httptest server.
func NewWithBaseURL(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// volumesResponse mirrors the subset of the Google Books response we consume.
// Every field is optional upstream.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string     `json:"title"`
	Subtitle      string     `json:"subtitle"`
	Authors       []string   `json:"authors"`
	Description   string     `json:"description"`
	Categories    []string   `json:"categories"`
	PageCount     int        `json:"pageCount"`
	AverageRating float64    `json:"averageRating"`
	RatingsCount  int        `json:"ratingsCount"`
	ImageLinks    imageLinks `json:"imageLinks"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
}

// Search issues one request against the volumes endpoint and maps the result
// items into Books. It never returns an error: any failure is logged with a
// category and an empty slice comes back.
func (c *Client) Search(ctx context.Context, query string, maxResults int) []Book {
	if query == "" {
		return nil
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	// The volumes endpoint rejects maxResults above 40.
	if maxResults > 40 {
		maxResults = 40
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(maxResults))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	reqURL := fmt.Sprintf("%s/volumes?%s", c.baseURL, q.Encode())

	var decoded volumesResponse
	if ok := c.getJSON(ctx, reqURL, query, &decoded); !ok {
		return nil
	}

	if decoded.TotalItems == 0 || len(decoded.Items) == 0 {
		return nil
	}

	books := make([]Book, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		b, ok := normalizeVolume(item)
		if !ok {
			continue
		}
		books = append(books, b)
	}
	return books
}

// GetByID fetches a single volume. A missing volume (404) or any failure maps
// to nil, per the same soft-failure contract as Search.
func (c *Client) GetByID(ctx context.Context, externalID string) *Book {
	if externalID == "" {
		return nil
	}

	reqURL := fmt.Sprintf("%s/volumes/%s", c.baseURL, url.PathEscape(externalID))
	if c.apiKey != "" {
		reqURL += "?key=" + url.QueryEscape(c.apiKey)
	}

	var decoded volume
	if ok := c.getJSON(ctx, reqURL, externalID, &decoded); !ok {
		return nil
	}

	b, ok := normalizeVolume(decoded)
	if !ok {
		return nil
	}
	return &b
}

// getJSON performs the GET and decodes the body, logging a categorized
// diagnostic on any failure. Returns false when the caller should treat the
// result as empty.
func (c *Client) getJSON(ctx context.Context, reqURL, query string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logFailure("request_build", query, err, 0)
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		category := "network"
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			category = "timeout"
		}
		c.logFailure(category, query, err, 0)
		return false
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Missing volume: not an error condition, just no result.
		return false
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logFailure("auth", query, nil, resp.StatusCode)
		return false
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logFailure("rate_limit", query, nil, resp.StatusCode)
		return false
	case resp.StatusCode != http.StatusOK:
		c.logFailure("upstream_status", query, nil, resp.StatusCode)
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logFailure("malformed_payload", query, err, resp.StatusCode)
		return false
	}
	return true
}

func (c *Client) logFailure(category, query string, err error, status int) {
	fields := logger.Fields{
		"category": category,
		"query":    query,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	if status != 0 {
		fields["status"] = status
	}
	logger.WarnWithFields("catalog search failed", fields)
}

// normalizeVolume maps one upstream item into a Book, filling defaults for
// absent fields. Items without a title are unusable and are skipped.
func normalizeVolume(v volume) (Book, bool) {
	info := v.VolumeInfo
	if info.Title == "" {
		return Book{}, false
	}

	b := Book{
		ExternalID:    v.ID,
		Title:         info.Title,
		Subtitle:      info.Subtitle,
		Authors:       info.Authors,
		Description:   info.Description,
		ThumbnailURL:  info.ImageLinks.Thumbnail,
		CoverURL:      coverURL(info.ImageLinks),
		Categories:    info.Categories,
		PageCount:     info.PageCount,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
	}
	if b.Authors == nil {
		b.Authors = []string{}
	}
	if b.Categories == nil {
		b.Categories = []string{}
	}
	if b.Description == "" {
		b.Description = DefaultDescription
	}
	if b.PageCount < 0 {
		b.PageCount = 0
	}
	if b.AverageRating < 0 || b.AverageRating > 5 {
		b.AverageRating = 0
	}
	if b.RatingsCount < 0 {
		b.RatingsCount = 0
	}
	return b, true
}

// coverURL prefers the largest available image, falling back to thumbnails.
func coverURL(links imageLinks) string {
	for _, u := range []string{links.Large, links.Medium, links.Small, links.Thumbnail, links.SmallThumbnail} {
		if u != "" {
			return u
		}
	}
	return ""
}
