package dto

// BookDTO is the public view of a catalog volume.
type BookDTO struct {
	ExternalID    string   `json:"external_id" example:"zyTCAlFPjgYC"`
	Title         string   `json:"title" example:"The Google Story"`
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

// BookSearchResponseDTO wraps a catalog search result set.
type BookSearchResponseDTO struct {
	Query string    `json:"query"`
	Books []BookDTO `json:"books"`
}
