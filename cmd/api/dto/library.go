package dto

// AddLibraryBookRequestDTO adds a catalog volume to the caller's library.
type AddLibraryBookRequestDTO struct {
	ExternalID string `json:"external_id" binding:"required" example:"zyTCAlFPjgYC"`
	Status     string `json:"status" example:"want_to_read"`
}

// UpdateStatusRequestDTO changes the reading status of a library entry.
type UpdateStatusRequestDTO struct {
	Status string `json:"status" binding:"required" example:"reading"`
}

// LibraryEntryDTO is the public view of a library entry.
type LibraryEntryDTO struct {
	ID            string   `json:"id"`
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
	Status        string   `json:"status" example:"want_to_read"`
	AddedAt       string   `json:"added_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// ImportResultDTO summarizes a Goodreads CSV import.
type ImportResultDTO struct {
	Imported    int `json:"imported"`
	SkippedRows int `json:"skipped_rows"`
}
