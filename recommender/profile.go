package recommender

import (
	"math"
	"sort"

	"github.com/vishalm342/ShelfSense/models"
)

// MinLibrarySize is the minimum number of library entries required before a
// taste profile can be built. Below this the pipeline short-circuits with an
// actionable message instead of calling the model.
const MinLibrarySize = 3

// Profile is a derived per-request summary of a user's library. It is rebuilt
// on every recommendation request and never persisted.
type Profile struct {
	TotalBooks      int          `json:"total_books"`
	TopGenres       []string     `json:"top_genres,omitempty"`
	FavoriteAuthors []string     `json:"favorite_authors,omitempty"`
	RecentBooks     []RecentBook `json:"recent_books,omitempty"`
	AvgRating       float64      `json:"avg_rating,omitempty"`
	AvgPageCount    int          `json:"avg_page_count,omitempty"`
}

// RecentBook is one sample title from the library, most recently added first.
type RecentBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// BuildProfile derives a taste profile from library entries. The entries must
// already be ordered by added_at descending (LibraryEntryRepository.ListByUser
// guarantees this). Returns nil when the library has fewer than MinLibrarySize
// entries.
//
// Zero page counts stay in the average's denominator, matching the rating
// aggregate. This skews avg_page_count downward for libraries with partial
// metadata; accepted as-is.
func BuildProfile(entries []models.LibraryEntry) *Profile {
	if len(entries) < MinLibrarySize {
		return nil
	}

	p := &Profile{
		TotalBooks:      len(entries),
		TopGenres:       topGenres(entries, 3),
		FavoriteAuthors: favoriteAuthors(entries),
		RecentBooks:     recentBooks(entries, 3),
	}

	var ratingSum float64
	var pageSum int
	for _, e := range entries {
		ratingSum += e.AverageRating
		pageSum += e.PageCount
	}
	p.AvgRating = math.Round(ratingSum/float64(len(entries))*10) / 10
	p.AvgPageCount = int(math.Round(float64(pageSum) / float64(len(entries))))

	return p
}

// topGenres ranks categories by frequency across the library. Ties keep
// first-seen order, so the ranking is deterministic for a given entry order.
func topGenres(entries []models.LibraryEntry, limit int) []string {
	counts := map[string]int{}
	var order []string
	for _, e := range entries {
		for _, c := range e.Categories {
			if c == "" {
				continue
			}
			if _, seen := counts[c]; !seen {
				order = append(order, c)
			}
			counts[c]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// favoriteAuthors returns authors appearing on more than one entry,
// deduplicated, in first-seen order.
func favoriteAuthors(entries []models.LibraryEntry) []string {
	counts := map[string]int{}
	var order []string
	for _, e := range entries {
		for _, a := range e.Authors {
			if a == "" {
				continue
			}
			if _, seen := counts[a]; !seen {
				order = append(order, a)
			}
			counts[a]++
		}
	}

	var out []string
	for _, a := range order {
		if counts[a] > 1 {
			out = append(out, a)
		}
	}
	return out
}

func recentBooks(entries []models.LibraryEntry, limit int) []RecentBook {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]RecentBook, 0, len(entries))
	for _, e := range entries {
		rb := RecentBook{Title: e.Title, Author: "Unknown", Genre: "General"}
		if len(e.Authors) > 0 && e.Authors[0] != "" {
			rb.Author = e.Authors[0]
		}
		if len(e.Categories) > 0 && e.Categories[0] != "" {
			rb.Genre = e.Categories[0]
		}
		out = append(out, rb)
	}
	return out
}
