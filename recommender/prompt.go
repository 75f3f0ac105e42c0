package recommender

import (
	"fmt"
	"strings"
)

const promptInstruction = `You are a book recommendation assistant for a personal library tracker.
Based on the reader profile below, recommend exactly 10 books the reader has not listed.
The response MUST be a JSON array of exactly 10 objects, each with these keys:
1. title: The full title of the book.
2. author: The primary author's name.
3. genre: The book's main genre.
4. reason: One or two sentences explaining why this reader would enjoy the book.
You MUST NOT wrap the JSON output in a markdown code block (e.g. ` + "```json ... ```" + `).
The response should contain ONLY the raw JSON array.`

// BuildPrompt renders a profile into the model prompt. The template is
// deterministic: the same profile always produces the same prompt, and both
// model tiers receive the identical text.
func BuildPrompt(p *Profile) string {
	var b strings.Builder

	b.WriteString(promptInstruction)
	b.WriteString("\n\nReader profile:\n")
	fmt.Fprintf(&b, "- Books in library: %d\n", p.TotalBooks)
	fmt.Fprintf(&b, "- Average rating of library books: %.1f out of 5\n", p.AvgRating)

	if len(p.TopGenres) > 0 {
		fmt.Fprintf(&b, "- Favorite genres: %s\n", strings.Join(p.TopGenres, ", "))
	} else {
		b.WriteString("- Favorite genres: varied\n")
	}

	if len(p.FavoriteAuthors) > 0 {
		fmt.Fprintf(&b, "- Favorite authors: %s\n", strings.Join(p.FavoriteAuthors, ", "))
	}

	if p.AvgPageCount > 0 {
		fmt.Fprintf(&b, "- Typical book length: around %d pages\n", p.AvgPageCount)
	}

	if len(p.RecentBooks) > 0 {
		b.WriteString("- Recently added books:\n")
		for _, rb := range p.RecentBooks {
			fmt.Fprintf(&b, "  - %q by %s (%s)\n", rb.Title, rb.Author, rb.Genre)
		}
	}

	return b.String()
}
