package recommender

import (
	"encoding/json"
	"errors"
	"strings"
)

// Candidate is one recommendation unit produced by the model, prior to
// catalog enrichment.
type Candidate struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	Reason string `json:"reason"`
}

// ErrNoCandidates is returned when the model response contains no usable
// candidates. Callers treat it like an invocation failure and escalate to the
// next tier.
var ErrNoCandidates = errors.New("model response contains no usable candidates")

// ParseCandidates extracts validated candidates from a free-text model
// response. The model is instructed to return a bare JSON array but does not
// always comply, so the parser tolerates common deviations:
//   - markdown code fences are stripped (with or without a language tag)
//   - the first balanced [...] substring is extracted when prose surrounds it
//   - elements missing title, author or reason are dropped
//   - an empty genre defaults to "General"
//
// A response that is not an array, or whose elements all fail the filter,
// yields ErrNoCandidates.
func ParseCandidates(raw string) ([]Candidate, error) {
	s := stripCodeFence(strings.TrimSpace(raw))
	s = extractArray(s)
	if s == "" {
		return nil, ErrNoCandidates
	}

	var items []Candidate
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, ErrNoCandidates
	}

	out := make([]Candidate, 0, len(items))
	for _, c := range items {
		c.Title = strings.TrimSpace(c.Title)
		c.Author = strings.TrimSpace(c.Author)
		c.Genre = strings.TrimSpace(c.Genre)
		c.Reason = strings.TrimSpace(c.Reason)
		if c.Title == "" || c.Author == "" || c.Reason == "" {
			continue
		}
		if c.Genre == "" {
			c.Genre = "General"
		}
		out = append(out, c)
	}

	if len(out) == 0 {
		return nil, ErrNoCandidates
	}
	return out, nil
}

// stripCodeFence removes a surrounding markdown code fence, tolerating an
// optional language tag after the opening backticks.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// drop the language tag line (e.g. "json")
		head := strings.TrimSpace(s[:idx])
		if head == "" || !strings.ContainsAny(head, "[{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractArray returns the first balanced top-level [...] substring, skipping
// brackets inside JSON string literals. Empty result means no array found.
func extractArray(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			inString = true
		case '[':
			if depth == 0 {
				start = i
			}
			depth++
		case ']':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
