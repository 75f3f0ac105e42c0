package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vishalm342/ShelfSense/internal/logger"
	"github.com/vishalm342/ShelfSense/models"
)

// Record is one book parsed from a Goodreads library export.
type Record struct {
	GoodreadsID   int
	Title         string
	Author        string
	ISBN          string
	ISBN13        string
	AverageRating float64
	PageCount     int
	Shelves       []string
	Status        string
}

// Result summarizes an import run.
type Result struct {
	Records []Record
	Skipped int
}

// Goodreads CSV column indexes (per the export format).
const (
	colBookID         = 0
	colTitle          = 1
	colAuthor         = 2
	colISBN           = 5
	colISBN13         = 6
	colAverageRating  = 8
	colNumberOfPages  = 11
	colBookshelves    = 16
	colExclusiveShelf = 18

	minColumns = 19
)

// ParseCSV reads a Goodreads export. Malformed rows are skipped with a
// warning instead of aborting the import; the skip count is reported back to
// the caller.
func ParseCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	res := &Result{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Log.Warnf("error reading import row: %v", err)
			res.Skipped++
			continue
		}

		rec, err := parseRow(row)
		if err != nil {
			logger.Log.Warnf("invalid import row: %v", err)
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, *rec)
	}

	return res, nil
}

func parseRow(row []string) (*Record, error) {
	if len(row) < minColumns {
		return nil, fmt.Errorf("row has %d columns, want at least %d", len(row), minColumns)
	}

	title := strings.TrimSpace(row[colTitle])
	if title == "" {
		return nil, fmt.Errorf("row has no title")
	}

	rec := &Record{
		Title:  title,
		Author: strings.TrimSpace(row[colAuthor]),
		ISBN:   cleanISBN(row[colISBN]),
		ISBN13: cleanISBN(row[colISBN13]),
		Status: shelfToStatus(row[colExclusiveShelf]),
	}

	if id, err := strconv.Atoi(strings.TrimSpace(row[colBookID])); err == nil {
		rec.GoodreadsID = id
	}
	if rating, err := strconv.ParseFloat(strings.TrimSpace(row[colAverageRating]), 64); err == nil && rating >= 0 && rating <= 5 {
		rec.AverageRating = rating
	}
	if pages, err := strconv.Atoi(strings.TrimSpace(row[colNumberOfPages])); err == nil && pages > 0 {
		rec.PageCount = pages
	}

	for _, shelf := range strings.Split(row[colBookshelves], ",") {
		shelf = strings.TrimSpace(shelf)
		if shelf == "" || isExclusiveShelf(shelf) {
			continue
		}
		rec.Shelves = append(rec.Shelves, shelf)
	}

	return rec, nil
}

// cleanISBN strips the ="..." wrapper Goodreads puts around ISBN columns.
func cleanISBN(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "=")
	s = strings.Trim(s, `"`)
	return s
}

func isExclusiveShelf(shelf string) bool {
	switch shelf {
	case "read", "currently-reading", "to-read":
		return true
	}
	return false
}

// shelfToStatus maps the Goodreads exclusive shelf onto a reading status.
func shelfToStatus(shelf string) string {
	switch strings.TrimSpace(shelf) {
	case "read":
		return models.StatusFinished
	case "currently-reading":
		return models.StatusReading
	default:
		return models.StatusWantToRead
	}
}
