package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalm342/ShelfSense/models"
)

const goodreadsHeader = `Book Id,Title,Author,Author l-f,Additional Authors,ISBN,ISBN13,My Rating,Average Rating,Publisher,Binding,Number of Pages,Year Published,Original Publication Year,Date Read,Date Added,Bookshelves,Bookshelves with positions,Exclusive Shelf,My Review`

func TestParseCSV(t *testing.T) {
	body := goodreadsHeader + "\n" +
		`123,Dune,Frank Herbert,"Herbert, Frank",,"=""0441013597""","=""9780441013593""",5,4.27,Ace,Paperback,412,2005,1965,2020/01/01,2019/12/01,"fantasy, sci-fi","fantasy (#1)",read,` + "\n" +
		`456,Hyperion,Dan Simmons,"Simmons, Dan",,,,0,4.26,Spectra,Paperback,482,1990,1989,,2021/03/04,sci-fi,sci-fi (#2),currently-reading,` + "\n"

	res, err := ParseCSV(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 0, res.Skipped)

	dune := res.Records[0]
	assert.Equal(t, 123, dune.GoodreadsID)
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, "Frank Herbert", dune.Author)
	assert.Equal(t, "0441013597", dune.ISBN)
	assert.Equal(t, "9780441013593", dune.ISBN13)
	assert.InDelta(t, 4.27, dune.AverageRating, 0.001)
	assert.Equal(t, 412, dune.PageCount)
	assert.Equal(t, []string{"fantasy", "sci-fi"}, dune.Shelves)
	assert.Equal(t, models.StatusFinished, dune.Status)

	hyperion := res.Records[1]
	assert.Equal(t, models.StatusReading, hyperion.Status)
	assert.Equal(t, []string{"sci-fi"}, hyperion.Shelves)
}

func TestParseCSVSkipsBadRows(t *testing.T) {
	body := goodreadsHeader + "\n" +
		`short,row` + "\n" +
		`1,,No Title Author,,,,,,4.0,,,100,,,,,,,to-read,` + "\n" +
		`2,Kept,Author,,,,,,4.0,,,100,,,,,,,to-read,` + "\n"

	res, err := ParseCSV(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Kept", res.Records[0].Title)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, models.StatusWantToRead, res.Records[0].Status)
}

func TestParseCSVRejectsMissingHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseCSVExcludesExclusiveShelvesFromCategories(t *testing.T) {
	body := goodreadsHeader + "\n" +
		`3,Book,Author,,,,,,4.0,,,100,,,,,"read, horror, to-read",,read,` + "\n"

	res, err := ParseCSV(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, []string{"horror"}, res.Records[0].Shelves)
}
