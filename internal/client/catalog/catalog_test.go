package catalog

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func library() []models.Book {
	return []models.Book{
		{ID: "1", Title: "dune", Author: "Herbert", Genre: "SF", PublishedYear: 1965, Description: "desert planet", CreatedBy: "u1"},
		{ID: "2", Title: "Emma", Author: "Austen", Genre: "Classic", PublishedYear: 1815, CreatedBy: "u2"},
		{ID: "3", Title: "Anathem", Author: "Stephenson", Genre: "SF", PublishedYear: 2008, Description: "monks and math", CreatedBy: "u1"},
	}
}

func ids(books []models.Book) []models.ID {
	out := []models.ID{}
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []models.ID
	}{
		{"everything by title", Query{}, []models.ID{"3", "1", "2"}},
		{"genre", Query{Genre: "SF"}, []models.ID{"3", "1"}},
		{"all genres keyword", Query{Genre: "ALL"}, []models.ID{"3", "1", "2"}},
		{"search description", Query{Search: "DESERT"}, []models.ID{"1"}},
		{"search author", Query{Search: "aust"}, []models.ID{"2"}},
		{"year newest first", Query{SortBy: ByYear}, []models.ID{"3", "1", "2"}},
		{"author", Query{SortBy: ByAuthor}, []models.ID{"2", "1", "3"}},
		{"no match", Query{Search: "tolkien"}, []models.ID{}},
		{"genre and search", Query{Genre: "Classic", Search: "dune"}, []models.ID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(library(), tt.q)))
		})
	}
}

func TestParseSortBy(t *testing.T) {
	s, err := ParseSortBy("")
	require.NoError(t, err)
	assert.Equal(t, ByTitle, s)

	s, err = ParseSortBy("Year")
	require.NoError(t, err)
	assert.Equal(t, ByYear, s)

	_, err = ParseSortBy("price")
	require.Error(t, err)
}

func TestGenresAndOwnedBy(t *testing.T) {
	assert.Equal(t, []string{"Classic", "SF"}, Genres(library()))
	assert.Equal(t, []models.ID{"1", "3"}, ids(OwnedBy(library(), "u1")))
	assert.Empty(t, OwnedBy(library(), "u9"))
}

func TestPaginate(t *testing.T) {
	var books []models.Book
	for i := 0; i < 23; i++ {
		books = append(books, models.Book{ID: models.ID(rune('a' + i))})
	}

	p := Paginate(books, 1, 10)
	assert.Len(t, p.Items, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 23, p.Total)

	p = Paginate(books, 3, 10)
	assert.Len(t, p.Items, 3)
	assert.Equal(t, models.ID("u"), p.Items[0].ID)

	p = Paginate(books, 99, 10)
	assert.Equal(t, 3, p.Page)

	p = Paginate(books, -1, 0)
	assert.Equal(t, 1, p.Page)
	assert.Len(t, p.Items, DefaultPageSize)

	p = Paginate(nil, 2, 10)
	assert.Equal(t, Page{Items: []models.Book{}, Page: 1, TotalPages: 0, Total: 0}, p)
}

func TestAverageRating(t *testing.T) {
	assert.Zero(t, AverageRating(models.Book{}))
	b := models.Book{Ratings: []models.Rating{{UserID: "a", Score: 5}, {UserID: "b", Score: 4}}}
	assert.InDelta(t, 4.5, AverageRating(b), 1e-9)
	assert.Equal(t, 4, UserRating(b, "b"))
	assert.Equal(t, 0, UserRating(b, "c"))
}

func TestUpsertRating(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	base := []models.Rating{{UserID: "a", Score: 2}, {UserID: "b", Score: 3}}

	got, err := UpsertRating(base, "a", 5, now)
	require.NoError(t, err)
	assert.Equal(t, []models.Rating{{UserID: "a", Score: 5, Timestamp: now}, {UserID: "b", Score: 3}}, got)
	assert.Equal(t, 2, base[0].Score, "input untouched")

	got, err = UpsertRating(base, "c", 1, now)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "c", got[2].UserID)

	dup := []models.Rating{{UserID: "a", Score: 1}, {UserID: "a", Score: 2}}
	got, err = UpsertRating(dup, "a", 4, now)
	require.NoError(t, err)
	assert.Equal(t, []models.Rating{{UserID: "a", Score: 4, Timestamp: now}}, got)

	for _, bad := range []int{0, 6, -1} {
		_, err := UpsertRating(base, "a", bad, now)
		require.ErrorIs(t, err, ErrInvalidScore)
	}
}
