// Package catalog implements the storefront browsing view: search, genre
// filter, ordering and pagination of the book list, plus rating helpers.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophbooks/internal/client/models"
)

type SortBy string

const (
	ByTitle  SortBy = "title"
	ByYear   SortBy = "year"
	ByAuthor SortBy = "author"
)

// AllGenres matches every genre.
const AllGenres = "all"

// DefaultPageSize is the number of books shown per page.
const DefaultPageSize = 10

func ParseSortBy(s string) (SortBy, error) {
	switch v := SortBy(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return ByTitle, nil
	case ByTitle, ByYear, ByAuthor:
		return v, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want title, year or author)", s)
}

type Query struct {
	Search string
	Genre  string
	SortBy SortBy
}

// Filter returns the books matching q in display order. Search is a
// case-insensitive substring match over title, author and description.
// Titles and authors sort ascending, years newest first.
func Filter(books []models.Book, q Query) []models.Book {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	genre := strings.TrimSpace(q.Genre)
	anyGenre := genre == "" || strings.EqualFold(genre, AllGenres)

	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if !anyGenre && b.Genre != genre {
			continue
		}
		if needle != "" && !matches(b, needle) {
			continue
		}
		out = append(out, b)
	}

	slices.SortStableFunc(out, func(a, b models.Book) int {
		switch q.SortBy {
		case ByYear:
			return cmp.Compare(b.PublishedYear, a.PublishedYear)
		case ByAuthor:
			return cmp.Compare(strings.ToLower(a.Author), strings.ToLower(b.Author))
		default:
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	})
	return out
}

func matches(b models.Book, needle string) bool {
	return strings.Contains(strings.ToLower(b.Title), needle) ||
		strings.Contains(strings.ToLower(b.Author), needle) ||
		strings.Contains(strings.ToLower(b.Description), needle)
}

// Genres lists the distinct genres of books in ascending order.
func Genres(books []models.Book) []string {
	set := map[string]struct{}{}
	for _, b := range books {
		if b.Genre != "" {
			set[b.Genre] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}

// OwnedBy keeps the books created by userID.
func OwnedBy(books []models.Book, userID string) []models.Book {
	out := make([]models.Book, 0)
	for _, b := range books {
		if b.CreatedBy == userID {
			out = append(out, b)
		}
	}
	return out
}
