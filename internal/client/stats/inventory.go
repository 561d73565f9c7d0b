package stats

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type SortField string

const (
	SortTitle   SortField = "title"
	SortAuthor  SortField = "author"
	SortGenre   SortField = "genre"
	SortISBN    SortField = "isbn"
	SortStock   SortField = "stock"
	SortSold    SortField = "sold"
	SortRevenue SortField = "revenue"
)

// ParseSortField accepts the field names shown in the inventory header.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case SortTitle, SortAuthor, SortGenre, SortISBN, SortStock, SortSold, SortRevenue:
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// Search keeps rows whose title, author, genre or ISBN contains query,
// ignoring case. An empty query keeps everything.
func Search(rows []BookStats, query string) []BookStats {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(rows)
	}
	out := make([]BookStats, 0, len(rows))
	for _, r := range rows {
		b := r.Book
		for _, v := range []string{b.Title, b.Author, b.Genre, b.ISBN} {
			if strings.Contains(strings.ToLower(v), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Sort returns a sorted copy of rows. Numeric fields compare numerically,
// the rest lexically.
func Sort(rows []BookStats, field SortField, desc bool) []BookStats {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b BookStats) int {
		c := compare(a, b, field)
		if desc {
			return -c
		}
		return c
	})
	return out
}

func compare(a, b BookStats, field SortField) int {
	switch field {
	case SortAuthor:
		return cmp.Compare(a.Book.Author, b.Book.Author)
	case SortGenre:
		return cmp.Compare(a.Book.Genre, b.Book.Genre)
	case SortISBN:
		return cmp.Compare(a.Book.ISBN, b.Book.ISBN)
	case SortStock:
		return cmp.Compare(a.Book.Stock, b.Book.Stock)
	case SortSold:
		return cmp.Compare(a.TotalSold, b.TotalSold)
	case SortRevenue:
		return cmp.Compare(a.TotalRevenue, b.TotalRevenue)
	default:
		return cmp.Compare(a.Book.Title, b.Book.Title)
	}
}
