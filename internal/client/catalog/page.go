package catalog

import "github.com/dmitrijs2005/gophbooks/internal/client/models"

type Page struct {
	Items      []models.Book
	Page       int
	TotalPages int
	Total      int
}

// Paginate cuts books into pages of size and returns the requested 1-based
// page, clamped to the valid range. An empty list yields page 1 of 0.
func Paginate(books []models.Book, page, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(books)
	pages := (total + size - 1) / size

	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := min(start+size, total)
	items := []models.Book{}
	if start < end {
		items = books[start:end]
	}
	return Page{Items: items, Page: page, TotalPages: pages, Total: total}
}
