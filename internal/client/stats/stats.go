// Package stats derives sales figures from the book list and the order ledger.
//
// Store-wide totals are sums over the per-book rows, so they always agree with
// the table an administrator sees. Orders that reference a book no longer in
// the catalog are reported separately.
package stats

import (
	"sort"

	"github.com/dmitrijs2005/gophbooks/internal/client/models"
)

// BookStats is one row of the inventory table.
type BookStats struct {
	Book         models.Book
	TotalSold    int
	TotalRevenue int64
}

type Report struct {
	Books []BookStats

	BookCount    int
	TotalStock   int
	TotalSold    int
	TotalRevenue int64

	UnattributedSold    int
	UnattributedRevenue int64
}

type bookTotals struct {
	sold    int
	revenue int64
}

// Compute builds per-book and store-wide totals. Rows keep the order of books
// and a repeated book id is counted on its first row only.
func Compute(books []models.Book, orders []models.Order) Report {
	byBook := make(map[models.ID]*bookTotals, len(books))
	for _, o := range orders {
		t, ok := byBook[o.BookID]
		if !ok {
			t = &bookTotals{}
			byBook[o.BookID] = t
		}
		t.sold += o.Quantity
		t.revenue += o.TotalPrice
	}

	r := Report{Books: make([]BookStats, 0, len(books))}
	seen := make(map[models.ID]bool, len(books))
	for _, b := range books {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true

		row := BookStats{Book: b}
		if t, ok := byBook[b.ID]; ok {
			row.TotalSold = t.sold
			row.TotalRevenue = t.revenue
		}

		r.Books = append(r.Books, row)
		r.TotalStock += b.Stock
		r.TotalSold += row.TotalSold
		r.TotalRevenue += row.TotalRevenue
	}
	r.BookCount = len(r.Books)

	for id, t := range byBook {
		if !seen[id] {
			r.UnattributedSold += t.sold
			r.UnattributedRevenue += t.revenue
		}
	}
	return r
}

// UserHistory returns the orders of userID, newest first. Orders with equal
// timestamps keep their ledger order.
func UserHistory(orders []models.Order, userID string) []models.Order {
	out := make([]models.Order, 0)
	for _, o := range orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PurchasedAt.After(out[j].PurchasedAt)
	})
	return out
}
