package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/client/stats"
)

// Buy shows the total and asks for confirmation before purchasing. The
// quantity defaults to one.
func (a *App) Buy(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("buy <id> [qty]")
	}
	if err := a.requireUser(); err != nil {
		return err
	}
	if a.isAdmin() {
		return models.ErrAdminPurchase
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return usageError("buy <id> [qty]")
		}
		qty = n
	}

	id := models.ID(args[0])
	b, err := a.bookService.Get(ctx, id)
	if err != nil {
		return err
	}
	plan, err := models.PlanPurchase(b, qty, a.defaultUnitPrice())
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Buy %d x %q for %s?", qty, b.Title, formatPrice(plan.TotalPrice))
	ok, err := getConfirmation(a.reader, prompt, a.out)
	if err != nil || !ok {
		return err
	}

	r, err := a.purchaseService.Purchase(ctx, a.user, id, qty)
	if err != nil {
		return err
	}
	a.printf("Order %s: %d x %q, total %s. %d left in stock\n",
		r.Order.ID, r.Order.Quantity, b.Title, formatPrice(r.Order.TotalPrice), r.Book.Stock)
	return nil
}

func (a *App) History(ctx context.Context) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	list, err := a.orderService.History(ctx, a.user)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.printf("No orders yet\n")
		return nil
	}

	titles := map[models.ID]string{}
	if books, err := a.bookService.List(ctx); err == nil {
		for _, b := range books {
			titles[b.ID] = b.Title
		}
	} else {
		a.log.Warn(ctx, "book titles unavailable", "error", err)
	}

	var spent int64
	tw := newTable(a.out, "DATE", "ORDER", "BOOK", "QTY", "TOTAL")
	for _, o := range list {
		title, ok := titles[o.BookID]
		if !ok {
			title = string(o.BookID)
		}
		row(tw, formatTime(o.PurchasedAt), o.ID, truncate(title, 40), o.Quantity, formatPrice(o.TotalPrice))
		spent += o.TotalPrice
	}
	_ = tw.Flush()
	a.printf("%d orders, %s spent\n", len(list), formatPrice(spent))
	return nil
}

// Inventory prints the sales report. Free words filter rows, sort=field
// orders them and "desc" reverses the order.
func (a *App) Inventory(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}

	var (
		field = stats.SortTitle
		desc  bool
		words []string
	)
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "sort="):
			f, err := stats.ParseSortField(strings.TrimPrefix(arg, "sort="))
			if err != nil {
				return err
			}
			field = f
		case arg == "desc":
			desc = true
		default:
			words = append(words, arg)
		}
	}

	r, err := a.orderService.SalesReport(ctx, a.user)
	if err != nil {
		return err
	}
	rows := stats.Sort(stats.Search(r.Books, strings.Join(words, " ")), field, desc)

	tw := newTable(a.out, "ID", "TITLE", "AUTHOR", "GENRE", "ISBN", "STOCK", "SOLD", "REVENUE")
	for _, s := range rows {
		b := s.Book
		row(tw, b.ID, truncate(b.Title, 32), truncate(b.Author, 20), b.Genre, b.ISBN, b.Stock, s.TotalSold, formatPrice(s.TotalRevenue))
	}
	_ = tw.Flush()

	a.printf("Books: %d  Stock: %d  Sold: %d  Revenue: %s\n", r.BookCount, r.TotalStock, r.TotalSold, formatPrice(r.TotalRevenue))
	if r.UnattributedSold > 0 {
		a.printf("Orders for removed books: %d sold, %s\n", r.UnattributedSold, formatPrice(r.UnattributedRevenue))
	}
	return nil
}

// Stock adjusts a book's stock by a signed amount.
func (a *App) Stock(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("stock <id> <+n|-n>")
	}
	if err := a.requireAdmin(); err != nil {
		return err
	}
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return usageError("stock <id> <+n|-n>")
	}
	b, err := a.bookService.SetStock(ctx, a.user, models.ID(args[0]), delta)
	if err != nil {
		return err
	}
	a.printf("%q stock is now %d\n", b.Title, b.Stock)
	return nil
}
