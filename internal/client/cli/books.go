package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbooks/internal/client/catalog"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
)

// nowFn is a test seam for the add-book form defaults.
var nowFn = time.Now

// Books lists the catalog. Free words are a search query; genre=, sort= and
// page= refine it and "mine" limits the list to the user's own books.
func (a *App) Books(ctx context.Context, args []string) error {
	if err := a.requireUser(); err != nil {
		return err
	}

	var (
		q    catalog.Query
		page = 1
		mine bool
		words []string
	)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		switch {
		case ok && key == "genre":
			q.Genre = value
		case ok && key == "sort":
			by, err := catalog.ParseSortBy(value)
			if err != nil {
				return err
			}
			q.SortBy = by
		case ok && key == "page":
			n, err := strconv.Atoi(value)
			if err != nil {
				return usageError("books [search] [genre=] [sort=title|year|author] [page=N] [mine]")
			}
			page = n
		case arg == "mine":
			mine = true
		default:
			words = append(words, arg)
		}
	}
	q.Search = strings.Join(words, " ")

	var (
		books []models.Book
		err   error
	)
	if mine {
		books, err = a.bookService.ListMine(ctx, a.user)
	} else {
		books, err = a.bookService.List(ctx)
	}
	if err != nil {
		return err
	}

	p := catalog.Paginate(catalog.Filter(books, q), page, a.pageSize())
	if p.Total == 0 {
		a.printf("No books found\n")
		return nil
	}

	tw := newTable(a.out, "ID", "TITLE", "AUTHOR", "GENRE", "YEAR", "STOCK", "RATING")
	for _, b := range p.Items {
		row(tw, b.ID, truncate(b.Title, 40), truncate(b.Author, 24), b.Genre, b.PublishedYear, b.Stock,
			formatRating(catalog.AverageRating(b), len(b.Ratings)))
	}
	_ = tw.Flush()

	a.printf("Page %d/%d, %d books. Genres: %s\n", p.Page, p.TotalPages, p.Total,
		strings.Join(append([]string{catalog.AllGenres}, catalog.Genres(books)...), ", "))
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("show <id>")
	}
	if err := a.requireUser(); err != nil {
		return err
	}

	b, err := a.bookService.Get(ctx, models.ID(args[0]))
	if err != nil {
		return err
	}

	a.printf("%s\n", b.Title)
	a.printf("  Author:    %s\n", b.Author)
	a.printf("  Genre:     %s\n", b.Genre)
	a.printf("  Published: %d\n", b.PublishedYear)
	if b.ISBN != "" {
		a.printf("  ISBN:      %s\n", b.ISBN)
	}
	a.printf("  Price:     %s\n", formatPrice(b.UnitPrice(a.defaultUnitPrice())))
	a.printf("  Stock:     %d\n", b.Stock)
	a.printf("  Rating:    %s\n", formatRating(catalog.AverageRating(b), len(b.Ratings)))
	if mine := catalog.UserRating(b, a.user.ID); mine > 0 {
		a.printf("  You rated: %d\n", mine)
	}
	if b.CoverImage != "" {
		a.printf("  Cover:     %s\n", b.CoverImage)
	}
	if b.CreatedBy != "" {
		a.printf("  Added by:  %s\n", b.CreatedBy)
	}
	if b.Description != "" {
		a.printf("\n%s\n", b.Description)
	}

	if len(b.Comments) > 0 {
		a.printf("\nComments:\n")
		for _, c := range b.Comments {
			a.printf("  [%s] %s, %s\n    %s\n", c.ID, c.UserID, formatTime(c.Timestamp), c.Text)
		}
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	in, err := a.bookForm(models.NewBookInput(nowFn()))
	if err != nil {
		return err
	}
	b, err := a.bookService.Create(ctx, a.user, in)
	if err != nil {
		return err
	}
	a.printf("Created book %s\n", b.ID)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("edit <id>")
	}
	if err := a.requireUser(); err != nil {
		return err
	}

	id := models.ID(args[0])
	b, err := a.bookService.Get(ctx, id)
	if err != nil {
		return err
	}
	in, err := a.bookForm(models.InputFromBook(b))
	if err != nil {
		return err
	}
	if _, err := a.bookService.Update(ctx, a.user, id, in); err != nil {
		return err
	}
	a.printf("Updated book %s\n", id)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("delete <id...>")
	}
	if err := a.requireUser(); err != nil {
		return err
	}

	ok, err := getConfirmation(a.reader, fmt.Sprintf("Delete %d book(s)?", len(args)), a.out)
	if err != nil || !ok {
		return err
	}

	ids := make([]models.ID, len(args))
	for i, arg := range args {
		ids[i] = models.ID(arg)
	}
	if err := a.bookService.DeleteMany(ctx, a.user, ids); err != nil {
		return err
	}
	a.printf("Deleted\n")
	return nil
}

func (a *App) Rate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("rate <id> <1-5>")
	}
	if err := a.requireUser(); err != nil {
		return err
	}
	score, err := strconv.Atoi(args[1])
	if err != nil {
		return usageError("rate <id> <1-5>")
	}

	b, err := a.bookService.Rate(ctx, a.user, models.ID(args[0]), score)
	if err != nil {
		return err
	}
	a.printf("Rated %q %d. Average %s\n", b.Title, score, formatRating(catalog.AverageRating(b), len(b.Ratings)))
	return nil
}

// bookForm prompts for every field of in. An empty answer keeps the value
// shown in brackets.
func (a *App) bookForm(in models.BookInput) (models.BookInput, error) {
	text := func(label string, dst *string) error {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", label, *dst), a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*dst = v
		}
		return nil
	}
	number := func(label string, dst *int64) error {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%d]", label, *dst), a.out)
		if err != nil {
			return err
		}
		if v == "" {
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", label, v)
		}
		*dst = n
		return nil
	}

	year, price, stock := int64(in.PublishedYear), in.Price, int64(in.Stock)
	for _, step := range []func() error{
		func() error { return text("Title", &in.Title) },
		func() error { return text("Author", &in.Author) },
		func() error { return text("Genre", &in.Genre) },
		func() error { return number("Published year", &year) },
		func() error { return text("ISBN", &in.ISBN) },
		func() error { return number("Price", &price) },
		func() error { return number("Stock", &stock) },
		func() error { return text("Cover image URL", &in.CoverImage) },
	} {
		if err := step(); err != nil {
			return models.BookInput{}, err
		}
	}

	desc, err := getMultiline(a.reader, fmt.Sprintf("Description (empty keeps current, %d chars)", len(in.Description)), a.out)
	if err != nil {
		return models.BookInput{}, err
	}
	if desc != "" {
		in.Description = desc
	}

	in.PublishedYear, in.Price, in.Stock = int(year), price, int(stock)
	return in, nil
}
