package cli

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophbooks/internal/client/covers"
	"github.com/dmitrijs2005/gophbooks/internal/client/imagegen"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
)

const coverUsage = "cover gen <id> [style] | cover upload <id> <file> | cover url <id> <url> | cover mirror <id> <url>"

// APIKey shows the stored image generator key (masked) and replaces it.
// An empty answer keeps the key, "-" removes it.
func (a *App) APIKey(ctx context.Context) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	current, err := a.coverService.APIKey(ctx)
	if err != nil {
		return err
	}
	if current == "" {
		a.printf("No image generator API key stored\n")
	} else {
		a.printf("Stored key: %s\n", maskKey(current))
	}

	v, err := getSimpleText(a.reader, "Enter new key (empty keeps, '-' removes)", a.out)
	if err != nil || v == "" {
		return err
	}
	if v == "-" {
		v = ""
	}
	if err := a.coverService.SetAPIKey(ctx, v); err != nil {
		return err
	}
	a.printf("API key updated\n")
	return nil
}

func (a *App) Cover(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError(coverUsage)
	}
	if err := a.requireUser(); err != nil {
		return err
	}
	sub, id, rest := args[0], models.ID(args[1]), args[2:]

	switch {
	case sub == "gen" && len(rest) <= 1:
		style := ""
		if len(rest) == 1 {
			style = rest[0]
		}
		return a.generateCover(ctx, id, style)
	case sub == "upload" && len(rest) == 1:
		return a.reportCover(a.coverService.Upload(ctx, a.user, id, rest[0]))
	case sub == "url" && len(rest) == 1:
		return a.reportCover(a.coverService.Apply(ctx, a.user, id, rest[0]))
	case sub == "mirror" && len(rest) == 1:
		return a.reportCover(a.coverService.Mirror(ctx, a.user, id, rest[0]))
	}
	return usageError(coverUsage)
}

// generateCover asks the generator for a cover and, when confirmed, sets it.
// Generated URLs are short-lived, so the image is copied into cover storage
// when it is configured.
func (a *App) generateCover(ctx context.Context, id models.ID, style string) error {
	if style != "" && !slices.Contains(imagegen.Styles, style) {
		return usageError("cover gen <id> [" + strings.Join(imagegen.Styles, "|") + "]")
	}
	keywords, err := getSimpleText(a.reader, "Keywords (optional)", a.out)
	if err != nil {
		return err
	}

	a.printf("Generating...\n")
	res, err := a.coverService.Generate(ctx, id, keywords, style)
	if err != nil {
		return err
	}
	a.printf("Prompt: %s\nImage:  %s\n", res.Prompt, res.ImageURL)

	ok, err := getConfirmation(a.reader, "Use this image as the cover?", a.out)
	if err != nil || !ok {
		return err
	}

	b, err := a.coverService.Mirror(ctx, a.user, id, res.ImageURL)
	if errors.Is(err, covers.ErrNotConfigured) {
		b, err = a.coverService.Apply(ctx, a.user, id, res.ImageURL)
	}
	return a.reportCover(b, err)
}

func (a *App) reportCover(b models.Book, err error) error {
	if err != nil {
		return err
	}
	a.printf("Cover of %q set to %s\n", b.Title, b.CoverImage)
	return nil
}

func maskKey(k string) string {
	if len(k) <= 8 {
		return strings.Repeat("*", len(k))
	}
	return k[:3] + strings.Repeat("*", len(k)-7) + k[len(k)-4:]
}
