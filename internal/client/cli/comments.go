package cli

import (
	"context"

	"github.com/dmitrijs2005/gophbooks/internal/client/models"
)

func (a *App) Comment(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("comment <bookId>")
	}
	if err := a.requireUser(); err != nil {
		return err
	}
	text, err := getMultiline(a.reader, "Enter comment", a.out)
	if err != nil {
		return err
	}
	c, err := a.commentService.Add(ctx, models.ID(args[0]), text)
	if err != nil {
		return err
	}
	a.printf("Comment %s added\n", c.ID)
	return nil
}

func (a *App) EditComment(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("editcomment <id>")
	}
	if err := a.requireUser(); err != nil {
		return err
	}
	text, err := getMultiline(a.reader, "Enter new text", a.out)
	if err != nil {
		return err
	}
	if _, err := a.commentService.Edit(ctx, models.ID(args[0]), text); err != nil {
		return err
	}
	a.printf("Comment %s updated\n", args[0])
	return nil
}

func (a *App) DeleteComment(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("delcomment <id>")
	}
	if err := a.requireUser(); err != nil {
		return err
	}
	ok, err := getConfirmation(a.reader, "Delete comment "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.commentService.Delete(ctx, models.ID(args[0])); err != nil {
		return err
	}
	a.printf("Comment %s deleted\n", args[0])
	return nil
}
