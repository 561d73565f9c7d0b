package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophbooks/internal/client/client"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	expireSession(ctx context.Context) error

	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Books(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Rate(ctx context.Context, args []string) error

	Comment(ctx context.Context, args []string) error
	EditComment(ctx context.Context, args []string) error
	DeleteComment(ctx context.Context, args []string) error

	Buy(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Inventory(ctx context.Context, args []string) error
	Stock(ctx context.Context, args []string) error

	APIKey(ctx context.Context) error
	Cover(ctx context.Context, args []string) error
}

// usageError is returned by handlers called with the wrong arguments.
type usageError string

func (u usageError) Error() string { return "Usage: " + string(u) }

const (
	helpAnonymous = "Available commands: signup, login, help, exit"
	helpUser      = "Available commands: books [search] [genre=] [sort=title|year|author] [page=] [mine], show <id>, " +
		"add, edit <id>, delete <id...>, rate <id> <1-5>, comment <bookId>, editcomment <id>, delcomment <id>, " +
		"buy <id> [qty], history, apikey, cover gen|upload|url|mirror <id> ..., whoami, logout, exit"
	helpAdmin = "Administrator: inventory [search] [sort=field] [desc], stock <id> <+n|-n> (buy is for customers)"
)

// runREPL reads commands line by line and dispatches them to a. It returns
// on EOF or when the user types "exit" or "quit".
//
// Handler errors are reported here. client.ErrUnauthenticated ends the
// session: the stored credentials are dropped and the user is asked to log
// in again.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("books%s> ", prefixSpace(statusFn())))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		report(ctx, a, dispatch(ctx, a, cmd, args))
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		switch {
		case !a.isLoggedIn():
			printlnFn(helpAnonymous)
		case a.isAdmin():
			printlnFn(helpUser)
			printlnFn(helpAdmin)
		default:
			printlnFn(helpUser)
		}
		return nil

	case "signup", "register":
		return a.Signup(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)

	case "books", "l", "list":
		return a.Books(ctx, args)
	case "show":
		return a.Show(ctx, args)
	case "add":
		return a.Add(ctx)
	case "edit":
		return a.Edit(ctx, args)
	case "delete", "rm":
		return a.Delete(ctx, args)
	case "rate":
		return a.Rate(ctx, args)

	case "comment":
		return a.Comment(ctx, args)
	case "editcomment":
		return a.EditComment(ctx, args)
	case "delcomment":
		return a.DeleteComment(ctx, args)

	case "buy":
		return a.Buy(ctx, args)
	case "history":
		return a.History(ctx)
	case "inventory":
		return a.Inventory(ctx, args)
	case "stock":
		return a.Stock(ctx, args)

	case "apikey":
		return a.APIKey(ctx)
	case "cover":
		return a.Cover(ctx, args)
	}

	printlnFn("Unknown command:", cmd)
	return nil
}

func report(ctx context.Context, a execIface, err error) {
	var usage usageError
	switch {
	case err == nil:
	case errors.Is(err, client.ErrUnauthenticated):
		if cerr := a.expireSession(ctx); cerr != nil {
			printlnFn("Error:", cerr)
		}
		printlnFn("Your session has expired. Please log in again.")
	case errors.As(err, &usage):
		printlnFn(usage.Error())
	default:
		printlnFn("Error:", err)
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
