package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophbooks/internal/client/client"
	"github.com/dmitrijs2005/gophbooks/internal/client/config"
	"github.com/dmitrijs2005/gophbooks/internal/client/covers"
	"github.com/dmitrijs2005/gophbooks/internal/client/imagegen"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophbooks/internal/client/repositories/orders"
	"github.com/dmitrijs2005/gophbooks/internal/client/services"
	"github.com/dmitrijs2005/gophbooks/internal/common"
	"github.com/dmitrijs2005/gophbooks/internal/logging"
	"github.com/dmitrijs2005/gophbooks/internal/netx"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	authService     services.AuthService
	bookService     services.BookService
	commentService  services.CommentService
	purchaseService services.PurchaseService
	orderService    services.OrderService
	coverService    services.CoverService

	user   models.User
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and wires the services. Cover upload and
// mirroring are only available when S3 storage is configured.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	meta := metadata.NewSQLiteRepository(db)
	ledger := orders.NewSQLiteRepository(db)
	tokens := client.NewMetadataTokenStore(meta)
	api := client.NewRESTClient(client.NewGateway(c.APIBaseURL, c.RequestTimeout, tokens, log))

	var (
		store covers.Store
		dl    services.Downloader
	)
	if c.Covers().Enabled() {
		s3, err := covers.NewFromConfig(ctx, c.Covers())
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		store = s3
		dl = netx.NewDownloader(c.RequestTimeout, services.MaxCoverBytes)
	} else {
		log.Debug(ctx, "cover storage not configured")
	}

	books := services.NewBookService(api, log)

	return &App{
		config:          c,
		log:             log,
		db:              db,
		authService:     services.NewAuthService(api, tokens, meta, log),
		bookService:     books,
		commentService:  services.NewCommentService(api),
		purchaseService: services.NewPurchaseService(api, ledger, c.DefaultUnitPrice, log),
		orderService:    services.NewOrderService(api, ledger, log),
		coverService:    services.NewCoverService(books, meta, imagegen.New(c.ImageGen(), log), store, dl),
		reader:          bufio.NewReader(os.Stdin),
		out:             os.Stdout,
	}, nil
}

// Run resumes a stored session, if any, and blocks in the REPL until the
// user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if u, err := a.authService.CurrentUser(ctx); err == nil {
		a.user = u
	}

	a.printf("Welcome to the bookstore (type 'help' for commands)\n")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.user.ID != ""
}

func (a *App) isAdmin() bool {
	return a.user.IsAdmin()
}

func (a *App) requireUser() error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}
	return nil
}

func (a *App) requireAdmin() error {
	if err := a.requireUser(); err != nil {
		return err
	}
	if !a.isAdmin() {
		return common.ErrForbidden
	}
	return nil
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	if a.isAdmin() {
		return fmt.Sprintf("(%s admin)", a.user.ID)
	}
	return fmt.Sprintf("(%s)", a.user.ID)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// pageSize falls back to the catalog default when no config is attached.
func (a *App) pageSize() int {
	if a.config == nil || a.config.PageSize < 1 {
		return 0
	}
	return a.config.PageSize
}

func (a *App) defaultUnitPrice() int64 {
	if a.config == nil || a.config.DefaultUnitPrice <= 0 {
		return models.DefaultUnitPrice
	}
	return a.config.DefaultUnitPrice
}
