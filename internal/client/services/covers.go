package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophbooks/internal/client/covers"
	"github.com/dmitrijs2005/gophbooks/internal/client/imagegen"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophbooks/internal/common"
	"github.com/dmitrijs2005/gophbooks/internal/filex"
)

// MaxCoverBytes bounds uploaded and mirrored cover images.
const MaxCoverBytes = 10 << 20

type CoverGenerator interface {
	Generate(ctx context.Context, apiKey string, req imagegen.Request) (imagegen.Result, error)
}

type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, string, error)
}

// CoverService produces and assigns cover images.
//
//   - SetAPIKey / APIKey: the image generator key kept in local metadata.
//   - Generate: ask the generator for a cover of an existing book.
//   - Apply: set a book's cover to a URL.
//   - Upload: store a local image file and set it as the cover.
//   - Mirror: copy a remote image (e.g. a short-lived generator URL) into
//     cover storage and set it as the cover.
type CoverService interface {
	SetAPIKey(ctx context.Context, key string) error
	APIKey(ctx context.Context) (string, error)
	Generate(ctx context.Context, bookID models.ID, keywords, style string) (imagegen.Result, error)
	Apply(ctx context.Context, u models.User, bookID models.ID, url string) (models.Book, error)
	Upload(ctx context.Context, u models.User, bookID models.ID, path string) (models.Book, error)
	Mirror(ctx context.Context, u models.User, bookID models.ID, url string) (models.Book, error)
}

type coverService struct {
	books BookService
	meta  metadata.Repository
	gen   CoverGenerator
	store covers.Store
	dl    Downloader
}

// NewCoverService wires the cover operations. store and dl may be nil when
// cover storage is not configured; Upload and Mirror then fail with
// covers.ErrNotConfigured.
func NewCoverService(books BookService, meta metadata.Repository, gen CoverGenerator, store covers.Store, dl Downloader) CoverService {
	return &coverService{books: books, meta: meta, gen: gen, store: store, dl: dl}
}

func (s *coverService) SetAPIKey(ctx context.Context, key string) error {
	return metadata.SetString(ctx, s.meta, common.MetaImageAPIKey, strings.TrimSpace(key))
}

func (s *coverService) APIKey(ctx context.Context) (string, error) {
	return metadata.GetString(ctx, s.meta, common.MetaImageAPIKey)
}

func (s *coverService) Generate(ctx context.Context, bookID models.ID, keywords, style string) (imagegen.Result, error) {
	key, err := s.APIKey(ctx)
	if err != nil {
		return imagegen.Result{}, err
	}
	if key == "" {
		return imagegen.Result{}, imagegen.ErrMissingAPIKey
	}
	b, err := s.books.Get(ctx, bookID)
	if err != nil {
		return imagegen.Result{}, err
	}
	return s.gen.Generate(ctx, key, imagegen.Request{
		Title:       b.Title,
		Genre:       b.Genre,
		Description: b.Description,
		Keywords:    keywords,
		Style:       style,
	})
}

func (s *coverService) Apply(ctx context.Context, u models.User, bookID models.ID, url string) (models.Book, error) {
	return s.books.SetCover(ctx, u, bookID, strings.TrimSpace(url))
}

func (s *coverService) Upload(ctx context.Context, u models.User, bookID models.ID, path string) (models.Book, error) {
	if s.store == nil {
		return models.Book{}, covers.ErrNotConfigured
	}
	data, ct, err := filex.ReadImage(path, MaxCoverBytes)
	if err != nil {
		return models.Book{}, err
	}
	return s.storeAndApply(ctx, u, bookID, data, ct)
}

func (s *coverService) Mirror(ctx context.Context, u models.User, bookID models.ID, url string) (models.Book, error) {
	if s.store == nil || s.dl == nil {
		return models.Book{}, covers.ErrNotConfigured
	}
	data, ct, err := s.dl.Download(ctx, url)
	if err != nil {
		return models.Book{}, err
	}
	if !strings.HasPrefix(ct, "image/") {
		return models.Book{}, fmt.Errorf("%w: %s serves %q", filex.ErrNotImage, url, ct)
	}
	return s.storeAndApply(ctx, u, bookID, data, ct)
}

func (s *coverService) storeAndApply(ctx context.Context, u models.User, bookID models.ID, data []byte, ct string) (models.Book, error) {
	b, err := s.books.Get(ctx, bookID)
	if err != nil {
		return models.Book{}, err
	}
	if !canEdit(u, b) {
		return models.Book{}, common.ErrForbidden
	}

	url, err := s.store.Put(ctx, covers.Key(bookID.String(), filex.ExtensionFor(ct)), ct, data)
	if err != nil {
		return models.Book{}, err
	}
	return s.books.SetCover(ctx, u, bookID, url)
}
