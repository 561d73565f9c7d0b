package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbooks/internal/client/client"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophbooks/internal/client/repositories/orders"
	"github.com/dmitrijs2005/gophbooks/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T) orders.Repository {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return orders.NewSQLiteRepository(db)
}

type failingLedger struct {
	orders.Repository
	err error
}

func (l failingLedger) Insert(context.Context, models.Order) error { return l.err }

func fixOrderID(t *testing.T, id string) {
	t.Helper()
	orig := newOrderID
	newOrderID = func() string { return id }
	t.Cleanup(func() { newOrderID = orig })
}

var buyer = models.User{ID: "kim", Role: "user"}

func TestPurchase_UpdatesStockAndRecordsOrder(t *testing.T) {
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	fixClock(t, at)
	fixOrderID(t, "o-1")

	api := newFakeAPI(models.Book{ID: "b1", Title: "Dune", Stock: 5, Price: price(1000)})
	ledger := newLedger(t)
	svc := NewPurchaseService(api, ledger, 0, logging.NewDiscard())

	r, err := svc.Purchase(context.Background(), buyer, "b1", 3)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Book.Stock)
	assert.Equal(t, int64(3000), r.Purchase.TotalPrice)
	assert.Equal(t, []map[string]any{{"stock": 2}}, api.Patches)

	want := models.Order{ID: "o-1", BookID: "b1", UserID: "kim", Quantity: 3, TotalPrice: 3000, PurchasedAt: at}
	assert.Equal(t, want, r.Order)

	got, err := ledger.GetByUser(context.Background(), "kim")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want.ID, got[0].ID)
	assert.Equal(t, want.TotalPrice, got[0].TotalPrice)
	assert.True(t, want.PurchasedAt.Equal(got[0].PurchasedAt))
}

func TestPurchase_DefaultPrice(t *testing.T) {
	api := newFakeAPI(models.Book{ID: "b1", Stock: 1})
	svc := NewPurchaseService(api, newLedger(t), 0, logging.NewDiscard())

	r, err := svc.Purchase(context.Background(), buyer, "b1", 1)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultUnitPrice, r.Order.TotalPrice)
}

func TestPurchase_RejectedLeavesStock(t *testing.T) {
	tests := []struct {
		name string
		qty  int
		want error
	}{
		{"over stock", 6, models.ErrInsufficientStock},
		{"zero", 0, models.ErrInvalidQuantity},
		{"negative", -2, models.ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(models.Book{ID: "b1", Stock: 5})
			ledger := newLedger(t)
			svc := NewPurchaseService(api, ledger, 1000, logging.NewDiscard())

			_, err := svc.Purchase(context.Background(), buyer, "b1", tt.qty)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, api.Patches)
			assert.Equal(t, 5, api.books["b1"].Stock)

			all, err := ledger.GetAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestPurchase_StockUpdateFails(t *testing.T) {
	api := newFakeAPI(models.Book{ID: "b1", Stock: 5})
	api.PatchErr = client.ErrUnavailable
	ledger := newLedger(t)
	svc := NewPurchaseService(api, ledger, 1000, logging.NewDiscard())

	_, err := svc.Purchase(context.Background(), buyer, "b1", 1)
	require.ErrorIs(t, err, client.ErrUnavailable)

	all, err := ledger.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPurchase_LedgerFailureRestoresStock(t *testing.T) {
	api := newFakeAPI(models.Book{ID: "b1", Stock: 5})
	boom := errors.New("disk full")
	svc := NewPurchaseService(api, failingLedger{err: boom}, 1000, logging.NewDiscard())

	_, err := svc.Purchase(context.Background(), buyer, "b1", 2)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []map[string]any{{"stock": 3}, {"stock": 5}}, api.Patches)
	assert.Equal(t, 5, api.books["b1"].Stock)
}

func TestPurchase_RestoreFailureReportsBoth(t *testing.T) {
	api := newFakeAPI(models.Book{ID: "b1", Stock: 5})
	api.PatchErr = client.ErrUnavailable
	api.PatchErrAfter = 1
	boom := errors.New("disk full")
	svc := NewPurchaseService(api, failingLedger{err: boom}, 1000, logging.NewDiscard())

	_, err := svc.Purchase(context.Background(), buyer, "b1", 2)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, 3, api.books["b1"].Stock)
}

func TestPurchase_UnknownBook(t *testing.T) {
	api := newFakeAPI()
	svc := NewPurchaseService(api, newLedger(t), 1000, logging.NewDiscard())

	_, err := svc.Purchase(context.Background(), buyer, "nope", 1)
	assert.True(t, client.IsStatus(err, 404))
}

func TestPurchase_NoContentPatchKeepsPlannedStock(t *testing.T) {
	fixClock(t, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	fixOrderID(t, "o-1")

	var patched map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/book/b1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"b1","title":"Dune","stock":5,"price":1000}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/book/b1":
			_ = json.NewDecoder(r.Body).Decode(&patched)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	tokens := client.NewMetadataTokenStore(metadata.NewMemoryRepository())
	require.NoError(t, tokens.SaveTokens(ctx, "A1", "R1"))
	api := client.NewRESTClient(client.NewGateway(srv.URL, 5*time.Second, tokens, logging.NewDiscard()))
	ledger := newLedger(t)
	svc := NewPurchaseService(api, ledger, 0, logging.NewDiscard())

	r, err := svc.Purchase(ctx, buyer, "b1", 3)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"stock": float64(2)}, patched)
	assert.Equal(t, models.ID("b1"), r.Book.ID)
	assert.Equal(t, "Dune", r.Book.Title)
	assert.Equal(t, 2, r.Book.Stock)
	assert.Equal(t, 2, r.Purchase.StockAfter)
	assert.Equal(t, int64(3000), r.Order.TotalPrice)

	got, err := ledger.GetByUser(ctx, "kim")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.ID("o-1"), got[0].ID)
}

func TestPurchase_AdminCannotBuy(t *testing.T) {
	api := newFakeAPI(models.Book{ID: "b1", Stock: 5})
	ledger := newLedger(t)
	svc := NewPurchaseService(api, ledger, 1000, logging.NewDiscard())

	_, err := svc.Purchase(context.Background(), admin, "b1", 1)
	require.ErrorIs(t, err, models.ErrAdminPurchase)
	assert.Empty(t, api.Patches)
	assert.Equal(t, 5, api.books["b1"].Stock)

	all, err := ledger.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
