package orders

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/dbx"
)

// Conn is what the repository needs from the database: plain queries plus
// transactions for batch upserts. *sql.DB satisfies it.
type Conn interface {
	dbx.DBTX
	dbx.TxBeginner
}

type SQLiteRepository struct {
	db Conn
}

func NewSQLiteRepository(db Conn) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectOrders = `SELECT id, book_id, user_id, quantity, total_price, purchased_at FROM orders`

func (r *SQLiteRepository) Insert(ctx context.Context, o models.Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, book_id, user_id, quantity, total_price, purchased_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(o.ID), string(o.BookID), o.UserID, o.Quantity, o.TotalPrice, o.PurchasedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", o.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, o := range orders {
			if err := upsert(ctx, tx, o); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsert(ctx context.Context, db dbx.DBTX, o models.Order) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO orders (id, book_id, user_id, quantity, total_price, purchased_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		string(o.ID), string(o.BookID), o.UserID, o.Quantity, o.TotalPrice, o.PurchasedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert order %s: %w", o.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.query(ctx, selectOrders+` ORDER BY seq`)
}

func (r *SQLiteRepository) GetByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.query(ctx, selectOrders+` WHERE user_id = ? ORDER BY seq`, userID)
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...any) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}
	defer rows.Close()

	result := []models.Order{}
	for rows.Next() {
		var (
			o      models.Order
			id     string
			bookID string
			ms     int64
		)
		if err := rows.Scan(&id, &bookID, &o.UserID, &o.Quantity, &o.TotalPrice, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.ID = models.ID(id)
		o.BookID = models.ID(bookID)
		o.PurchasedAt = time.UnixMilli(ms).UTC()
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return result, nil
}

var _ Repository = (*SQLiteRepository)(nil)
var _ Conn = (*sql.DB)(nil)
