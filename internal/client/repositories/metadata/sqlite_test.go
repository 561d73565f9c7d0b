package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

// implementations returns every Repository under test, sharing one contract.
func implementations(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"sqlite": NewSQLiteRepository(setupDB(t)),
		"memory": NewMemoryRepository(),
	}
}

func TestRepository_SetGetOverwrite(t *testing.T) {
	for name, r := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, r.Set(ctx, "access_token", []byte("old")))
			require.NoError(t, r.Set(ctx, "access_token", []byte("new")))

			v, err := r.Get(ctx, "access_token")
			require.NoError(t, err)
			assert.Equal(t, []byte("new"), v)
		})
	}
}

func TestRepository_MissingKeyIsNilNil(t *testing.T) {
	for name, r := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			v, err := r.Get(context.Background(), "absent")
			require.NoError(t, err)
			assert.Nil(t, v)
		})
	}
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	for name, r := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Set(ctx, "x", []byte{1}))
			require.NoError(t, r.Delete(ctx, "x"))
			require.NoError(t, r.Delete(ctx, "x"))

			v, err := r.Get(ctx, "x")
			require.NoError(t, err)
			assert.Nil(t, v)
		})
	}
}

func TestRepository_ListAndClear(t *testing.T) {
	for name, r := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
			require.NoError(t, r.Set(ctx, "b", []byte{0xBB, 0xCC}))

			m, err := r.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string][]byte{"a": {0xAA}, "b": {0xBB, 0xCC}}, m)

			require.NoError(t, r.Clear(ctx))
			m, err = r.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, m)
		})
	}
}

func TestStringHelpers(t *testing.T) {
	for name, r := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, SetString(ctx, r, "user_id", "u1"))
			s, err := GetString(ctx, r, "user_id")
			require.NoError(t, err)
			assert.Equal(t, "u1", s)

			require.NoError(t, SetString(ctx, r, "user_id", ""))
			v, err := r.Get(ctx, "user_id")
			require.NoError(t, err)
			assert.Nil(t, v)

			require.NoError(t, SetString(ctx, r, "k1", "1"))
			require.NoError(t, SetString(ctx, r, "k2", "2"))
			require.NoError(t, SetString(ctx, r, "k3", "3"))
			require.NoError(t, DeleteKeys(ctx, r, "k1", "k2"))
			m, err := r.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string][]byte{"k3": []byte("3")}, m)
		})
	}
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	in := []byte("abc")
	require.NoError(t, r.Set(ctx, "k", in))
	in[0] = 'z'

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)
	v[0] = 'q'

	again, _ := r.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestSQLite_ErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, `get metadata "k"`)

	require.ErrorContains(t, r.Set(ctx, "k", []byte("v")), `set metadata "k"`)
	require.ErrorContains(t, r.Delete(ctx, "k"), `delete metadata "k"`)
	require.ErrorContains(t, r.Clear(ctx), "clear metadata")

	_, err = r.List(ctx)
	require.ErrorContains(t, err, "list metadata")
}

func TestSQLite_ListScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"key"}).AddRow("only-one-column")
	mock.ExpectQuery(`SELECT key, value FROM metadata`).WillReturnRows(rows)

	_, err = NewSQLiteRepository(db).List(context.Background())
	require.ErrorContains(t, err, "scan metadata row")
	require.NoError(t, mock.ExpectationsWereMet())
}
