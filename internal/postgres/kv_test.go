package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB maps the three kv_store statements onto a map.
type fakeDB struct {
	rows map[string]string
	err  error
	sql  []string
}

type fakeRow struct {
	v   string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.v
	return nil
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	switch len(args) {
	case 2:
		f.rows[args[0].(string)] = args[1].(string)
	case 1:
		delete(f.rows, args[0].(string))
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	v, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{v: v}
}

func TestKV(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{rows: map[string]string{}}
	kv := NewKV(db)

	require.NoError(t, kv.EnsureSchema(ctx))
	assert.Contains(t, db.sql[0], "CREATE TABLE IF NOT EXISTS kv_store")

	_, ok, err := kv.Get(ctx, "app_offers_v1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "app_offers_v1", "[]"))
	v, ok, err := kv.Get(ctx, "app_offers_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, kv.Remove(ctx, "app_offers_v1"))
	_, ok, _ = kv.Get(ctx, "app_offers_v1")
	assert.False(t, ok)
}

func TestKV_ErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	kv := NewKV(&fakeDB{rows: map[string]string{}, err: boom})

	_, _, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, kv.Set(ctx, "k", "v"), boom)
	assert.ErrorIs(t, kv.Remove(ctx, "k"), boom)
}
