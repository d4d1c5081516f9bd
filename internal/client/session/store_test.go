package session

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
	"github.com/dmitrijs2005/gophshop/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophshop/internal/client/storage"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(openDB(t))

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	rec := Record{
		Credential: "tok-1",
		Identity:   models.Identity{ID: 3, Name: "Ann", Email: "ann@example.com", IsAdmin: true},
	}
	require.NoError(t, s.Save(ctx, rec))

	got, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	require.NoError(t, s.Clear(ctx))
	_, ok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_PartialRecordIsAbsent(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	require.NoError(t, metadata.NewSQLiteRepository(db).Set(ctx, keyCredential, []byte("orphan")))

	_, ok, err := NewSQLiteStore(db).Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_CorruptIdentity(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := metadata.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, keyCredential, []byte("tok")))
	require.NoError(t, repo.Set(ctx, keyIdentity, []byte("{not json")))

	_, _, err := NewSQLiteStore(db).Load(ctx)
	require.Error(t, err)
}

func TestSQLiteStore_ClearKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := metadata.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, "last_view", []byte("products")))

	s := NewSQLiteStore(db)
	require.NoError(t, s.Save(ctx, Record{Credential: "tok"}))
	require.NoError(t, s.Clear(ctx))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"last_view": []byte("products")}, all)
}
