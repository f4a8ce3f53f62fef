package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techagentng/wefixsa/config"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "wefixsa_test.db"), &config.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), mr.Addr(), "", 0, "wefixsa:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestKeyValueStores(t *testing.T) {
	stores := map[string]func(t *testing.T) KeyValueStore{
		"memory": func(t *testing.T) KeyValueStore { return NewMemoryStore() },
		"sqlite": func(t *testing.T) KeyValueStore { return newSQLiteStore(t) },
		"redis": func(t *testing.T) KeyValueStore {
			store, _ := newRedisStore(t)
			return store
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := open(t)

			_, ok, err := kv.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, ReportsKey, `[{"id":"1"}]`))
			value, ok, err := kv.Get(ctx, ReportsKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"1"}]`, value)

			require.NoError(t, kv.Set(ctx, ReportsKey, `[]`))
			value, _, err = kv.Get(ctx, ReportsKey)
			require.NoError(t, err)
			assert.Equal(t, `[]`, value)

			require.NoError(t, kv.Set(ctx, CitizensKey, `[]`))
			require.NoError(t, kv.Delete(ctx, ReportsKey))
			_, ok, err = kv.Get(ctx, ReportsKey)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Delete(ctx, "never-set"))

			require.NoError(t, kv.Clear(ctx))
			_, ok, err = kv.Get(ctx, CitizensKey)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	first, err := OpenSQLite(ctx, path, &config.Config{})
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, SessionUserKey, `{"username":"alice"}`))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path, &config.Config{})
	require.NoError(t, err)
	defer second.Close()

	value, ok, err := second.Get(ctx, SessionUserKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"username":"alice"}`, value)
}

func TestRedisStoreClearKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, mr.Set("other-app:reports", "keep"))
	require.NoError(t, store.Set(ctx, ReportsKey, "[]"))
	assert.True(t, mr.Exists("wefixsa:reports"))

	require.NoError(t, store.Clear(ctx))

	assert.False(t, mr.Exists("wefixsa:reports"))
	got, err := mr.Get("other-app:reports")
	require.NoError(t, err)
	assert.Equal(t, "keep", got)
}

func TestNewRedisStoreFailsWhenServerIsDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisStore(context.Background(), addr, "", 0, "wefixsa:")
	assert.Error(t, err)
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, &config.Config{StorageDriver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, kv)

	kv, err = Open(ctx, &config.Config{StorageDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "open.db")})
	require.NoError(t, err)
	assert.IsType(t, &GormStore{}, kv)
	require.NoError(t, kv.Close())

	_, err = Open(ctx, &config.Config{StorageDriver: "floppy"})
	assert.Error(t, err)
}
