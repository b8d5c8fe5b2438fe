package manifest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/runtimemodule"
)

var _ Store = (*SQLiteStore)(nil)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreSaveAndLatest(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	_, err := store.Latest(ctx, false)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	first := NewSnapshot("build-1", false, runtimemodule.SourceMap{"virtual-a": "a", "virtual-b": "b"}, t0)
	first.Plugins = []PluginVersion{{Name: "route-manifest", Version: "v1.0.0"}}
	second := NewSnapshot("build-2", false, runtimemodule.SourceMap{"virtual-a": "a2"}, t0.Add(time.Minute))
	ssr := NewSnapshot("build-3", true, runtimemodule.SourceMap{"virtual-a": "ssr"}, t0.Add(2*time.Minute))

	for _, s := range []*Snapshot{first, second, ssr} {
		require.NoError(t, store.Save(ctx, s))
	}

	latest, err := store.Latest(ctx, false)
	require.NoError(t, err)
	require.Equal(t, second, latest)

	latestSSR, err := store.Latest(ctx, true)
	require.NoError(t, err)
	require.Equal(t, "build-3", latestSSR.BuildID)

	got, err := store.Get(ctx, "build-1")
	require.NoError(t, err)
	require.Equal(t, first, got)

	_, err = store.Get(ctx, "missing")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	require.NoError(t, store.Save(ctx, NewSnapshot("build-1", false, runtimemodule.SourceMap{"virtual-a": "a", "virtual-b": "b"}, t0)))
	require.NoError(t, store.Save(ctx, NewSnapshot("build-1", false, runtimemodule.SourceMap{"virtual-c": "c"}, t0)))

	got, err := store.Get(ctx, "build-1")
	require.NoError(t, err)
	require.Equal(t, []string{"virtual-c"}, got.IDs())

	require.Error(t, store.Save(ctx, &Snapshot{}))
}

func TestSQLiteStoreListAndPrune(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	for i, id := range []string{"b1", "b2", "b3", "b4"} {
		s := NewSnapshot(id, false, runtimemodule.SourceMap{"virtual-a": id}, t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Save(ctx, s))
	}
	require.NoError(t, store.Save(ctx, NewSnapshot("s1", true, runtimemodule.SourceMap{"virtual-a": "s"}, t0)))

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	require.Equal(t, "b4", all[0].BuildID)

	two, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)

	removed, err := store.Prune(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	left, err := store.List(ctx, 0)
	require.NoError(t, err)
	var ids []string
	for _, s := range left {
		ids = append(ids, s.BuildID)
	}
	require.Equal(t, []string{"b4", "b3", "s1"}, ids)
}

func TestSQLiteStorePersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "manifest.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, NewSnapshot("build-1", false, runtimemodule.SourceMap{"virtual-a": "a"}, t0)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	latest, err := reopened.Latest(ctx, false)
	require.NoError(t, err)
	require.Equal(t, "build-1", latest.BuildID)
}
