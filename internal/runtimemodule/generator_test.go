package runtimemodule

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
)

func idStrings() []string {
	out := make([]string, 0, len(allIDs))
	for _, id := range IDs() {
		out = append(out, id.String())
	}
	sort.Strings(out)
	return out
}

func TestPublish_PluginModuleAdded(t *testing.T) {
	driver := &fakeDriver{modules: map[string]string{"virtual-custom": "export default 1"}}
	fc := newSite(t, driver, siteYAML)
	reg := &MemoryRegistrar{}

	modules, err := NewDefaultGenerator().Publish(context.Background(), fc, nil, reg)
	require.NoError(t, err)

	want := append(idStrings(), "virtual-custom")
	sort.Strings(want)
	require.Equal(t, want, modules.Keys())
	require.Equal(t, "export default 1", modules["virtual-custom"])

	calls := reg.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, fc.TempDir, calls[0].Root)
	require.Equal(t, modules, calls[0].Modules)
	require.Equal(t, 1, driver.addCalls)
}

func TestPublish_DuplicatePluginModuleRejected(t *testing.T) {
	driver := &fakeDriver{modules: map[string]string{RouteForClient.String(): "export default []"}}
	fc := newSite(t, driver, siteYAML)
	reg := &MemoryRegistrar{}

	modules, err := NewDefaultGenerator().Publish(context.Background(), fc, nil, reg)
	require.Error(t, err)
	require.Nil(t, modules)
	require.Empty(t, reg.Calls())

	var dup *DuplicateModuleError
	require.True(t, stderrors.As(err, &dup))
	require.Equal(t, "virtual-routes", dup.ID)
	require.ErrorIs(t, err, ErrDuplicateModule)
	require.Contains(t, err.Error(), `runtime module "virtual-routes" is duplicated, please check your plugin configuration`)
	require.True(t, errors.HasCategory(err, errors.CategoryAlreadyExists))
}

func TestGenerate_DefaultFactoriesProduceClosedSet(t *testing.T) {
	fc := newSite(t, &fakeDriver{}, siteYAML)

	modules, err := NewDefaultGenerator().Generate(context.Background(), fc, nil)
	require.NoError(t, err)
	require.Equal(t, idStrings(), modules.Keys())
}

func TestGenerate_Deterministic(t *testing.T) {
	fc := newSite(t, &fakeDriver{modules: map[string]string{"b": "2", "a": "1"}}, siteYAML)
	gen := NewDefaultGenerator()

	first, err := gen.Generate(context.Background(), fc, AliasTable{"@theme": {"/theme"}})
	require.NoError(t, err)
	second, err := gen.Generate(context.Background(), fc, AliasTable{"@theme": {"/theme"}})
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, first.Hash(), second.Hash())
}

func TestGenerate_OrderAndSideEffectVisibility(t *testing.T) {
	var order []string
	seen := map[string]bool{}
	factories := []NamedFactory{
		{Name: "first", Run: func(_ context.Context, _ *FactoryContext) (SourceMap, error) {
			order = append(order, "first")
			seen["flag"] = true
			return SourceMap{"a": "1"}, nil
		}},
		{Name: "second", Run: func(_ context.Context, _ *FactoryContext) (SourceMap, error) {
			order = append(order, "second")
			if !seen["flag"] {
				return nil, stderrors.New("side effect of first factory not visible")
			}
			return SourceMap{"b": "2"}, nil
		}},
		{Name: "third", Run: func(_ context.Context, _ *FactoryContext) (SourceMap, error) {
			order = append(order, "third")
			return SourceMap{"a": "overwritten"}, nil
		}},
	}

	modules, err := NewGenerator(factories).Generate(context.Background(), &FactoryContext{}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second", "third"}, order)
	require.Equal(t, SourceMap{"a": "overwritten", "b": "2"}, modules)
}

func TestGenerate_RouteHookRunsBeforeLaterFactories(t *testing.T) {
	driver := &fakeDriver{}
	fc := newSite(t, driver, siteYAML)

	var routesSeenBySiteData int
	factories := DefaultFactories()
	factories[1] = NamedFactory{Name: FactorySiteData, Run: func(ctx context.Context, fc *FactoryContext) (SourceMap, error) {
		routesSeenBySiteData = len(driver.seenRoutes)
		return SiteDataFactory(ctx, fc)
	}}

	_, err := NewGenerator(factories).Generate(context.Background(), fc, nil)
	require.NoError(t, err)
	require.Equal(t, 3, routesSeenBySiteData)
}

func TestGenerate_AliasAttachedBeforeFactories(t *testing.T) {
	var got AliasTable
	factories := []NamedFactory{{Name: "probe", Run: func(_ context.Context, fc *FactoryContext) (SourceMap, error) {
		got = fc.Alias
		return SourceMap{}, nil
	}}}
	fc := &FactoryContext{}

	_, err := NewGenerator(factories).Generate(context.Background(), fc, AliasTable{"@theme": {"/a", "/b"}})
	require.NoError(t, err)
	require.Equal(t, AliasTable{"@theme": {"/a", "/b"}}, got)
	require.Nil(t, fc.Alias, "the caller's context is not mutated")
}

func TestPublish_FactoryFailureIsAllOrNothing(t *testing.T) {
	cause := stderrors.New("boom")
	var ranAfter bool
	driver := &fakeDriver{}
	factories := []NamedFactory{
		{Name: "ok", Run: func(context.Context, *FactoryContext) (SourceMap, error) { return SourceMap{"a": "1"}, nil }},
		{Name: "broken", Run: func(context.Context, *FactoryContext) (SourceMap, error) { return nil, cause }},
		{Name: "after", Run: func(context.Context, *FactoryContext) (SourceMap, error) {
			ranAfter = true
			return SourceMap{}, nil
		}},
	}
	reg := &MemoryRegistrar{}

	_, err := NewGenerator(factories).Publish(context.Background(), &FactoryContext{Plugins: driver}, nil, reg)
	require.ErrorIs(t, err, cause)
	require.True(t, errors.HasCategory(err, errors.CategoryBuild))
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	name, _ := ce.Context().GetString("factory")
	require.Equal(t, "broken", name)

	require.False(t, ranAfter)
	require.Zero(t, driver.addCalls)
	require.Empty(t, reg.Calls())
}

func TestPublish_PluginFailure(t *testing.T) {
	driver := &fakeDriver{modulesErr: stderrors.New("plugin exploded")}
	reg := &MemoryRegistrar{}

	_, err := NewGenerator(nil).Publish(context.Background(), &FactoryContext{Plugins: driver}, nil, reg)
	require.True(t, errors.HasCategory(err, errors.CategoryPlugin))
	require.Empty(t, reg.Calls())
}

func TestPublish_RegistrarFailure(t *testing.T) {
	reg := RegistrarFunc(func(SourceMap, string) error { return stderrors.New("disk full") })

	_, err := NewGenerator(nil).Publish(context.Background(), &FactoryContext{TempDir: "/tmp/x"}, nil, reg)
	require.True(t, errors.HasCategory(err, errors.CategoryBundler))
}

func TestGenerate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	factories := []NamedFactory{{Name: "never", Run: func(context.Context, *FactoryContext) (SourceMap, error) {
		called = true
		return nil, nil
	}}}

	_, err := NewGenerator(factories).Generate(ctx, &FactoryContext{}, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestGenerate_NilPluginDriver(t *testing.T) {
	fc := newSite(t, nil, siteYAML)
	modules, err := NewDefaultGenerator().Generate(context.Background(), fc, nil)
	require.NoError(t, err)
	require.Len(t, modules, len(IDs()))
}

func TestGenerate_SearchIndexWritten(t *testing.T) {
	fc := newSite(t, &fakeDriver{}, siteYAML)
	_, err := NewDefaultGenerator().Generate(context.Background(), fc, nil)
	require.NoError(t, err)

	entries, err := os.ReadDir(fc.Config.SearchIndexDir())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Len(t, names, 2)
	for _, n := range names {
		matched, _ := filepath.Match("search_index.*.*.json", n)
		require.True(t, matched, n)
	}
}

func TestGenerator_Factories(t *testing.T) {
	require.Equal(t, []string{
		FactoryRoutes, FactorySiteData, FactoryGlobalUIComponents, FactoryGlobalStyles,
		FactoryI18n, FactorySearchHooks, FactoryPrismLanguages,
	}, NewDefaultGenerator().Factories())
}
