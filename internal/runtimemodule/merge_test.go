package runtimemodule

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
)

func TestMerge_Union(t *testing.T) {
	internal := SourceMap{"virtual-routes": "r", "virtual-site-data": "s"}
	contributed := SourceMap{"virtual-extra": "e", "virtual-more": "m"}

	out, err := Merge(internal, contributed)
	require.NoError(t, err)
	require.Equal(t, []string{"virtual-extra", "virtual-more", "virtual-routes", "virtual-site-data"}, out.Keys())
	require.Len(t, internal, 2, "inputs are not mutated")
}

func TestMerge_CollisionWithInternal(t *testing.T) {
	internal := SourceMap{"virtual-routes": "r"}
	_, err := Merge(internal, SourceMap{"virtual-routes": "plugin"})

	var dup *DuplicateModuleError
	require.True(t, stderrors.As(err, &dup))
	require.Equal(t, "virtual-routes", dup.ID)
	require.Equal(t, `runtime module "virtual-routes" is duplicated, please check your plugin configuration`, err.Error())
	require.Equal(t, "r", internal["virtual-routes"])
}

func TestMerge_ReservedIdentifier(t *testing.T) {
	_, err := Merge(SourceMap{}, SourceMap{PrismLanguages.String(): "x"})
	require.ErrorIs(t, err, ErrDuplicateModule)
}

func TestMerge_EmptyContribution(t *testing.T) {
	out, err := Merge(SourceMap{"a": "1"}, nil)
	require.NoError(t, err)
	require.Equal(t, SourceMap{"a": "1"}, out)
}

func TestSourceMap_Insert(t *testing.T) {
	m := SourceMap{}
	require.NoError(t, m.Insert("a", "1"))
	err := m.Insert("a", "2")
	require.ErrorIs(t, err, ErrDuplicateModule)
	require.Equal(t, "1", m["a"])
}

func TestSourceMap_Hash(t *testing.T) {
	a := SourceMap{"x": "1", "y": "2"}
	b := SourceMap{"y": "2", "x": "1"}
	require.Equal(t, a.Hash(), b.Hash())
	require.NotEqual(t, a.Hash(), SourceMap{"x": "12"}.Hash())
	require.NotEqual(t, SourceMap{"x": "1", "y": ""}.Hash(), SourceMap{"x": "1y"}.Hash())
	require.Len(t, HashOf("x"), 64)
}

func TestIDs(t *testing.T) {
	require.Equal(t, []ID{
		"virtual-global-styles",
		"virtual-global-components",
		"virtual-routes",
		"virtual-routes-ssr",
		"virtual-site-data",
		"virtual-search-index-hash",
		"virtual-i18n-text",
		"virtual-search-hooks",
		"virtual-prism-languages",
	}, IDs())

	ids := IDs()
	ids[0] = "mutated"
	require.Equal(t, GlobalStyles, IDs()[0])
}

func TestParseID(t *testing.T) {
	id, err := ParseID("virtual-site-data")
	require.NoError(t, err)
	require.Equal(t, SiteData, id)

	_, err = ParseID("virtual-unknown")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	require.False(t, IsKnown("virtual-unknown"))
	require.True(t, IsKnown("virtual-routes-ssr"))
}
