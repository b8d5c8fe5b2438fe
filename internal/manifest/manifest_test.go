package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docvm/internal/runtimemodule"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestNewSnapshotHashesSources(t *testing.T) {
	s := NewSnapshot("build-1", false, runtimemodule.SourceMap{
		"virtual-site-data": "export default {};\n",
		"virtual-i18n-text": "export default {};\n",
	}, t0)

	require.Equal(t, "build-1", s.BuildID)
	require.Equal(t, []string{"virtual-i18n-text", "virtual-site-data"}, s.IDs())
	require.Equal(t, runtimemodule.HashOf("export default {};\n"), s.Modules["virtual-site-data"])
}

func TestSnapshotJSON(t *testing.T) {
	s := NewSnapshot("build-1", true, runtimemodule.SourceMap{"virtual-a": "a"}, t0)
	s.Plugins = []PluginVersion{{Name: "back-to-top", Version: "v1.0.0"}}

	data, err := s.ToJSON()
	require.NoError(t, err)

	restored, err := FromJSON(data)
	require.NoError(t, err)
	require.Equal(t, s, restored)

	_, err = FromJSON([]byte("{"))
	require.Error(t, err)
}

func TestSnapshotHashIgnoresIdentity(t *testing.T) {
	a := NewSnapshot("build-1", false, runtimemodule.SourceMap{"virtual-a": "a"}, t0)
	b := NewSnapshot("build-2", false, runtimemodule.SourceMap{"virtual-a": "a"}, t0.Add(time.Hour))
	c := NewSnapshot("build-3", false, runtimemodule.SourceMap{"virtual-a": "b"}, t0)

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	hc, err := c.Hash()
	require.NoError(t, err)

	require.Equal(t, ha, hb)
	require.NotEqual(t, ha, hc)
}

func TestDiff(t *testing.T) {
	prev := &Snapshot{Modules: map[string]string{"a": "1", "b": "2", "c": "3"}}
	cur := &Snapshot{Modules: map[string]string{"a": "1", "b": "changed", "d": "4", "e": "5"}}

	c := Diff(prev, cur)
	require.Equal(t, []string{"d", "e"}, c.Added)
	require.Equal(t, []string{"c"}, c.Removed)
	require.Equal(t, []string{"b"}, c.Changed)
	require.Equal(t, 4, c.Count())
	require.False(t, c.Empty())

	require.True(t, Diff(cur, cur).Empty())

	first := Diff(nil, prev)
	require.Equal(t, []string{"a", "b", "c"}, first.Added)
}
