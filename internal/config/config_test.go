package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("title: Site\n"))
	require.NoError(t, err)

	require.Equal(t, "Site", cfg.Title)
	require.Equal(t, DefaultRoot, cfg.Root)
	require.Equal(t, "/", cfg.Base)
	require.Equal(t, DefaultLang, cfg.Lang)
	require.Equal(t, SearchModeLocal, cfg.Search.Mode)
	require.Equal(t, DefaultRouteExtensions, cfg.Route.Extensions)
	require.Equal(t, DefaultRouteExclude, cfg.Route.Exclude)
	require.Equal(t, DefaultRuntimeTempDir, cfg.Runtime.TempDir)
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultTitle, cfg.Title)
}

func TestParse_FullDocument(t *testing.T) {
	doc := `
root: content
base: docs
title: Docs
locales:
  - lang: zh
    label: 中文
  - lang: en
    label: English
themeConfig:
  lastUpdated: true
  nav:
    - text: Guide
      link: /guide/
globalUIComponents:
  - components/Banner.tsx
  - path: components/Feedback.tsx
    props:
      color: red
globalStyles:
  - styles/app.css
search:
  mode: REMOTE
  searchHooks: hooks/search.ts
markdown:
  highlightLanguages:
    - go
    - [dockerfile, docker]
plugins:
  - name: back-to-top
    options:
      threshold: 300
route:
  extensions: [md, ".MDX"]
  exclude: ["drafts/**"]
`
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)

	require.Equal(t, "/docs/", cfg.Base)
	require.Equal(t, "zh", cfg.Lang, "default lang falls back to the first locale")
	require.Equal(t, []string{"zh", "en"}, cfg.Langs())
	require.Equal(t, SearchModeRemote, cfg.Search.Mode)
	require.True(t, cfg.ThemeConfig.LastUpdated)
	require.Contains(t, cfg.ThemeConfig.Map(), "nav")
	require.Equal(t, true, cfg.ThemeConfig.Map()["lastUpdated"])

	require.Equal(t, []GlobalComponent{
		{Path: "components/Banner.tsx"},
		{Path: "components/Feedback.tsx", Props: map[string]any{"color": "red"}},
	}, cfg.GlobalUIComponents)
	require.Equal(t, []HighlightLanguage{{Name: "go"}, {Alias: "dockerfile", Name: "docker"}}, cfg.Markdown.HighlightLanguages)
	require.Equal(t, []string{".md", ".mdx"}, cfg.Route.Extensions)
	require.Contains(t, cfg.Route.Exclude, "drafts/**")
	require.Equal(t, 300, cfg.Plugins[0].Options["threshold"])
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte("titel: typo\n"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestParse_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"duplicate locale", "locales: [{lang: en, label: A}, {lang: en, label: B}]", "locales[1].lang"},
		{"lang outside locales", "lang: fr\nlocales: [{lang: en, label: A}]", "lang"},
		{"empty component", "globalUIComponents: ['']", "globalUIComponents[0]"},
		{"empty plugin", "plugins: [{name: ''}]", "plugins[0].name"},
		{"duplicate plugin", "plugins: [{name: a}, {name: a}]", "plugins[1].name"},
		{"bad highlight pair", "markdown: {highlightLanguages: [[a, b, c]]}", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			if tt.field == "" {
				return
			}
			ce, ok := errors.AsClassified(err)
			require.True(t, ok)
			field, _ := ce.Context().GetString("field")
			require.Equal(t, tt.field, field)
		})
	}
}

func TestLoad_ExpandsEnvAndResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCVM_TEST_TITLE=From Env\n"), 0o600))
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("title: ${DOCVM_TEST_TITLE}\nroot: site\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DOCVM_TEST_TITLE") })

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "From Env", cfg.Title)
	require.Equal(t, filepath.Join(dir, "site"), cfg.DocRoot())
	require.Equal(t, filepath.Join(dir, DefaultRuntimeTempDir), cfg.TempDir())
	require.Equal(t, filepath.Join(dir, DefaultOutDir, "static"), cfg.SearchIndexDir())
	require.Equal(t, "/abs/x", cfg.ResolvePath("/abs/x"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInit_WritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Documentation", cfg.Title)
	require.Len(t, cfg.Plugins, 2)
	require.Equal(t, []HighlightLanguage{{Name: "go"}, {Alias: "dockerfile", Name: "docker"}}, cfg.Markdown.HighlightLanguages)

	err = Init(path, false)
	require.True(t, errors.HasCategory(err, errors.CategoryAlreadyExists))
	require.NoError(t, Init(path, true))
}

func TestNormalizeBase(t *testing.T) {
	for in, want := range map[string]string{"": "/", "/": "/", "docs": "/docs/", "/a/b": "/a/b/", " /x/ ": "/x/"} {
		require.Equal(t, want, NormalizeBase(in), in)
	}
}
