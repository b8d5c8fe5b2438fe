package runtimemodule

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/pagedata"
	"git.home.luguber.info/inful/docvm/internal/route"
)

// fakeDriver records hook calls and returns canned contributions.
type fakeDriver struct {
	mu          sync.Mutex
	modules     map[string]string
	modulesErr  error
	routesErr   error
	components  []config.GlobalComponent
	styles      []string
	seenRoutes  []route.Route
	addCalls    int
	extendCalls int
	extend      func(*pagedata.PageData)
}

func (d *fakeDriver) RouteGenerated(_ context.Context, routes []route.Route, _ bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seenRoutes = append([]route.Route(nil), routes...)
	return d.routesErr
}

func (d *fakeDriver) ExtendPageData(_ context.Context, page *pagedata.PageData, _ bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.extendCalls++
	if d.extend != nil {
		d.extend(page)
	}
	return nil
}

func (d *fakeDriver) GlobalUIComponents() []config.GlobalComponent { return d.components }
func (d *fakeDriver) GlobalStyles() []string                       { return d.styles }

func (d *fakeDriver) AddRuntimeModules(context.Context) (map[string]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addCalls++
	if d.modulesErr != nil {
		return nil, d.modulesErr
	}
	return d.modules, nil
}

// staticRoutes is a RouteService over a fixed list.
type staticRoutes []route.Route

func (s staticRoutes) Routes() []route.Route { return s }
func (s staticRoutes) GenerateRoutesCode(ssr bool) (string, error) {
	return route.RenderRoutes(s, ssr), nil
}

// newSite writes a small documentation site and returns a context over it.
func newSite(t *testing.T, driver PluginDriver, yamlDoc string) *FactoryContext {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"docs/index.md":         "---\ntitle: Home\n---\n# Welcome\n\nHello world.\n",
		"docs/guide/intro.md":   "# Introduction\n\n## Install\n\nRun the installer.\n",
		"docs/zh/index.md":      "# 欢迎\n",
		"components/Banner.tsx": "export default () => null;\n",
		"styles/app.css":        "body{}\n",
		"i18n.json":             `{"search":{"en":"Search","zh":"搜索"}}`,
		"hooks/search.ts":       "export const onSearch = () => {};\n",
		"docvm.yaml":            yamlDoc,
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}

	cfg, err := config.Load(filepath.Join(root, "docvm.yaml"))
	require.NoError(t, err)

	svc, err := route.NewService(route.OptionsFromConfig(cfg))
	require.NoError(t, err)
	require.NoError(t, svc.Init(context.Background()))

	return NewFactoryContext(cfg, svc, driver, false)
}

const siteYAML = `
title: Test Site
locales:
  - lang: en
    label: English
  - lang: zh
    label: 中文
globalUIComponents:
  - components/Banner.tsx
globalStyles:
  - styles/app.css
search:
  searchHooks: hooks/search.ts
markdown:
  highlightLanguages:
    - go
    - [dockerfile, docker]
`
