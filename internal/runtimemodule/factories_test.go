package runtimemodule

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/pagedata"
)

func decodeDefault(t *testing.T, src string, v any) {
	t.Helper()
	body := strings.TrimSuffix(strings.TrimPrefix(src, "export default "), ";\n")
	require.NoError(t, json.Unmarshal([]byte(body), v))
}

func TestRoutesFactory(t *testing.T) {
	driver := &fakeDriver{}
	fc := newSite(t, driver, siteYAML)

	out, err := RoutesFactory(context.Background(), fc)
	require.NoError(t, err)
	require.Contains(t, out[RouteForClient.String()], "lazyWithPreload")
	require.Contains(t, out[RouteForSSR.String()], "import * as Route_0")
	require.Len(t, driver.seenRoutes, 3)
}

func TestSiteDataFactory(t *testing.T) {
	driver := &fakeDriver{extend: func(p *pagedata.PageData) { p.LastUpdatedTime = "2024-01-01T00:00:00Z" }}
	fc := newSite(t, driver, siteYAML)

	out, err := SiteDataFactory(context.Background(), fc)
	require.NoError(t, err)

	var data struct {
		Title string `json:"title"`
		Base  string `json:"base"`
		Pages []struct {
			RoutePath       string `json:"routePath"`
			Title           string `json:"title"`
			Content         string `json:"content"`
			LastUpdatedTime string `json:"lastUpdatedTime"`
		} `json:"pages"`
	}
	decodeDefault(t, out[SiteData.String()], &data)
	require.Equal(t, "Test Site", data.Title)
	require.Equal(t, "/", data.Base)
	require.Len(t, data.Pages, 3)
	require.Equal(t, "/", data.Pages[0].RoutePath)
	require.Equal(t, "Home", data.Pages[0].Title)
	require.Equal(t, "Introduction", data.Pages[1].Title)
	require.Empty(t, data.Pages[1].Content, "search content stays out of site data")
	require.Equal(t, "2024-01-01T00:00:00Z", data.Pages[2].LastUpdatedTime)
	require.Equal(t, 3, driver.extendCalls)

	var hashes map[string]string
	decodeDefault(t, out[SearchIndexHash.String()], &hashes)
	require.Len(t, hashes, 2)
	indexPath := filepath.Join(fc.Config.SearchIndexDir(), SearchIndexFile("en", hashes["en"]))
	raw, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	require.Contains(t, string(raw), "Run the installer.")
}

func TestSiteDataFactory_SSRDoesNotWriteIndexes(t *testing.T) {
	fc := newSite(t, &fakeDriver{}, siteYAML)
	fc.IsSSR = true

	out, err := SiteDataFactory(context.Background(), fc)
	require.NoError(t, err)
	require.NotEqual(t, "export default {};\n", out[SearchIndexHash.String()])
	_, err = os.Stat(fc.Config.SearchIndexDir())
	require.True(t, os.IsNotExist(err))
}

func TestSiteDataFactory_SearchOff(t *testing.T) {
	fc := newSite(t, &fakeDriver{}, siteYAML)
	fc.Config.Search.Mode = config.SearchModeOff

	out, err := SiteDataFactory(context.Background(), fc)
	require.NoError(t, err)
	require.Equal(t, "export default {};\n", out[SearchIndexHash.String()])
}

func TestGlobalUIComponentsFactory(t *testing.T) {
	driver := &fakeDriver{components: []config.GlobalComponent{
		{Path: "@theme/BackToTop", Props: map[string]any{"threshold": 300}},
	}}
	fc := newSite(t, driver, siteYAML)

	out, err := GlobalUIComponentsFactory(context.Background(), fc)
	require.NoError(t, err)
	src := out[GlobalComponents.String()]
	require.Contains(t, src, `import Comp_0 from "`+filepath.ToSlash(filepath.Join(fc.Config.ProjectRoot, "components", "Banner.tsx"))+`";`)
	require.Contains(t, src, `import Comp_1 from "@theme/BackToTop";`)
	require.Contains(t, src, `[Comp_1, {"threshold":300}]`)
}

func TestGlobalUIComponentsFactory_MissingFile(t *testing.T) {
	fc := newSite(t, &fakeDriver{components: []config.GlobalComponent{{Path: "components/Missing.tsx"}}}, siteYAML)

	_, err := GlobalUIComponentsFactory(context.Background(), fc)
	require.Error(t, err)
}

func TestGlobalUIComponentsFactory_AliasedPath(t *testing.T) {
	fc := newSite(t, &fakeDriver{components: []config.GlobalComponent{{Path: "~site/Widget.tsx"}}}, siteYAML)
	fc = fc.WithAlias(AliasTable{"~site": {"/somewhere"}})

	out, err := GlobalUIComponentsFactory(context.Background(), fc)
	require.NoError(t, err)
	require.Contains(t, out[GlobalComponents.String()], `from "~site/Widget.tsx"`)
}

func TestGlobalStylesFactory(t *testing.T) {
	fc := newSite(t, &fakeDriver{styles: []string{"styles/app.css", "katex/dist/katex"}}, siteYAML)

	out, err := GlobalStylesFactory(context.Background(), fc)
	require.NoError(t, err)
	src := out[GlobalStyles.String()]
	require.Equal(t, 1, strings.Count(src, "app.css"), "duplicate styles are imported once")
	require.Contains(t, src, `import "katex/dist/katex";`)
}

func TestI18nFactory(t *testing.T) {
	fc := newSite(t, &fakeDriver{}, siteYAML)

	out, err := I18nFactory(context.Background(), fc)
	require.NoError(t, err)
	var table map[string]map[string]string
	decodeDefault(t, out[I18nText.String()], &table)
	require.Equal(t, "搜索", table["search"]["zh"])
}

func TestI18nFactory_MissingAndMalformed(t *testing.T) {
	fc := newSite(t, &fakeDriver{}, siteYAML)
	path := fc.Config.ResolvePath(fc.Config.I18nSourcePath)

	require.NoError(t, os.Remove(path))
	out, err := I18nFactory(context.Background(), fc)
	require.NoError(t, err)
	require.Equal(t, "export default {};\n", out[I18nText.String()])

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = I18nFactory(context.Background(), fc)
	require.Error(t, err)
}

func TestSearchHooksFactory(t *testing.T) {
	fc := newSite(t, &fakeDriver{}, siteYAML)

	out, err := SearchHooksFactory(context.Background(), fc)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out[SearchHooks.String()], "export * from "))
	require.Contains(t, out[SearchHooks.String()], "hooks/search.ts")

	fc.Config.Search.SearchHooks = ""
	out, err = SearchHooksFactory(context.Background(), fc)
	require.NoError(t, err)
	require.Equal(t, noopSearchHooks, out[SearchHooks.String()])

	fc.Config.Search.SearchHooks = "hooks/missing.ts"
	_, err = SearchHooksFactory(context.Background(), fc)
	require.Error(t, err)
}

func TestPrismLanguagesFactory(t *testing.T) {
	fc := newSite(t, &fakeDriver{}, siteYAML)

	out, err := PrismLanguagesFactory(context.Background(), fc)
	require.NoError(t, err)
	src := out[PrismLanguages.String()]
	require.Contains(t, src, `import lang_go from "react-syntax-highlighter/dist/esm/languages/prism/go";`)
	require.Contains(t, src, `"dockerfile": "docker",`)
	require.Contains(t, src, `"docker": lang_docker,`)
	require.Contains(t, src, `"js": "javascript",`)

	fc.Config.Markdown.HighlightLanguages = []config.HighlightLanguage{{Name: "../etc"}}
	_, err = PrismLanguagesFactory(context.Background(), fc)
	require.Error(t, err)
}
