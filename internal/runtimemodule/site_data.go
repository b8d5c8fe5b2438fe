package runtimemodule

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/logfields"
	"git.home.luguber.info/inful/docvm/internal/observability"
	"git.home.luguber.info/inful/docvm/internal/pagedata"
	"git.home.luguber.info/inful/docvm/internal/route"
)

// SearchIndexFile returns the file name of a language's search index.
func SearchIndexFile(lang, hash string) string {
	return fmt.Sprintf("search_index.%s.%s.json", lang, hash)
}

type siteData struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Base        string          `json:"base"`
	Lang        string          `json:"lang"`
	Logo        string          `json:"logo,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Locales     []config.Locale `json:"locales"`
	ThemeConfig map[string]any  `json:"themeConfig"`
	Search      siteSearch      `json:"search"`
	Pages       []sitePage      `json:"pages"`
}

type siteSearch struct {
	Mode       config.SearchMode `json:"mode"`
	CodeBlocks bool              `json:"codeBlocks"`
}

// sitePage is PageData without the search content.
type sitePage struct {
	RoutePath       string            `json:"routePath"`
	RelativePath    string            `json:"relativePath"`
	Lang            string            `json:"lang"`
	Title           string            `json:"title"`
	FrontMatter     map[string]any    `json:"frontmatter"`
	Toc             []pagedata.Header `json:"toc"`
	LastUpdatedTime string            `json:"lastUpdatedTime,omitempty"`
}

type searchEntry struct {
	RoutePath string            `json:"routePath"`
	Lang      string            `json:"lang"`
	Title     string            `json:"title"`
	Toc       []pagedata.Header `json:"toc"`
	Content   string            `json:"content"`
}

// SiteDataFactory parses every page, lets plugins extend the page data and
// emits the site data and search index hash modules. In the client pass local
// search indexes are written to the configured index directory.
func SiteDataFactory(ctx context.Context, fc *FactoryContext) (SourceMap, error) {
	if fc.Routes == nil {
		return nil, fmt.Errorf("route service is not configured")
	}
	cfg := fc.Config
	if cfg == nil {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}

	pages, err := loadPages(ctx, fc.Routes.Routes(), pagedata.Options{CodeBlocks: cfg.Search.CodeBlocks})
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		if err := fc.plugins().ExtendPageData(ctx, p, fc.IsSSR); err != nil {
			return nil, fmt.Errorf("extend page data %s: %w", p.RoutePath, err)
		}
	}

	hashes := map[string]string{}
	if cfg.Search.Mode == config.SearchModeLocal {
		indexes, err := buildSearchIndexes(pages)
		if err != nil {
			return nil, err
		}
		for lang, data := range indexes {
			sum := sha256.Sum256(data)
			hashes[lang] = hex.EncodeToString(sum[:])[:8]
		}
		if !fc.IsSSR {
			if err := writeSearchIndexes(ctx, cfg.SearchIndexDir(), indexes, hashes); err != nil {
				return nil, err
			}
		}
	}

	data := siteData{
		Title:       cfg.Title,
		Description: cfg.Description,
		Base:        cfg.Base,
		Lang:        cfg.Lang,
		Logo:        cfg.Logo,
		Icon:        cfg.Icon,
		Locales:     cfg.Locales,
		ThemeConfig: cfg.ThemeConfig.Map(),
		Search:      siteSearch{Mode: cfg.Search.Mode, CodeBlocks: cfg.Search.CodeBlocks},
		Pages:       make([]sitePage, 0, len(pages)),
	}
	if data.Locales == nil {
		data.Locales = []config.Locale{}
	}
	for _, p := range pages {
		data.Pages = append(data.Pages, sitePage{
			RoutePath:       p.RoutePath,
			RelativePath:    p.RelativePath,
			Lang:            p.Lang,
			Title:           p.Title,
			FrontMatter:     p.FrontMatter,
			Toc:             p.Toc,
			LastUpdatedTime: p.LastUpdatedTime,
		})
	}

	siteSrc, err := exportDefault(data)
	if err != nil {
		return nil, err
	}
	hashSrc, err := exportDefault(hashes)
	if err != nil {
		return nil, err
	}
	return SourceMap{
		SiteData.String():        siteSrc,
		SearchIndexHash.String(): hashSrc,
	}, nil
}

// loadPages parses routes concurrently with a bounded number of workers. The
// result keeps the order of routes. The first failure cancels the parses that
// have not started yet.
func loadPages(ctx context.Context, routes []route.Route, opts pagedata.Options) ([]*pagedata.PageData, error) {
	pages := make([]*pagedata.PageData, len(routes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, r := range routes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, err := pagedata.Load(r, opts)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

// buildSearchIndexes encodes one index per language.
func buildSearchIndexes(pages []*pagedata.PageData) (map[string][]byte, error) {
	byLang := map[string][]searchEntry{}
	for _, p := range pages {
		byLang[p.Lang] = append(byLang[p.Lang], searchEntry{
			RoutePath: p.RoutePath,
			Lang:      p.Lang,
			Title:     p.Title,
			Toc:       p.Toc,
			Content:   p.Content,
		})
	}
	out := make(map[string][]byte, len(byLang))
	for lang, entries := range byLang {
		data, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("encode search index %s: %w", lang, err)
		}
		out[lang] = data
	}
	return out, nil
}

func writeSearchIndexes(ctx context.Context, dir string, indexes map[string][]byte, hashes map[string]string) error {
	if len(indexes) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create search index dir: %w", err)
	}
	for _, lang := range sortedKeys(indexes) {
		p := filepath.Join(dir, SearchIndexFile(lang, hashes[lang]))
		if err := os.WriteFile(p, indexes[lang], 0o600); err != nil {
			return fmt.Errorf("write search index: %w", err)
		}
		observability.DebugContext(ctx, "Search index written", logfields.Lang(lang), logfields.File(p))
	}
	return nil
}
