// Package route discovers documentation pages under the doc root and renders
// the route table modules consumed by the client and server runtimes.
package route

import (
	"path"
	"path/filepath"
	"strings"
)

// Route is one page of the site.
type Route struct {
	// RoutePath is the URL path including the site base, e.g. /guide/intro.
	RoutePath string `json:"routePath"`
	// AbsolutePath is the page file on disk.
	AbsolutePath string `json:"absolutePath"`
	// RelativePath is AbsolutePath relative to the doc root, slash separated.
	RelativePath string `json:"relativePath"`
	PageName     string `json:"pageName"`
	Lang         string `json:"lang"`
}

// IsMarkdown reports whether the page source is markdown.
func (r Route) IsMarkdown() bool {
	switch strings.ToLower(path.Ext(r.RelativePath)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

// Resolver turns doc-root relative file paths into routes.
type Resolver struct {
	Base        string
	DefaultLang string
	Langs       []string
}

// Resolve builds the Route for a page file. rel is relative to the doc root.
func (res Resolver) Resolve(docRoot, rel string) Route {
	rel = filepath.ToSlash(rel)
	pagePath := strings.TrimSuffix(rel, path.Ext(rel))

	switch {
	case pagePath == "index":
		pagePath = ""
	case strings.HasSuffix(pagePath, "/index"):
		pagePath = strings.TrimSuffix(pagePath, "index")
	}

	return Route{
		RoutePath:    joinBase(res.Base, pagePath),
		AbsolutePath: filepath.Join(docRoot, filepath.FromSlash(rel)),
		RelativePath: rel,
		PageName:     PageName(pagePath),
		Lang:         res.langOf(rel),
	}
}

func (res Resolver) langOf(rel string) string {
	first, _, found := strings.Cut(rel, "/")
	if found {
		for _, l := range res.Langs {
			if l == first {
				return l
			}
		}
	}
	return res.DefaultLang
}

// PageName derives a stable identifier from a base-less page path:
// slashes become underscores and the root page is "index".
func PageName(pagePath string) string {
	trimmed := strings.Trim(pagePath, "/")
	if trimmed == "" {
		return "index"
	}
	return strings.ReplaceAll(trimmed, "/", "_")
}

func joinBase(base, pagePath string) string {
	if base == "" {
		base = "/"
	}
	out := strings.TrimSuffix(base, "/") + "/" + pagePath
	if out == "" {
		return "/"
	}
	return out
}
