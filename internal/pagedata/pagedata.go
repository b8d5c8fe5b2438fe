// Package pagedata extracts the per-page metadata the client runtime needs:
// title, table of contents, front matter and the plain text used for search.
package pagedata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/route"
)

// Header is one table of contents entry.
type Header struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Depth int    `json:"depth"`
}

// PageData is the metadata of one page.
type PageData struct {
	RoutePath    string         `json:"routePath"`
	RelativePath string         `json:"relativePath"`
	Lang         string         `json:"lang"`
	Title        string         `json:"title"`
	FrontMatter  map[string]any `json:"frontmatter"`
	Toc          []Header       `json:"toc"`
	// Content is the plain text of the page body, used for the search index.
	Content         string `json:"content,omitempty"`
	Fingerprint     string `json:"fingerprint"`
	LastUpdatedTime string `json:"lastUpdatedTime,omitempty"`
}

// Options tunes extraction.
type Options struct {
	// CodeBlocks includes fenced and indented code in Content.
	CodeBlocks bool
	// TocDepth is the deepest heading level listed in Toc. Defaults to 3.
	TocDepth int
}

// Load reads the page source of r and parses it.
func Load(r route.Route, opts Options) (*PageData, error) {
	content, err := os.ReadFile(filepath.Clean(r.AbsolutePath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read page").
			WithContext("file", r.AbsolutePath).Build()
	}
	return Parse(r, content, opts)
}

// Parse builds the PageData of r from its source. Non-markdown pages only carry
// a derived title and fingerprint.
func Parse(r route.Route, content []byte, opts Options) (*PageData, error) {
	if opts.TocDepth == 0 {
		opts.TocDepth = 3
	}
	page := &PageData{
		RoutePath:    r.RoutePath,
		RelativePath: r.RelativePath,
		Lang:         r.Lang,
		FrontMatter:  map[string]any{},
		Toc:          []Header{},
	}
	if !r.IsMarkdown() {
		page.Title = TitleFromPageName(r.PageName)
		page.Fingerprint = mdfp.CalculateFingerprintFromParts("", string(content))
		return page, nil
	}

	fm, body, err := splitFrontMatter(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid front matter").
			WithContext("file", r.RelativePath).Build()
	}
	fields, err := parseFrontMatter(fm)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse front matter").
			WithContext("file", r.RelativePath).Build()
	}
	page.FrontMatter = fields
	page.Fingerprint = mdfp.CalculateFingerprintFromParts(string(fm), string(body))

	h1, toc, plain := extract(body, opts)
	page.Toc = toc
	page.Content = plain

	switch t := fields["title"].(type) {
	case string:
		page.Title = StripHTML(t)
	case nil:
	default:
		page.Title = StripHTML(fmt.Sprint(t))
	}
	if page.Title == "" {
		page.Title = h1
	}
	if page.Title == "" {
		page.Title = TitleFromPageName(r.PageName)
	}
	return page, nil
}

// extract walks the markdown AST once, returning the first h1, the toc and the
// plain text content.
func extract(body []byte, opts Options) (string, []Header, string) {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var (
		h1    string
		toc   = []Header{}
		plain []string
		slugs = newSlugger()
	)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			t := StripHTML(inlineText(node, body))
			if node.Level == 1 && h1 == "" {
				h1 = t
			}
			if node.Level >= 2 && node.Level <= opts.TocDepth {
				toc = append(toc, Header{ID: slugs.slug(t), Text: t, Depth: node.Level})
			}
			plain = append(plain, t)
			return gmast.WalkSkipChildren, nil
		case *gmast.Paragraph, *gmast.TextBlock:
			if t := StripHTML(inlineText(node, body)); t != "" {
				plain = append(plain, t)
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.FencedCodeBlock, *gmast.CodeBlock:
			if opts.CodeBlocks {
				plain = append(plain, strings.TrimSpace(string(linesOf(node, body))))
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.HTMLBlock:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return h1, toc, strings.Join(plain, "\n")
}

// inlineText concatenates the text of the inline children of n. Raw inline
// HTML tags are dropped; link and emphasis markers never reach the output.
func inlineText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(node.Value)
		case *gmast.RawHTML:
			return gmast.WalkSkipChildren, nil
		case *gmast.AutoLink:
			b.Write(node.Label(source))
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}

func linesOf(n gmast.Node, source []byte) []byte {
	var out []byte
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, seg.Value(source)...)
	}
	return out
}
