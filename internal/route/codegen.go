package route

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// GenerateRoutesCode renders the route table module. The client variant loads
// every page lazily through dynamic import so pages are split into their own
// chunks; the SSR variant imports every page statically.
func (s *Service) GenerateRoutesCode(ssr bool) (string, error) {
	return RenderRoutes(s.Routes(), ssr), nil
}

// RenderRoutes renders the route table module for routes in the given order.
func RenderRoutes(routes []Route, ssr bool) string {
	var b strings.Builder
	b.WriteString("import React from 'react';\n")
	if !ssr {
		b.WriteString("import { lazyWithPreload } from 'react-lazy-with-preload';\n")
	}

	for i, r := range routes {
		src := jsString(filepath.ToSlash(r.AbsolutePath))
		if ssr {
			fmt.Fprintf(&b, "import * as Route_%d from %s;\n", i, src)
		} else {
			fmt.Fprintf(&b, "const Route_%d = lazyWithPreload(() => import(%s));\n", i, src)
		}
	}

	b.WriteString("export const routes = [\n")
	for i, r := range routes {
		if ssr {
			fmt.Fprintf(&b, "  { path: %s, element: React.createElement(Route_%d.default), filePath: %s, preload: async () => Route_%d, lang: %s },\n",
				jsString(r.RoutePath), i, jsString(r.RelativePath), i, jsString(r.Lang))
			continue
		}
		fmt.Fprintf(&b, "  { path: %s, element: React.createElement(Route_%d), filePath: %s, preload: async () => { await Route_%d.preload(); return import(%s); }, lang: %s },\n",
			jsString(r.RoutePath), i, jsString(r.RelativePath), i, jsString(filepath.ToSlash(r.AbsolutePath)), jsString(r.Lang))
	}
	b.WriteString("];\n")
	return b.String()
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}
