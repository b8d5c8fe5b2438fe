package bundler

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"git.home.luguber.info/inful/docvm/internal/runtimemodule"
)

// Namespace is the esbuild namespace virtual modules are loaded from.
const Namespace = "docvm-virtual"

// filterFor builds an esbuild filter matching exactly the given identifiers.
// Go plugins run their filters with Go's regexp package, so QuoteMeta is
// sufficient escaping.
func filterFor(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = regexp.QuoteMeta(id)
	}
	return "^(" + strings.Join(quoted, "|") + ")$"
}

// ModulePath is the path an identifier resolves to inside Namespace.
func ModulePath(root, id string) string {
	return filepath.Join(root, id)
}

// VirtualModules returns an esbuild plugin resolving every identifier of
// modules to ModulePath(root, id) in Namespace and loading its source from
// memory. Relative imports inside a module resolve against root.
func VirtualModules(modules runtimemodule.SourceMap, root string) api.Plugin {
	byPath := make(map[string]string, len(modules))
	for id, src := range modules {
		byPath[ModulePath(root, id)] = src
	}
	ids := modules.Keys()
	return api.Plugin{
		Name: "docvm-runtime-modules",
		Setup: func(build api.PluginBuild) {
			if len(ids) == 0 {
				return
			}
			build.OnResolve(api.OnResolveOptions{Filter: filterFor(ids)}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				return api.OnResolveResult{Path: ModulePath(root, args.Path), Namespace: Namespace}, nil
			})
			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: Namespace}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				src, ok := byPath[args.Path]
				if !ok {
					return api.OnLoadResult{}, fmt.Errorf("runtime module %q is not registered", args.Path)
				}
				return api.OnLoadResult{
					Contents:   &src,
					ResolveDir: root,
					Loader:     api.LoaderJSX,
				}, nil
			})
		},
	}
}

// Plugin returns the esbuild plugin serving whatever r holds when the build
// starts.
func (r *Registry) Plugin() api.Plugin {
	return api.Plugin{
		Name: "docvm-runtime-modules",
		Setup: func(build api.PluginBuild) {
			r.mu.RLock()
			p := VirtualModules(r.modules, r.root)
			r.mu.RUnlock()
			p.Setup(build)
		},
	}
}
