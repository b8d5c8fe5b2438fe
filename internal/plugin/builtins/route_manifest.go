package builtins

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"git.home.luguber.info/inful/docvm/internal/plugin"
	"git.home.luguber.info/inful/docvm/internal/route"
)

// DefaultRouteManifestID is the runtime module the route manifest is
// published under unless the "moduleId" option says otherwise.
const DefaultRouteManifestID = "virtual-route-manifest"

// RouteManifest records the route table and republishes it as a runtime
// module listing every page path, page name and language.
type RouteManifest struct {
	plugin.Base

	moduleID string

	mu      sync.Mutex
	entries []manifestEntry
	isSSR   bool
}

type manifestEntry struct {
	RoutePath string `json:"routePath"`
	PageName  string `json:"pageName"`
	Lang      string `json:"lang,omitempty"`
}

// NewRouteManifest builds the plugin.
func NewRouteManifest(_ *plugin.Context, options map[string]any) (plugin.Plugin, error) {
	id := plugin.OptionString(options, "moduleId", DefaultRouteManifestID)
	if id == "" {
		return nil, fmt.Errorf("moduleId must not be empty")
	}
	return &RouteManifest{moduleID: id}, nil
}

// Metadata implements plugin.Plugin.
func (p *RouteManifest) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        RouteManifestName,
		Version:     "v1.0.0",
		Description: "Publishes the route table as a runtime module",
	}
}

// RouteGenerated implements plugin.RouteObserver.
func (p *RouteManifest) RouteGenerated(_ context.Context, routes []route.Route, isSSR bool) error {
	entries := make([]manifestEntry, 0, len(routes))
	for _, r := range routes {
		entries = append(entries, manifestEntry{RoutePath: r.RoutePath, PageName: r.PageName, Lang: r.Lang})
	}
	p.mu.Lock()
	p.entries = entries
	p.isSSR = isSSR
	p.mu.Unlock()
	return nil
}

// AddRuntimeModules implements plugin.RuntimeModuleProvider.
func (p *RouteManifest) AddRuntimeModules(context.Context) (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	body, err := json.Marshal(struct {
		SSR    bool            `json:"ssr"`
		Routes []manifestEntry `json:"routes"`
	}{SSR: p.isSSR, Routes: append([]manifestEntry{}, p.entries...)})
	if err != nil {
		return nil, err
	}
	return map[string]string{p.moduleID: "export default " + string(body) + ";\n"}, nil
}
