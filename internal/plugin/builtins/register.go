package builtins

import (
	"git.home.luguber.info/inful/docvm/internal/plugin"
)

// Configuration names of the built-in plugins.
const (
	LastUpdatedName   = "last-updated"
	BackToTopName     = "back-to-top"
	RouteManifestName = "route-manifest"
)

// Register adds every built-in plugin constructor to reg.
func Register(reg *plugin.Registry) error {
	for name, ctor := range map[string]plugin.Constructor{
		LastUpdatedName:   NewLastUpdated,
		BackToTopName:     NewBackToTop,
		RouteManifestName: NewRouteManifest,
	} {
		if err := reg.Register(name, ctor); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding only the built-in plugins.
func NewRegistry() *plugin.Registry {
	reg := plugin.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}
