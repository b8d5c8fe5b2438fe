package runtimemodule

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docvm/internal/logfields"
	"git.home.luguber.info/inful/docvm/internal/observability"
)

// RoutesFactory emits the client and SSR route tables and notifies plugins of
// the final route list.
func RoutesFactory(ctx context.Context, fc *FactoryContext) (SourceMap, error) {
	if fc.Routes == nil {
		return nil, fmt.Errorf("route service is not configured")
	}
	routes := fc.Routes.Routes()
	if err := fc.plugins().RouteGenerated(ctx, routes, fc.IsSSR); err != nil {
		return nil, fmt.Errorf("route generated hook: %w", err)
	}

	client, err := fc.Routes.GenerateRoutesCode(false)
	if err != nil {
		return nil, fmt.Errorf("generate client routes: %w", err)
	}
	ssr, err := fc.Routes.GenerateRoutesCode(true)
	if err != nil {
		return nil, fmt.Errorf("generate ssr routes: %w", err)
	}
	observability.DebugContext(ctx, "Route tables generated", logfields.Routes(len(routes)))

	return SourceMap{
		RouteForClient.String(): client,
		RouteForSSR.String():    ssr,
	}, nil
}
