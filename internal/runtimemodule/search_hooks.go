package runtimemodule

import (
	"context"
	"fmt"
)

const noopSearchHooks = `export const beforeSearch = () => {};
export const onSearch = () => {};
export const afterSearch = () => {};
`

// SearchHooksFactory re-exports the configured search hooks module, or no-op
// hooks when none is configured.
func SearchHooksFactory(_ context.Context, fc *FactoryContext) (SourceMap, error) {
	if fc.Config == nil || fc.Config.Search.SearchHooks == "" {
		return SourceMap{SearchHooks.String(): noopSearchHooks}, nil
	}
	specifier, err := fc.resolveModulePath(fc.Config.Search.SearchHooks)
	if err != nil {
		return nil, fmt.Errorf("search hooks: %w", err)
	}
	return SourceMap{SearchHooks.String(): fmt.Sprintf("export * from %s;\n", jsString(specifier))}, nil
}
