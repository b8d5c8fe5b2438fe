package runtimemodule

import (
	"context"
	"fmt"
	"strings"
)

// GlobalStylesFactory imports every configured and plugin-provided stylesheet
// for its side effect.
func GlobalStylesFactory(_ context.Context, fc *FactoryContext) (SourceMap, error) {
	var styles []string
	if fc.Config != nil {
		styles = append(styles, fc.Config.GlobalStyles...)
	}
	styles = append(styles, fc.plugins().GlobalStyles()...)

	var b strings.Builder
	seen := make(map[string]bool, len(styles))
	for _, s := range styles {
		specifier, err := fc.resolveModulePath(s)
		if err != nil {
			return nil, fmt.Errorf("global style: %w", err)
		}
		if seen[specifier] {
			continue
		}
		seen[specifier] = true
		fmt.Fprintf(&b, "import %s;\n", jsString(specifier))
	}
	return SourceMap{GlobalStyles.String(): b.String()}, nil
}
