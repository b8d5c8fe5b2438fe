package runtimemodule

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docvm/internal/config"
)

// GlobalUIComponentsFactory imports every global UI component and exports them
// as a list of [component, props] pairs rendered on every page.
func GlobalUIComponentsFactory(_ context.Context, fc *FactoryContext) (SourceMap, error) {
	var comps []config.GlobalComponent
	if fc.Config != nil {
		comps = append(comps, fc.Config.GlobalUIComponents...)
	}
	comps = append(comps, fc.plugins().GlobalUIComponents()...)

	var imports, entries strings.Builder
	for i, c := range comps {
		specifier, err := fc.resolveModulePath(c.Path)
		if err != nil {
			return nil, fmt.Errorf("global UI component: %w", err)
		}
		fmt.Fprintf(&imports, "import Comp_%d from %s;\n", i, jsString(specifier))
		if len(c.Props) == 0 {
			fmt.Fprintf(&entries, "  Comp_%d,\n", i)
			continue
		}
		props, err := json.Marshal(c.Props)
		if err != nil {
			return nil, fmt.Errorf("global UI component %q props: %w", c.Path, err)
		}
		fmt.Fprintf(&entries, "  [Comp_%d, %s],\n", i, props)
	}

	src := imports.String() + "export default [\n" + entries.String() + "];\n"
	return SourceMap{GlobalComponents.String(): src}, nil
}
