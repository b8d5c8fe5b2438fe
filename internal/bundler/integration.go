package bundler

import (
	"context"
	"fmt"
	"sort"

	"github.com/evanw/esbuild/pkg/api"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/logfields"
	"git.home.luguber.info/inful/docvm/internal/observability"
	"git.home.luguber.info/inful/docvm/internal/runtimemodule"
)

// Integration generates the runtime modules of one bundler instance and
// installs them into its build options.
type Integration struct {
	Generator *runtimemodule.Generator
	Context   *runtimemodule.FactoryContext
}

// Setup runs one generation pass using the alias table of opts, registers the
// result with a fresh Registry and prepends the Registry's plugin to
// opts.Plugins. Nothing is installed when generation fails.
func (in *Integration) Setup(ctx context.Context, opts *api.BuildOptions) (*Registry, error) {
	if in.Generator == nil || in.Context == nil {
		return nil, errors.InternalError("bundler integration is not configured").Build()
	}
	reg := NewRegistry()
	if _, err := in.Generator.Publish(ctx, in.Context, AliasFromOptions(opts.Alias), reg); err != nil {
		return nil, err
	}
	opts.Plugins = append([]api.Plugin{reg.Plugin()}, opts.Plugins...)
	return reg, nil
}

// AliasFromOptions converts esbuild's alias map into an alias table.
func AliasFromOptions(alias map[string]string) runtimemodule.AliasTable {
	out := make(runtimemodule.AliasTable, len(alias))
	for k, v := range alias {
		out[k] = []string{v}
	}
	return out
}

// Options returns build options for bundling entry with the runtime
// conventions of the site: ESM output, automatic JSX, and React kept external
// so the host application provides it.
func Options(entry, outdir string, ssr bool) api.BuildOptions {
	platform := api.PlatformBrowser
	if ssr {
		platform = api.PlatformNode
	}
	return api.BuildOptions{
		EntryPoints: []string{entry},
		Outdir:      outdir,
		Bundle:      true,
		Write:       false,
		Format:      api.FormatESModule,
		Platform:    platform,
		JSX:         api.JSXAutomatic,
		External:    []string{"react", "react-dom", "react/jsx-runtime", "react-syntax-highlighter"},
		LogLevel:    api.LogLevelSilent,
	}
}

// Bundle runs esbuild and converts reported errors into a bundler error.
func Bundle(ctx context.Context, opts api.BuildOptions) ([]api.OutputFile, error) {
	result := api.Build(opts)
	for _, w := range result.Warnings {
		observability.WarnContext(ctx, "Bundler warning", logfields.Name(formatMessage(w)))
	}
	if len(result.Errors) > 0 {
		msgs := make([]string, len(result.Errors))
		for i, m := range result.Errors {
			msgs[i] = formatMessage(m)
		}
		sort.Strings(msgs)
		return nil, errors.BundlerError("bundling failed").
			WithContext("errors", msgs).
			WithContext("count", len(msgs)).
			Build()
	}
	return result.OutputFiles, nil
}

func formatMessage(m api.Message) string {
	if m.Location == nil {
		return m.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text)
}
