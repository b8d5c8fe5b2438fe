package runtimemodule

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Factory names used in logs, metrics and error context.
const (
	FactoryRoutes             = "routes"
	FactorySiteData           = "site-data"
	FactoryGlobalUIComponents = "global-ui-components"
	FactoryGlobalStyles       = "global-styles"
	FactoryI18n               = "i18n"
	FactorySearchHooks        = "search-hooks"
	FactoryPrismLanguages     = "prism-languages"
)

// DefaultFactories returns the built-in factories in invocation order. The
// routes factory runs first because it notifies plugins of the route table,
// which later factories observe through the driver.
func DefaultFactories() []NamedFactory {
	return []NamedFactory{
		{Name: FactoryRoutes, Run: RoutesFactory},
		{Name: FactorySiteData, Run: SiteDataFactory},
		{Name: FactoryGlobalUIComponents, Run: GlobalUIComponentsFactory},
		{Name: FactoryGlobalStyles, Run: GlobalStylesFactory},
		{Name: FactoryI18n, Run: I18nFactory},
		{Name: FactorySearchHooks, Run: SearchHooksFactory},
		{Name: FactoryPrismLanguages, Run: PrismLanguagesFactory},
	}
}

// exportDefault renders `export default <json>;`. Map keys are sorted by
// encoding/json so the output is stable.
func exportDefault(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode module data: %w", err)
	}
	return "export default " + string(data) + ";\n", nil
}

func jsString(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}

// resolveModulePath turns a configured import path into the specifier written
// into a module. Specifiers covered by the alias table and bare package names
// pass through; everything else is resolved against the project root and must
// exist.
func (fc *FactoryContext) resolveModulePath(p string) (string, error) {
	if fc.isAliased(p) || isBareSpecifier(p) {
		return p, nil
	}
	abs := p
	if !filepath.IsAbs(abs) {
		root := fc.DocRoot
		if fc.Config != nil && fc.Config.ProjectRoot != "" {
			root = fc.Config.ProjectRoot
		}
		abs = filepath.Join(root, filepath.FromSlash(p))
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("module %q: %w", p, err)
	}
	return filepath.ToSlash(abs), nil
}

func (fc *FactoryContext) isAliased(p string) bool {
	for prefix := range fc.Alias {
		if p == prefix || strings.HasPrefix(p, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

// isBareSpecifier reports whether p names a package rather than a file: a
// scoped package, or a relative-looking path without a file extension.
func isBareSpecifier(p string) bool {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, ".") {
		return false
	}
	if strings.HasPrefix(p, "@") {
		return true
	}
	return filepath.Ext(p) == ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
