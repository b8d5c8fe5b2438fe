package runtimemodule

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const prismLanguagePath = "react-syntax-highlighter/dist/esm/languages/prism/"

// defaultHighlightLanguages are always bundled.
var defaultHighlightLanguages = []string{
	"bash", "css", "diff", "javascript", "json", "jsx", "less", "markdown",
	"scss", "tsx", "typescript", "xml", "yaml",
}

// defaultLanguageAliases maps common fence names onto grammar names.
var defaultLanguageAliases = map[string]string{
	"js":    "javascript",
	"ts":    "typescript",
	"sh":    "bash",
	"shell": "bash",
	"yml":   "yaml",
	"md":    "markdown",
	"html":  "xml",
}

var prismLanguageName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// PrismLanguagesFactory imports the syntax-highlighting grammars for the
// default languages plus the configured ones and exports them with the alias
// table.
func PrismLanguagesFactory(_ context.Context, fc *FactoryContext) (SourceMap, error) {
	languages := make(map[string]bool, len(defaultHighlightLanguages))
	for _, l := range defaultHighlightLanguages {
		languages[l] = true
	}
	aliases := make(map[string]string, len(defaultLanguageAliases))
	for a, l := range defaultLanguageAliases {
		aliases[a] = l
	}

	if fc.Config != nil {
		for _, h := range fc.Config.Markdown.HighlightLanguages {
			name := strings.ToLower(strings.TrimSpace(h.Name))
			if !prismLanguageName.MatchString(name) {
				return nil, fmt.Errorf("invalid highlight language %q", h.Name)
			}
			languages[name] = true
			if h.Alias != "" {
				aliases[strings.ToLower(strings.TrimSpace(h.Alias))] = name
			}
		}
	}

	var b strings.Builder
	names := sortedKeys(languages)
	for _, name := range names {
		fmt.Fprintf(&b, "import %s from %s;\n", prismIdent(name), jsString(prismLanguagePath+name))
	}
	b.WriteString("export const aliases = {\n")
	for _, alias := range sortedKeys(aliases) {
		fmt.Fprintf(&b, "  %s: %s,\n", jsString(alias), jsString(aliases[alias]))
	}
	b.WriteString("};\nexport const languages = {\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %s,\n", jsString(name), prismIdent(name))
	}
	b.WriteString("};\n")
	return SourceMap{PrismLanguages.String(): b.String()}, nil
}

func prismIdent(name string) string {
	return "lang_" + strings.ReplaceAll(name, "-", "_")
}
