package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/logfields"
)

// DefaultConfigFile is the configuration file name looked up when none is given.
const DefaultConfigFile = "docvm.yaml"

// Config is the resolved site configuration consumed by every runtime module factory.
type Config struct {
	Root        string `yaml:"root"`
	Base        string `yaml:"base"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Lang        string `yaml:"lang,omitempty"`
	Logo        string `yaml:"logo,omitempty"`
	Icon        string `yaml:"icon,omitempty"`

	Locales     []Locale    `yaml:"locales,omitempty"`
	ThemeConfig ThemeConfig `yaml:"themeConfig,omitempty"`
	Route       RouteConfig `yaml:"route,omitempty"`

	GlobalUIComponents []GlobalComponent `yaml:"globalUIComponents,omitempty"`
	GlobalStyles       []string          `yaml:"globalStyles,omitempty"`
	I18nSourcePath     string            `yaml:"i18nSourcePath,omitempty"`

	Search   SearchConfig   `yaml:"search,omitempty"`
	Markdown MarkdownConfig `yaml:"markdown,omitempty"`
	Plugins  []PluginConfig `yaml:"plugins,omitempty"`

	Runtime RuntimeConfig `yaml:"runtime,omitempty"`
	OutDir  string        `yaml:"outDir,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`

	// ProjectRoot is the directory relative paths are resolved against.
	// Load sets it to the directory containing the configuration file.
	ProjectRoot string `yaml:"-"`
}

// Locale describes one language variant of the site.
type Locale struct {
	Lang        string `yaml:"lang" json:"lang"`
	Label       string `yaml:"label" json:"label"`
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ThemeConfig carries theme options. Only LastUpdated is interpreted here; every
// other key is passed through to the client runtime untouched.
type ThemeConfig struct {
	LastUpdated bool           `yaml:"lastUpdated,omitempty"`
	Params      map[string]any `yaml:",inline"`
}

// Map returns the theme configuration as the client runtime sees it.
func (t ThemeConfig) Map() map[string]any {
	out := make(map[string]any, len(t.Params)+1)
	for k, v := range t.Params {
		out[k] = v
	}
	if t.LastUpdated {
		out["lastUpdated"] = true
	}
	return out
}

// RouteConfig controls which files under the doc root become pages.
type RouteConfig struct {
	Include    []string `yaml:"include,omitempty"`
	Exclude    []string `yaml:"exclude,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
}

// SearchConfig configures the search integration.
type SearchConfig struct {
	Mode        SearchMode `yaml:"mode,omitempty"`
	SearchHooks string     `yaml:"searchHooks,omitempty"`
	IndexDir    string     `yaml:"indexDir,omitempty"`
	CodeBlocks  bool       `yaml:"codeBlocks,omitempty"`
}

// MarkdownConfig configures markdown related runtime data.
type MarkdownConfig struct {
	HighlightLanguages []HighlightLanguage `yaml:"highlightLanguages,omitempty"`
}

// PluginConfig enables one plugin by name.
type PluginConfig struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// RuntimeConfig controls where virtual modules are rooted.
type RuntimeConfig struct {
	TempDir string `yaml:"tempDir,omitempty"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MetricsConfig represents Prometheus exposition configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Addr    string `yaml:"addr,omitempty"`
}

// Load reads, normalizes, defaults and validates a configuration file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapError(err, errors.CategoryConfig, "configuration file not found").
				Fatal().UserAction().WithContext("path", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve project root").Build()
	}
	cfg.ProjectRoot = absDir
	return cfg, nil
}

// Parse decodes configuration YAML and runs normalization, defaults and validation.
// ProjectRoot defaults to the working directory.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}

	for _, w := range Normalize(&cfg) {
		slog.Warn("config normalization", logfields.Name(w))
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	if cfg.ProjectRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.ProjectRoot = wd
		}
	}
	return &cfg, nil
}

// ResolvePath resolves p against the project root unless it is already absolute.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}

// DocRoot returns the absolute documentation root.
func (c *Config) DocRoot() string {
	return c.ResolvePath(c.Root)
}

// TempDir returns the absolute runtime temp directory.
func (c *Config) TempDir() string {
	return c.ResolvePath(c.Runtime.TempDir)
}

// SearchIndexDir returns the absolute directory search index files are written to.
func (c *Config) SearchIndexDir() string {
	if c.Search.IndexDir != "" {
		return c.ResolvePath(c.Search.IndexDir)
	}
	return filepath.Join(c.ResolvePath(c.OutDir), "static")
}

// Langs returns every configured language, default language first.
func (c *Config) Langs() []string {
	langs := []string{c.Lang}
	for _, l := range c.Locales {
		if l.Lang != c.Lang {
			langs = append(langs, l.Lang)
		}
	}
	return langs
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.NewError(errors.CategoryAlreadyExists, "configuration file already exists (use --force to overwrite)").
			UserAction().WithContext("path", configPath).Build()
	}

	example := Config{
		Root:        "docs",
		Base:        "/",
		Title:       "My Documentation",
		Description: "Documentation built with docvm",
		Lang:        "en",
		Locales: []Locale{
			{Lang: "en", Label: "English"},
			{Lang: "zh", Label: "简体中文", Title: "我的文档"},
		},
		ThemeConfig: ThemeConfig{
			LastUpdated: true,
			Params:      map[string]any{"nav": []any{map[string]any{"text": "Guide", "link": "/guide/"}}},
		},
		GlobalStyles: []string{"styles/index.css"},
		Search:       SearchConfig{Mode: SearchModeLocal},
		Markdown: MarkdownConfig{HighlightLanguages: []HighlightLanguage{
			{Name: "go"},
			{Alias: "dockerfile", Name: "docker"},
		}},
		Plugins: []PluginConfig{{Name: "last-updated"}, {Name: "back-to-top"}},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}
