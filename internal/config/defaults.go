package config

// Default values applied when fields are omitted.
const (
	DefaultRoot           = "docs"
	DefaultBase           = "/"
	DefaultTitle          = "Documentation"
	DefaultLang           = "en"
	DefaultOutDir         = "doc_build"
	DefaultI18nSourcePath = "i18n.json"
	DefaultRuntimeTempDir = "node_modules/.docvm/runtime"
)

// DefaultRouteExtensions lists the page file extensions discovered by default.
var DefaultRouteExtensions = []string{".md", ".mdx", ".tsx", ".jsx", ".ts", ".js"}

// DefaultRouteExclude lists the doublestar patterns never turned into routes.
var DefaultRouteExclude = []string{"**/node_modules/**", "**/_*", "**/.*", "**/.*/**"}

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type siteDefaultApplier struct{}

func (siteDefaultApplier) Domain() string { return "site" }

func (siteDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	if cfg.Base == "" {
		cfg.Base = DefaultBase
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.Lang == "" {
		if len(cfg.Locales) > 0 {
			cfg.Lang = cfg.Locales[0].Lang
		} else {
			cfg.Lang = DefaultLang
		}
	}
	if cfg.I18nSourcePath == "" {
		cfg.I18nSourcePath = DefaultI18nSourcePath
	}
	if cfg.OutDir == "" {
		cfg.OutDir = DefaultOutDir
	}
}

type routeDefaultApplier struct{}

func (routeDefaultApplier) Domain() string { return "route" }

func (routeDefaultApplier) ApplyDefaults(cfg *Config) {
	if len(cfg.Route.Extensions) == 0 {
		cfg.Route.Extensions = append([]string(nil), DefaultRouteExtensions...)
	}
	cfg.Route.Exclude = append(append([]string(nil), DefaultRouteExclude...), cfg.Route.Exclude...)
}

type runtimeDefaultApplier struct{}

func (runtimeDefaultApplier) Domain() string { return "runtime" }

func (runtimeDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Runtime.TempDir == "" {
		cfg.Runtime.TempDir = DefaultRuntimeTempDir
	}
	if cfg.Search.Mode == "" {
		cfg.Search.Mode = SearchModeLocal
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9464"
	}
}

// defaultAppliers run in order; later domains may rely on earlier ones.
var defaultAppliers = []DefaultApplier{
	siteDefaultApplier{},
	routeDefaultApplier{},
	runtimeDefaultApplier{},
}

// ApplyDefaults fills omitted fields in place.
func ApplyDefaults(cfg *Config) {
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
}
