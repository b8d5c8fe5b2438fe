package config

import (
	"fmt"
	"sort"
	"strings"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// SearchMode selects how the client runtime searches.
type SearchMode string

const (
	SearchModeLocal  SearchMode = "local"
	SearchModeRemote SearchMode = "remote"
	SearchModeOff    SearchMode = "off"
)

// normalizer maps case/space-insensitive strings onto enum values with a fallback.
type normalizer[T comparable] struct {
	values   map[string]T
	fallback T
}

func newNormalizer[T comparable](values map[string]T, fallback T) normalizer[T] {
	n := normalizer[T]{values: make(map[string]T, len(values)), fallback: fallback}
	for k, v := range values {
		n.values[clean(k)] = v
	}
	return n
}

func (n normalizer[T]) normalize(raw string) (T, bool) {
	if v, ok := n.values[clean(raw)]; ok {
		return v, true
	}
	return n.fallback, false
}

func (n normalizer[T]) keys() []string {
	keys := make([]string, 0, len(n.values))
	for k := range n.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clean(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

var (
	logLevelNormalizer = newNormalizer(map[string]LogLevel{
		"debug":   LogLevelDebug,
		"info":    LogLevelInfo,
		"warn":    LogLevelWarn,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
	}, LogLevelInfo)

	logFormatNormalizer = newNormalizer(map[string]LogFormat{
		"json": LogFormatJSON,
		"text": LogFormatText,
	}, LogFormatText)

	searchModeNormalizer = newNormalizer(map[string]SearchMode{
		"local":    SearchModeLocal,
		"remote":   SearchModeRemote,
		"off":      SearchModeOff,
		"false":    SearchModeOff,
		"disabled": SearchModeOff,
	}, SearchModeLocal)
)

// NormalizeLogLevel maps raw onto a LogLevel, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel {
	v, _ := logLevelNormalizer.normalize(raw)
	return v
}

// NormalizeLogFormat maps raw onto a LogFormat, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat {
	v, _ := logFormatNormalizer.normalize(raw)
	return v
}

// Normalize case-folds enumerations and canonicalizes paths in place. It returns
// human readable warnings for values it had to replace.
func Normalize(cfg *Config) []string {
	var warnings []string

	normalizeEnum := func(field, raw string, known bool, keys []string) {
		if raw != "" && !known {
			warnings = append(warnings, fmt.Sprintf("unknown %s %q, valid options: %v", field, raw, keys))
		}
	}

	level, ok := logLevelNormalizer.normalize(string(cfg.Logging.Level))
	normalizeEnum("logging.level", string(cfg.Logging.Level), ok, logLevelNormalizer.keys())
	if cfg.Logging.Level != "" {
		cfg.Logging.Level = level
	}

	format, ok := logFormatNormalizer.normalize(string(cfg.Logging.Format))
	normalizeEnum("logging.format", string(cfg.Logging.Format), ok, logFormatNormalizer.keys())
	if cfg.Logging.Format != "" {
		cfg.Logging.Format = format
	}

	mode, ok := searchModeNormalizer.normalize(string(cfg.Search.Mode))
	normalizeEnum("search.mode", string(cfg.Search.Mode), ok, searchModeNormalizer.keys())
	if cfg.Search.Mode != "" {
		cfg.Search.Mode = mode
	}

	if cfg.Base != "" {
		cfg.Base = NormalizeBase(cfg.Base)
	}
	cfg.Lang = strings.TrimSpace(cfg.Lang)
	for i := range cfg.Locales {
		cfg.Locales[i].Lang = strings.TrimSpace(cfg.Locales[i].Lang)
	}
	for i, ext := range cfg.Route.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Route.Extensions[i] = ext
	}
	return warnings
}

// NormalizeBase ensures a base path has exactly one leading and one trailing slash.
func NormalizeBase(base string) string {
	trimmed := strings.Trim(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed + "/"
}
