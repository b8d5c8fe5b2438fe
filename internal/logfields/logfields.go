package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyFactory    = "factory"
	KeyModuleID   = "module_id"
	KeyModules    = "modules"
	KeyPlugin     = "plugin"
	KeySource     = "source"
	KeyRoute      = "route"
	KeyRoutes     = "routes"
	KeyLang       = "lang"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyDurationMS = "duration_ms"
	KeyChanged    = "changed"
	KeyName       = "name"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Factory(name string) slog.Attr   { return slog.String(KeyFactory, name) }
func ModuleID(id string) slog.Attr    { return slog.String(KeyModuleID, id) }
func Modules(n int) slog.Attr         { return slog.Int(KeyModules, n) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Route(p string) slog.Attr        { return slog.String(KeyRoute, p) }
func Routes(n int) slog.Attr          { return slog.Int(KeyRoutes, n) }
func Lang(l string) slog.Attr         { return slog.String(KeyLang, l) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Changed(n int) slog.Attr         { return slog.Int(KeyChanged, n) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
