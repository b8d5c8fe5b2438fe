package commands

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docvm/internal/config"
)

// Global carries state shared by every command.
type Global struct {
	// Out receives command output. Logs go to stderr.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"docvm.yaml" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log format (text or json); defaults to the configuration file"`
	Timeout   time.Duration    `help:"Upper bound for one generation pass (0 disables)" default:"0s"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate runtime modules and report changes since the last pass"`
	Build    BuildCmd    `cmd:"" help:"Bundle an entry point with the runtime modules installed"`
	IDs      IDsCmd      `cmd:"" name:"ids" help:"List the reserved runtime module identifiers"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate runtime modules whenever sources change"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	format := config.LogFormatText
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}
	level := config.LogLevelInfo
	if c.Verbose {
		level = config.LogLevelDebug
	}
	configureLogging(level, format)
	return nil
}

// applyLogging switches to the configured logging settings for anything the
// command line left unset.
func (c *CLI) applyLogging(cfg *config.Config) {
	level := cfg.Logging.Level
	if c.Verbose {
		level = config.LogLevelDebug
	}
	format := cfg.Logging.Format
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}
	configureLogging(level, format)
}

func configureLogging(level config.LogLevel, format config.LogFormat) {
	opts := &slog.HandlerOptions{Level: slogLevel(level)}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
