package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docvm/cmd/docvm/commands"
	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{Out: os.Stdout}

	ctx := kong.Parse(&cli,
		kong.Name("docvm"),
		kong.Description("Generate the runtime modules of a documentation site build."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	if err := ctx.Run(global, &cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
