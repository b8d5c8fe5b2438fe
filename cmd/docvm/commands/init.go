package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/docvm/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(global *Global, root *CLI) error {
	// If the user specified an output directory, place the config there as "docvm.yaml".
	if i.Output != "" {
		return RunInit(global, filepath.Join(i.Output, config.DefaultConfigFile), i.Force)
	}
	return RunInit(global, root.Config, i.Force)
}

func RunInit(global *Global, configPath string, force bool) error {
	out := global.out()
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
