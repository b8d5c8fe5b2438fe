package commands

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/docvm/internal/runtimemodule"
)

// IDsCmd implements the 'ids' command.
type IDsCmd struct {
	JSON bool `name:"json" help:"Print a JSON array"`
}

func (i *IDsCmd) Run(global *Global, _ *CLI) error {
	ids := runtimemodule.IDs()
	out := global.out()
	if i.JSON {
		names := make([]string, len(ids))
		for n, id := range ids {
			names[n] = id.String()
		}
		return json.NewEncoder(out).Encode(names)
	}
	for _, id := range ids {
		_, _ = fmt.Fprintln(out, id)
	}
	return nil
}
