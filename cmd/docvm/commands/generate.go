package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"git.home.luguber.info/inful/docvm/internal/manifest"
	"git.home.luguber.info/inful/docvm/internal/runtimemodule"
	"git.home.luguber.info/inful/docvm/internal/workspace"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	SSR        bool   `name:"ssr" help:"Generate the server-side rendering variant"`
	Emit       bool   `help:"Write every module to <runtime dir>/modules/<id>.js"`
	Manifest   string `help:"Snapshot database path (default <runtime dir>/manifest.db)" type:"path"`
	NoManifest bool   `name:"no-manifest" help:"Do not compare with or record snapshots"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := root.passContext(context.Background())
	defer cancel()

	s, err := root.openSession(ctx, g.SSR, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	var reg runtimemodule.Registrar = &runtimemodule.MemoryRegistrar{}
	if g.Emit {
		reg = workspace.Emitter{}
	}
	modules, err := s.generator.Publish(ctx, s.fc, nil, reg)
	if err != nil {
		return err
	}

	out := global.out()
	if err := printModules(out, modules); err != nil {
		return err
	}
	if g.Emit {
		_, _ = fmt.Fprintf(out, "\nEmitted %d modules to %s\n", len(modules), workspaceModulesDir(s))
	}
	if g.NoManifest {
		return nil
	}

	store, err := manifest.NewSQLiteStore(s.manifestPath(g.Manifest))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	changes, err := s.record(ctx, store, modules)
	if err != nil {
		return err
	}
	printChanges(out, changes)
	return nil
}

func workspaceModulesDir(s *session) string {
	return filepath.Join(s.fc.TempDir, workspace.ModulesDir)
}

func printModules(w io.Writer, modules runtimemodule.SourceMap) error {
	table := tablewriter.NewWriter(w)
	table.Header("Module", "Bytes", "SHA256")
	for _, id := range modules.Keys() {
		if err := table.Append(id, strconv.Itoa(len(modules[id])), runtimemodule.HashOf(modules[id])[:12]); err != nil {
			return err
		}
	}
	return table.Render()
}

func printChanges(w io.Writer, c manifest.Changes) {
	if c.Empty() {
		_, _ = fmt.Fprintln(w, "\nNo changes since the previous pass")
		return
	}
	_, _ = fmt.Fprintf(w, "\n%d modules changed since the previous pass\n", c.Count())
	for _, id := range c.Added {
		_, _ = fmt.Fprintf(w, "  + %s\n", id)
	}
	for _, id := range c.Changed {
		_, _ = fmt.Fprintf(w, "  ~ %s\n", id)
	}
	for _, id := range c.Removed {
		_, _ = fmt.Fprintf(w, "  - %s\n", id)
	}
}
