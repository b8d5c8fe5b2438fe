package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/docvm/internal/bundler"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Entry  string            `arg:"" help:"Entry point importing runtime modules" type:"path"`
	Outdir string            `short:"o" help:"Output directory (default the configured outDir)" type:"path"`
	SSR    bool              `name:"ssr" help:"Bundle for server-side rendering"`
	Alias  map[string]string `help:"Import alias passed to the bundler (name=path)"`
	Minify bool              `help:"Minify the output"`
}

func (b *BuildCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := root.passContext(context.Background())
	defer cancel()

	s, err := root.openSession(ctx, b.SSR, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	outdir := b.Outdir
	if outdir == "" {
		outdir = s.cfg.ResolvePath(s.cfg.OutDir)
	}
	opts := bundler.Options(b.Entry, outdir, b.SSR)
	opts.Write = true
	opts.AbsWorkingDir = s.cfg.ProjectRoot
	opts.Alias = b.Alias
	if b.Minify {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}

	integration := &bundler.Integration{Generator: s.generator, Context: s.fc}
	if _, err := integration.Setup(ctx, &opts); err != nil {
		return err
	}
	files, err := bundler.Bundle(ctx, opts)
	if err != nil {
		return err
	}

	out := global.out()
	for _, f := range files {
		rel, relErr := filepath.Rel(s.cfg.ProjectRoot, f.Path)
		if relErr != nil {
			rel = f.Path
		}
		_, _ = fmt.Fprintf(out, "%s\t%d bytes\n", rel, len(f.Contents))
	}
	return nil
}
