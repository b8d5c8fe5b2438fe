package builtins

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/docvm/internal/logfields"
	"git.home.luguber.info/inful/docvm/internal/observability"
	"git.home.luguber.info/inful/docvm/internal/pagedata"
	"git.home.luguber.info/inful/docvm/internal/plugin"
)

// LastUpdated stamps every page with the committer time of the last commit
// touching its source file. Pages outside a git repository, or never
// committed, are left untouched.
type LastUpdated struct {
	plugin.Base

	docRoot string
	layout  string

	repo     *git.Repository
	worktree string

	mu    sync.Mutex
	cache map[string]string
}

// NewLastUpdated builds the plugin. Options: "format" is a Go time layout
// (default RFC3339), "root" overrides the directory the repository is
// searched from.
func NewLastUpdated(pc *plugin.Context, options map[string]any) (plugin.Plugin, error) {
	p := &LastUpdated{
		layout: plugin.OptionString(options, "format", time.RFC3339),
		cache:  map[string]string{},
	}
	if pc != nil && pc.Config != nil {
		p.docRoot = pc.Config.DocRoot()
	}
	p.docRoot = plugin.OptionString(options, "root", p.docRoot)
	return p, nil
}

// Metadata implements plugin.Plugin.
func (p *LastUpdated) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        LastUpdatedName,
		Version:     "v1.0.0",
		Description: "Adds the last commit time of each page's source file",
	}
}

// Validate implements plugin.Plugin.
func (p *LastUpdated) Validate(options map[string]any) error {
	if v, ok := options["format"]; ok {
		if s, ok := v.(string); !ok || s == "" {
			return fmt.Errorf("format must be a non-empty time layout")
		}
	}
	return nil
}

// Init opens the repository containing the doc root.
func (p *LastUpdated) Init() error {
	if p.docRoot == "" {
		return nil
	}
	repo, err := git.PlainOpenWithOptions(p.docRoot, &git.PlainOpenOptions{DetectDotGit: true})
	if stderrors.Is(err, git.ErrRepositoryNotExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}
	p.repo = repo
	p.worktree = wt.Filesystem.Root()
	return nil
}

// Cleanup implements plugin.Lifecycle.
func (p *LastUpdated) Cleanup() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = map[string]string{}
	return nil
}

// ExtendPageData implements plugin.PageDataExtender.
func (p *LastUpdated) ExtendPageData(ctx context.Context, page *pagedata.PageData, _ bool) error {
	if p.repo == nil || page.RelativePath == "" {
		return nil
	}
	stamp, err := p.lastCommitTime(filepath.Join(p.docRoot, filepath.FromSlash(page.RelativePath)))
	if err != nil {
		observability.WarnContext(ctx, "Could not read page history",
			logfields.File(page.RelativePath), logfields.Error(err))
		return nil
	}
	if stamp != "" {
		page.LastUpdatedTime = stamp
	}
	return nil
}

func (p *LastUpdated) lastCommitTime(absPath string) (string, error) {
	rel, err := filepath.Rel(p.worktree, absPath)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)

	p.mu.Lock()
	if v, ok := p.cache[rel]; ok {
		p.mu.Unlock()
		return v, nil
	}
	p.mu.Unlock()

	iter, err := p.repo.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		// An empty repository has no HEAD yet.
		return "", nil
	}
	defer iter.Close()

	var stamp string
	commit, err := iter.Next()
	switch {
	case err == nil:
		stamp = commit.Committer.When.UTC().Format(p.layout)
	case !stderrors.Is(err, io.EOF):
		return "", err
	}

	p.mu.Lock()
	p.cache[rel] = stamp
	p.mu.Unlock()
	return stamp, nil
}
