package builtins

import (
	"fmt"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/plugin"
)

const (
	defaultBackToTopComponent = "@docvm/plugin-back-to-top/BackToTop"
	defaultBackToTopThreshold = 300
)

// BackToTop adds a floating "back to top" button to every page.
type BackToTop struct {
	component string
	threshold int
}

// NewBackToTop builds the plugin. Options: "threshold" is the scroll offset
// in pixels after which the button shows, "component" replaces the default
// component specifier.
func NewBackToTop(_ *plugin.Context, options map[string]any) (plugin.Plugin, error) {
	return &BackToTop{
		component: plugin.OptionString(options, "component", defaultBackToTopComponent),
		threshold: plugin.OptionInt(options, "threshold", defaultBackToTopThreshold),
	}, nil
}

// Metadata implements plugin.Plugin.
func (p *BackToTop) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        BackToTopName,
		Version:     "v1.0.0",
		Description: "Renders a back to top button on every page",
	}
}

// Validate implements plugin.Plugin.
func (p *BackToTop) Validate(options map[string]any) error {
	if v, ok := options["threshold"]; ok {
		switch n := v.(type) {
		case int:
			if n < 0 {
				return fmt.Errorf("threshold must not be negative, got %d", n)
			}
		case float64:
			if n < 0 {
				return fmt.Errorf("threshold must not be negative, got %v", n)
			}
		default:
			return fmt.Errorf("threshold must be a number, got %T", v)
		}
	}
	if v, ok := options["component"]; ok {
		if s, ok := v.(string); !ok || s == "" {
			return fmt.Errorf("component must be a non-empty string")
		}
	}
	return nil
}

// GlobalUIComponents implements plugin.GlobalComponentProvider.
func (p *BackToTop) GlobalUIComponents() []config.GlobalComponent {
	return []config.GlobalComponent{{
		Path:  p.component,
		Props: map[string]any{"threshold": p.threshold},
	}}
}
