package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
)

// Validate checks cross-field invariants that defaults cannot repair.
func Validate(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	for _, check := range []func() error{
		v.validateLocales,
		v.validateComponents,
		v.validateMarkdown,
		v.validatePlugins,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func invalid(field, format string, args ...any) error {
	return errors.ConfigError("configuration validation failed").
		WithContext("field", field).
		WithContext("reason", fmt.Sprintf(format, args...)).
		Build()
}

func (cv *configurationValidator) validateLocales() error {
	if len(cv.config.Locales) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(cv.config.Locales))
	for i, l := range cv.config.Locales {
		if l.Lang == "" {
			return invalid(fmt.Sprintf("locales[%d].lang", i), "lang is required")
		}
		if strings.Contains(l.Lang, "/") {
			return invalid(fmt.Sprintf("locales[%d].lang", i), "lang %q must not contain '/'", l.Lang)
		}
		if seen[l.Lang] {
			return invalid(fmt.Sprintf("locales[%d].lang", i), "duplicate locale %q", l.Lang)
		}
		seen[l.Lang] = true
	}
	if !seen[cv.config.Lang] {
		return invalid("lang", "default lang %q is not one of the configured locales", cv.config.Lang)
	}
	return nil
}

func (cv *configurationValidator) validateComponents() error {
	for i, c := range cv.config.GlobalUIComponents {
		if strings.TrimSpace(c.Path) == "" {
			return invalid(fmt.Sprintf("globalUIComponents[%d]", i), "path is required")
		}
	}
	for i, s := range cv.config.GlobalStyles {
		if strings.TrimSpace(s) == "" {
			return invalid(fmt.Sprintf("globalStyles[%d]", i), "path is required")
		}
	}
	return nil
}

func (cv *configurationValidator) validateMarkdown() error {
	for i, h := range cv.config.Markdown.HighlightLanguages {
		if strings.TrimSpace(h.Name) == "" {
			return invalid(fmt.Sprintf("markdown.highlightLanguages[%d]", i), "language name is required")
		}
	}
	return nil
}

func (cv *configurationValidator) validatePlugins() error {
	seen := make(map[string]bool, len(cv.config.Plugins))
	for i, p := range cv.config.Plugins {
		if strings.TrimSpace(p.Name) == "" {
			return invalid(fmt.Sprintf("plugins[%d].name", i), "plugin name is required")
		}
		if seen[p.Name] {
			return invalid(fmt.Sprintf("plugins[%d].name", i), "plugin %q enabled twice", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
