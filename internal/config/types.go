package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// GlobalComponent is a UI component rendered on every page. In YAML it is either a
// plain path or a mapping with path and props.
type GlobalComponent struct {
	Path  string         `yaml:"path" json:"path"`
	Props map[string]any `yaml:"props,omitempty" json:"props,omitempty"`
}

// UnmarshalYAML accepts "path" or {path: ..., props: {...}}.
func (g *GlobalComponent) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		g.Path = value.Value
		g.Props = nil
		return nil
	}
	type plain GlobalComponent
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*g = GlobalComponent(p)
	return nil
}

// MarshalYAML emits the short scalar form when there are no props.
func (g GlobalComponent) MarshalYAML() (any, error) {
	if len(g.Props) == 0 {
		return g.Path, nil
	}
	type plain GlobalComponent
	return plain(g), nil
}

// HighlightLanguage enables one syntax-highlighting grammar. In YAML it is either a
// grammar name or an [alias, name] pair.
type HighlightLanguage struct {
	Alias string
	Name  string
}

// UnmarshalYAML accepts "name" or ["alias", "name"].
func (h *HighlightLanguage) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		h.Alias, h.Name = "", value.Value
		return nil
	case yaml.SequenceNode:
		var pair []string
		if err := value.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: highlight language pair must be [alias, name], got %d entries", value.Line, len(pair))
		}
		h.Alias, h.Name = pair[0], pair[1]
		return nil
	default:
		return fmt.Errorf("line %d: highlight language must be a string or [alias, name]", value.Line)
	}
}

// MarshalYAML mirrors UnmarshalYAML.
func (h HighlightLanguage) MarshalYAML() (any, error) {
	if h.Alias == "" {
		return h.Name, nil
	}
	return []string{h.Alias, h.Name}, nil
}
