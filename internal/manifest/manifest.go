package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"git.home.luguber.info/inful/docvm/internal/runtimemodule"
)

// Snapshot is the record of one successful generation pass.
type Snapshot struct {
	BuildID   string            `json:"build_id"`
	Timestamp time.Time         `json:"timestamp"`
	SSR       bool              `json:"ssr"`
	Modules   map[string]string `json:"modules"` // id -> sha256 of the source
	Plugins   []PluginVersion   `json:"plugins,omitempty"`
}

// PluginVersion identifies a plugin enabled during a pass.
type PluginVersion struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NewSnapshot hashes every module of a pass.
func NewSnapshot(buildID string, ssr bool, modules runtimemodule.SourceMap, now time.Time) *Snapshot {
	hashes := make(map[string]string, len(modules))
	for id, src := range modules {
		hashes[id] = runtimemodule.HashOf(src)
	}
	return &Snapshot{
		BuildID:   buildID,
		Timestamp: now.UTC(),
		SSR:       ssr,
		Modules:   hashes,
	}
}

// IDs returns the recorded module identifiers in sorted order.
func (s *Snapshot) IDs() []string {
	ids := make([]string, 0, len(s.Modules))
	for id := range s.Modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ToJSON serializes the snapshot to JSON.
func (s *Snapshot) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a snapshot from JSON.
func FromJSON(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// Hash computes a deterministic hash over the module hashes and plugins. Two
// passes producing identical output have the same hash regardless of build id
// or time.
func (s *Snapshot) Hash() (string, error) {
	hashInput := struct {
		SSR     bool              `json:"ssr"`
		Modules map[string]string `json:"modules"`
		Plugins []PluginVersion   `json:"plugins"`
	}{
		SSR:     s.SSR,
		Modules: s.Modules,
		Plugins: s.Plugins,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}
