package runtimemodule

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// SourceMap maps a module identifier to its module source text.
type SourceMap map[string]string

// Insert adds id without overwriting. An existing id yields a *DuplicateModuleError
// and leaves the map unchanged.
func (m SourceMap) Insert(id, source string) error {
	if _, exists := m[id]; exists {
		return &DuplicateModuleError{ID: id}
	}
	m[id] = source
	return nil
}

// Assign copies every entry of other into m, overwriting existing keys.
func (m SourceMap) Assign(other SourceMap) {
	for k, v := range other {
		m[k] = v
	}
}

// Clone returns a shallow copy of m. A nil map clones to an empty one.
func (m SourceMap) Clone() SourceMap {
	out := make(SourceMap, len(m))
	out.Assign(m)
	return out
}

// Keys returns the identifiers in sorted order.
func (m SourceMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Hash returns a hex sha256 over the sorted entries.
func (m SourceMap) Hash() string {
	h := sha256.New()
	for _, k := range m.Keys() {
		_, _ = h.Write([]byte(k))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(m[k]))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashOf returns the hex sha256 of one module source.
func HashOf(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
