package manifest

import "sort"

// Changes lists the identifiers that differ between two snapshots, each sorted.
type Changes struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Count returns the number of affected identifiers.
func (c Changes) Count() int {
	return len(c.Added) + len(c.Removed) + len(c.Changed)
}

// Diff compares cur against prev. A nil prev reports every module as added.
func Diff(prev, cur *Snapshot) Changes {
	var c Changes
	var before, after map[string]string
	if prev != nil {
		before = prev.Modules
	}
	if cur != nil {
		after = cur.Modules
	}
	for id, h := range after {
		old, ok := before[id]
		switch {
		case !ok:
			c.Added = append(c.Added, id)
		case old != h:
			c.Changed = append(c.Changed, id)
		}
	}
	for id := range before {
		if _, ok := after[id]; !ok {
			c.Removed = append(c.Removed, id)
		}
	}
	sort.Strings(c.Added)
	sort.Strings(c.Removed)
	sort.Strings(c.Changed)
	return c
}
