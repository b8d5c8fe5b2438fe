package runtimemodule

// Merge combines the internal modules with plugin contributions. The result
// starts as a copy of internal; contributed identifiers are inserted in sorted
// order. A contributed identifier that already exists in internal, or that
// belongs to the closed internal set, fails the merge with a *DuplicateModuleError
// and no partial result is returned.
func Merge(internal, contributed SourceMap) (SourceMap, error) {
	out := internal.Clone()
	for _, id := range contributed.Keys() {
		if IsKnown(id) {
			if _, ok := internal[id]; !ok {
				return nil, &DuplicateModuleError{ID: id}
			}
		}
		if err := out.Insert(id, contributed[id]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
