package table

// Index maps key text to the position of the first record carrying it.
// Records with a missing key are not indexed, so they never match.
type Index struct {
	positions map[string]int
}

// NewIndex builds a first-match index over the key column. When several
// records share a key, the earliest one wins.
func NewIndex(t *Table, key string) *Index {
	ix := &Index{positions: make(map[string]int, t.Len())}
	if t == nil {
		return ix
	}
	for i, rec := range t.Records {
		k, ok := Text(rec[key])
		if !ok {
			continue
		}
		if _, seen := ix.positions[k]; !seen {
			ix.positions[k] = i
		}
	}
	return ix
}

// Lookup returns the position of the first record whose key equals v.
func (ix *Index) Lookup(v any) (int, bool) {
	k, ok := Text(v)
	if !ok {
		return 0, false
	}
	i, found := ix.positions[k]
	return i, found
}

// Contains reports whether any record carries the key v.
func (ix *Index) Contains(v any) bool {
	_, ok := ix.Lookup(v)
	return ok
}

// Len returns the number of distinct indexed keys.
func (ix *Index) Len() int {
	return len(ix.positions)
}
