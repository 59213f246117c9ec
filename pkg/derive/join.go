package derive

import "github.com/leapstack-labs/tbcheck/pkg/table"

// lookup resolves a key to the first matching record of a related table.
type lookup struct {
	ref   *table.Table
	index *table.Index
}

// newLookup indexes ref by refKey. It returns nil when ref is empty or does
// not declare refKey, meaning no join is possible.
func newLookup(ref *table.Table, refKey string) *lookup {
	if ref.IsEmpty() || !ref.HasColumn(refKey) {
		return nil
	}
	return &lookup{ref: ref, index: table.NewIndex(ref, refKey)}
}

// record returns the first related record whose key equals v.
func (l *lookup) record(v any) (table.Record, bool) {
	if l == nil {
		return nil, false
	}
	i, ok := l.index.Lookup(v)
	if !ok {
		return nil, false
	}
	return l.ref.Records[i], true
}

// joinColumn pulls refCol from the first related record matching each
// record's key. Defaults: "" for every record when the join is impossible
// (empty ref, or ref lacking the key or the column); nil for an unmatched
// record.
func joinColumn(t *table.Table, key string, ref *table.Table, refKey, refCol string) []any {
	out := make([]any, t.Len())
	l := newLookup(ref, refKey)
	if l == nil || !ref.HasColumn(refCol) {
		for i := range out {
			out[i] = ""
		}
		return out
	}
	for i, rec := range t.Records {
		if match, ok := l.record(rec[key]); ok {
			out[i] = match[refCol]
		}
	}
	return out
}
