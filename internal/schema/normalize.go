package schema

import (
	"strconv"
	"strings"
)

// Normalized is a read-only canonical view over one extraction record. It
// never mutates the underlying record; all resolution happens through the
// fixed taxonomy, so two Normalized views of the same record always yield
// the same canonical sequence regardless of native key ordering.
type Normalized struct {
	rec  map[string]any
	flat bool
}

// Normalize builds the canonical view of a record.
func Normalize(rec map[string]any) *Normalized {
	return &Normalized{rec: rec, flat: isFlat(rec)}
}

// isFlat reports whether a record uses a flat layout: no top-level value is
// an object or array, so nothing below the top level can be addressed.
func isFlat(rec map[string]any) bool {
	for _, v := range rec {
		switch v.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

// Flat reports whether the underlying record has a flat structure.
func (n *Normalized) Flat() bool {
	return n.flat
}

// ItemCount returns the number of line items the record carries. Flat
// records count as one: their top-level keys describe the first (only
// expressible) item.
func (n *Normalized) ItemCount() int {
	if items, ok := n.rec[ItemsGroup].([]any); ok {
		return len(items)
	}
	if n.flat {
		return 1
	}
	return 0
}

// ValueAt resolves one canonical field against the record. Resolution tries
// the canonical nested path first, then each known native-key alias in
// order, and finally (for flat records) the bare field name at the top
// level. Per-item fields on a flat record resolve only for item 0; beyond
// that the flat shape cannot express them and AbsentFlat is returned rather
// than a blank, so downstream comparison can tell "provider didn't extract
// it" from "provider's schema cannot express it".
func (n *Normalized) ValueAt(f CanonicalField) Value {
	if f.Item != NoItem {
		return n.itemValue(f)
	}
	if !n.flat {
		if raw, ok := lookupPath(n.rec, f.Group+"."+f.Name); ok {
			return Present(raw)
		}
	}
	return n.resolveAliases(f)
}

func (n *Normalized) itemValue(f CanonicalField) Value {
	if items, ok := n.rec[ItemsGroup].([]any); ok {
		if f.Item >= len(items) {
			return Absent
		}
		item, ok := items[f.Item].(map[string]any)
		if !ok {
			return Absent
		}
		if raw, ok := lookupPath(item, f.Name); ok {
			return Present(raw)
		}
		return Absent
	}
	if !n.flat {
		return Absent
	}
	// Flat structure: top-level keys can only describe the first item.
	if f.Item > 0 {
		return AbsentFlat
	}
	if v := n.resolveAliases(f); v.IsPresent() {
		return v
	}
	return AbsentFlat
}

func (n *Normalized) resolveAliases(f CanonicalField) Value {
	def, ok := lookupDef(f)
	if ok {
		for _, alias := range def.aliases {
			if raw, found := lookupPath(n.rec, alias); found {
				return Present(raw)
			}
		}
	}
	if n.flat {
		if raw, found := lookupPath(n.rec, leafName(f.Name)); found {
			return Present(raw)
		}
	}
	return Absent
}

func leafName(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Fields enumerates the record's canonical sequence: every document-level
// field in taxonomy order, then every line-item field for each item index in
// document order. The walk order is fixed by the taxonomy, so the output is
// deterministic for a given record.
func (n *Normalized) Fields() []FieldValue {
	out := make([]FieldValue, 0, 64)
	for _, g := range documentGroups {
		for _, def := range g.fields {
			f := CanonicalField{Group: g.name, Name: def.path, Item: NoItem}
			out = append(out, FieldValue{Field: f, Value: n.ValueAt(f)})
		}
	}
	for i := 0; i < n.ItemCount(); i++ {
		for _, def := range itemFields {
			f := CanonicalField{Group: ItemsGroup, Name: def.path, Item: i}
			out = append(out, FieldValue{Field: f, Value: n.ValueAt(f)})
		}
	}
	return out
}

// UnionFields enumerates canonical fields across a set of normalized records:
// document fields once, then line-item fields up to the maximum item count of
// any record. This is the row set for cross-model comparison.
func UnionFields(records []*Normalized) []CanonicalField {
	maxItems := 0
	for _, r := range records {
		if r == nil {
			continue
		}
		if c := r.ItemCount(); c > maxItems {
			maxItems = c
		}
	}
	out := make([]CanonicalField, 0, 64)
	for _, g := range documentGroups {
		for _, def := range g.fields {
			out = append(out, CanonicalField{Group: g.name, Name: def.path, Item: NoItem})
		}
	}
	for i := 0; i < maxItems; i++ {
		for _, def := range itemFields {
			out = append(out, CanonicalField{Group: ItemsGroup, Name: def.path, Item: i})
		}
	}
	return out
}

// lookupPath safely retrieves a nested value by dotted path, traversing
// objects by key and arrays by numeric segment. JSON null resolves as not
// found: a null is an absent value, not a present empty one.
func lookupPath(data any, path string) (any, bool) {
	cur := data
	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}
