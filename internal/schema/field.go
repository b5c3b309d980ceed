// Package schema maps provider-specific extraction records onto a canonical
// field taxonomy so that records with different key names, nesting, or flat
// layouts can be compared field by field.
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NoItem is the item index for fields that do not belong to the repeating
// line-item group.
const NoItem = -1

// CanonicalField is the provider-independent identity of one value slot:
// a field group, a field name (dotted within the group), and an item index
// for repeating line items.
type CanonicalField struct {
	Group string
	Name  string
	Item  int
}

func (f CanonicalField) String() string {
	if f.Item == NoItem {
		return f.Group + "." + f.Name
	}
	return fmt.Sprintf("%s[%d].%s", f.Group, f.Item, f.Name)
}

// GroupLabel renders the group column of a comparison row: the group name,
// or items[i] for line-item fields.
func (f CanonicalField) GroupLabel() string {
	if f.Item == NoItem {
		return f.Group
	}
	return fmt.Sprintf("%s[%d]", f.Group, f.Item)
}

// ValueKind distinguishes the ways a canonical field can be unresolvable.
// "Provider didn't extract it" and "provider's schema cannot express it" are
// observably different outcomes and stay distinct all the way to rendering.
type ValueKind int

const (
	// KindPresent means the record carries a value for the field (possibly
	// an empty string, which is still present).
	KindPresent ValueKind = iota
	// KindAbsent means the record has no value for the field. JSON null
	// counts as absent.
	KindAbsent
	// KindAbsentFlat means the record uses a flat structure that cannot
	// express this per-item field.
	KindAbsentFlat
)

// Value is the resolved content of one canonical field in one record.
type Value struct {
	Kind ValueKind
	Raw  any
}

// Absent and AbsentFlat are the two non-present sentinel values.
var (
	Absent     = Value{Kind: KindAbsent}
	AbsentFlat = Value{Kind: KindAbsentFlat}
)

// Present wraps a raw record value.
func Present(raw any) Value {
	return Value{Kind: KindPresent, Raw: raw}
}

// IsPresent reports whether the field resolved to an actual value.
func (v Value) IsPresent() bool {
	return v.Kind == KindPresent
}

// Render returns the human-readable cell text for the value. The three
// non-value cases render distinctly: absent fields as N/A, fields a flat
// structure cannot express as N/A (flat structure), and present-but-empty
// strings as a quoted empty string.
func (v Value) Render() string {
	switch v.Kind {
	case KindAbsent:
		return "N/A"
	case KindAbsentFlat:
		return "N/A (flat structure)"
	}
	switch raw := v.Raw.(type) {
	case string:
		if raw == "" {
			return `""`
		}
		return raw
	case json.Number:
		return raw.String()
	case nil:
		return "N/A"
	default:
		b, err := json.Marshal(raw)
		if err != nil {
			return fmt.Sprintf("%v", raw)
		}
		return string(b)
	}
}

// Equal compares two values under normalization: numeric values compare by
// parsed numeric value (9.0 equals 9.0000), strings by exact text after
// trimming, original-language content untouched. Values of different
// presence kinds are never equal, except that both flavors of absence
// compare equal to themselves only.
func Equal(a, b Value) bool {
	if a.Kind != KindPresent || b.Kind != KindPresent {
		return a.Kind == b.Kind
	}
	an, aNum := numericValue(a.Raw)
	bn, bNum := numericValue(b.Raw)
	if aNum && bNum {
		return an == bn
	}
	if aNum != bNum {
		return false
	}
	return textValue(a.Raw) == textValue(b.Raw)
}

// numericValue reports whether raw carries a number, parsing number-like
// strings such as "9.0000" (whitespace ignored).
func numericValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		s := strings.Join(strings.Fields(v), "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// textValue is the trimmed string form used for non-numeric comparison.
func textValue(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// FieldValue pairs a canonical field with its resolved value.
type FieldValue struct {
	Field CanonicalField
	Value Value
}
