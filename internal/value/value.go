// Package value provides the tagged value tree that lint rules scan.
//
// A Value is one of four kinds: text, sequence, mapping or other. Values are
// built from decoded YAML (see FromNode) or from plain Go data (see FromAny)
// and are never mutated after construction, so a tree can be shared between
// rules and goroutines freely.
package value

import (
	"fmt"
	"sort"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindOther Kind = iota
	KindText
	KindSequence
	KindMapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Position is a 1-based location in the source document. Zero means unknown.
type Position struct {
	Line   int
	Column int
}

// Entry is a single key/value pair of a mapping.
type Entry struct {
	Key   string
	Value *Value
}

// Value is a node of the scanned tree.
type Value struct {
	kind Kind

	// text holds the string for KindText and the raw scalar for KindOther.
	text    string
	items   []*Value
	entries []Entry

	pos Position
}

// Text creates a text value.
func Text(s string) *Value {
	return &Value{kind: KindText, text: s}
}

// Sequence creates an ordered sequence value.
func Sequence(items ...*Value) *Value {
	return &Value{kind: KindSequence, items: items}
}

// Mapping creates a mapping value. Entry order is preserved.
func Mapping(entries ...Entry) *Value {
	return &Value{kind: KindMapping, entries: entries}
}

// Other creates a non-text scalar. raw is kept only for display.
func Other(raw string) *Value {
	return &Value{kind: KindOther, text: raw}
}

// E is shorthand for building a mapping entry.
func E(key string, v *Value) Entry {
	return Entry{Key: key, Value: v}
}

// At returns a copy of v positioned at line and column.
func (v *Value) At(line, column int) *Value {
	c := *v
	c.pos = Position{Line: line, Column: column}
	return &c
}

// Kind returns the variant held by v. A nil value is KindOther.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindOther
	}
	return v.kind
}

// Text returns the string of a text value, or the raw scalar of other values.
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	return v.text
}

// Items returns the elements of a sequence.
func (v *Value) Items() []*Value {
	if v == nil {
		return nil
	}
	return v.items
}

// Entries returns the entries of a mapping in document order.
func (v *Value) Entries() []Entry {
	if v == nil {
		return nil
	}
	return v.entries
}

// Get returns the value stored under key in a mapping.
func (v *Value) Get(key string) (*Value, bool) {
	if v.Kind() != KindMapping {
		return nil, false
	}
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Len returns the number of items or entries for containers and zero otherwise.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.entries)
	default:
		return 0
	}
}

// Position returns where v starts in its source document.
func (v *Value) Position() Position {
	if v == nil {
		return Position{}
	}
	return v.pos
}

// Line returns the 1-based source line of v, or 0.
func (v *Value) Line() int { return v.Position().Line }

// Column returns the 1-based source column of v, or 0.
func (v *Value) Column() int { return v.Position().Column }

// FromAny converts plain decoded Go data into a value tree.
//
// Map entries are sorted by key so that conversion is deterministic.
// Unrecognised types become KindOther.
func FromAny(x interface{}) *Value {
	switch t := x.(type) {
	case *Value:
		return t
	case string:
		return Text(t)
	case []string:
		items := make([]*Value, len(t))
		for i, s := range t {
			items[i] = Text(s)
		}
		return Sequence(items...)
	case []interface{}:
		items := make([]*Value, len(t))
		for i, e := range t {
			items[i] = FromAny(e)
		}
		return Sequence(items...)
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Entry, len(keys))
		for i, k := range keys {
			entries[i] = E(k, FromAny(t[k]))
		}
		return Mapping(entries...)
	case map[interface{}]interface{}:
		keys := make([]string, 0, len(t))
		byKey := make(map[string]interface{}, len(t))
		for k, e := range t {
			ks := fmt.Sprint(k)
			keys = append(keys, ks)
			byKey[ks] = e
		}
		sort.Strings(keys)
		entries := make([]Entry, len(keys))
		for i, k := range keys {
			entries[i] = E(k, FromAny(byKey[k]))
		}
		return Mapping(entries...)
	case nil:
		return Other("null")
	default:
		return Other(fmt.Sprint(t))
	}
}
