package doc

import (
	"encoding/hex"
	"sort"

	"github.com/zeebo/blake3"
)

// Mark is the canonical identity of one open InlineWrapper (or, for atom
// runs, the atom itself). Key is a content hash over kind and data, so two
// marks are equal iff kind and data are equal.
type Mark struct {
	Kind string
	Data map[string]string
	Key  string
	Atom bool
}

// NewMark builds a wrapper mark with its content key.
func NewMark(kind string, data map[string]string) Mark {
	return Mark{Kind: kind, Data: data, Key: contentKey(kind, data, false)}
}

// NewAtomMark builds the mark representing an inline atom inside a run
// list. Atom marks are always innermost and never shared between runs.
func NewAtomMark(kind string, data map[string]string) Mark {
	return Mark{Kind: kind, Data: data, Key: contentKey(kind, data, true), Atom: true}
}

// MarkFor returns the mark identifying an inline wrapper.
func MarkFor(w *InlineWrapper) Mark {
	return NewMark(w.Kind, w.Data)
}

// Equal reports whether two marks carry the same kind and data.
func (m Mark) Equal(o Mark) bool {
	return m.Key == o.Key
}

// Wrapper materializes an empty InlineWrapper for this mark.
func (m Mark) Wrapper() *InlineWrapper {
	return &InlineWrapper{Kind: m.Kind, Data: cloneData(m.Data)}
}

// contentKey hashes kind plus the data pairs in sorted key order. The
// sorted walk keeps the key stable across map iteration order.
func contentKey(kind string, data map[string]string, atom bool) string {
	h := blake3.New()
	if atom {
		h.Write([]byte{'a'})
	}
	h.Write([]byte(kind))
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{1})
		h.Write([]byte(data[k]))
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:12])
}

// EqualStacks reports whether two mark stacks are identical in order and
// content.
func EqualStacks(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// IsPrefix reports whether a is a (possibly equal) leading prefix of b.
func IsPrefix(a, b []Mark) bool {
	if len(a) > len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// IsStrictPrefix reports whether a is a proper leading prefix of b.
func IsStrictPrefix(a, b []Mark) bool {
	return len(a) < len(b) && IsPrefix(a, b)
}

// CommonPrefix returns the longest shared leading prefix of two stacks.
func CommonPrefix(a, b []Mark) []Mark {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i].Equal(b[i]) {
		i++
	}
	return a[:i:i]
}

// ContainsKind reports whether the stack holds a mark of the given kind.
func ContainsKind(stack []Mark, kind string) bool {
	for _, m := range stack {
		if !m.Atom && m.Kind == kind {
			return true
		}
	}
	return false
}
