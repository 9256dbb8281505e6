package ecs

import (
	"sort"
	"strconv"
	"strings"
)

// Signature is the order-independent set of component ids an entity or
// archetype carries. Two archetypes are the same archetype exactly when
// their signatures are set-equal. Value type; With and Without return
// copies and never alias the receiver's backing slice.
type Signature struct {
	ids []ComponentID // sorted ascending, no duplicates
}

// NewSignature builds a signature from the given ids. Duplicates collapse.
func NewSignature(ids ...ComponentID) Signature {
	sorted := make([]ComponentID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:0]
	for i, id := range sorted {
		if i > 0 && id == sorted[i-1] {
			continue
		}
		out = append(out, id)
	}
	return Signature{ids: out}
}

// With returns a copy of s with id added.
func (s Signature) With(id ComponentID) Signature {
	merged := make([]ComponentID, 0, len(s.ids)+1)
	merged = append(merged, s.ids...)
	merged = append(merged, id)
	return NewSignature(merged...)
}

// Without returns a copy of s with id removed.
func (s Signature) Without(id ComponentID) Signature {
	out := make([]ComponentID, 0, len(s.ids))
	for _, have := range s.ids {
		if have != id {
			out = append(out, have)
		}
	}
	return Signature{ids: out}
}

// Contains reports whether id is part of the signature.
func (s Signature) Contains(id ComponentID) bool {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	return i < len(s.ids) && s.ids[i] == id
}

// Includes reports whether every id in subset is part of the signature.
// The subset's order is irrelevant here; it only matters downstream for
// positional pairing during iteration.
func (s Signature) Includes(subset []ComponentID) bool {
	for _, id := range subset {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

// Equal reports set equality.
func (s Signature) Equal(o Signature) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for i, id := range s.ids {
		if o.ids[i] != id {
			return false
		}
	}
	return true
}

// Len returns the number of component ids in the signature.
func (s Signature) Len() int {
	return len(s.ids)
}

// IDs returns the ids in ascending order. The slice is a copy.
func (s Signature) IDs() []ComponentID {
	out := make([]ComponentID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Key returns a canonical string form used to index archetypes by signature.
func (s Signature) Key() string {
	var b strings.Builder
	for i, id := range s.ids {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 16))
	}
	return b.String()
}
