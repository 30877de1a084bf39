package wad

import "sort"

// EntryMap is an insertion-ordered map from EntryName to T. Every per-type
// table in Wad is one of these: the DESIGN NOTES require a container that
// preserves insertion order and supports O(1) position lookup plus
// removal-by-index and move-by-index, which a plain map cannot.
type EntryMap[T any] struct {
	order []EntryName
	pos   map[EntryName]int
	data  map[EntryName]T
}

// NewEntryMap returns an empty EntryMap.
func NewEntryMap[T any]() *EntryMap[T] {
	return &EntryMap[T]{pos: map[EntryName]int{}, data: map[EntryName]T{}}
}

// Set inserts name at the end if it is new; if name already exists, its
// value is replaced in place (merge_one's "replaces in place on duplicate
// names" semantics) without disturbing its position.
func (m *EntryMap[T]) Set(name EntryName, value T) {
	if _, ok := m.pos[name]; !ok {
		m.pos[name] = len(m.order)
		m.order = append(m.order, name)
	}
	m.data[name] = value
}

// Get returns the value for name and whether it was present.
func (m *EntryMap[T]) Get(name EntryName) (T, bool) {
	v, ok := m.data[name]
	return v, ok
}

// Len returns the number of entries.
func (m *EntryMap[T]) Len() int { return len(m.order) }

// At returns the name/value pair at insertion position i.
func (m *EntryMap[T]) At(i int) (EntryName, T) {
	name := m.order[i]
	return name, m.data[name]
}

// IndexOf returns name's current position, or -1 if absent.
func (m *EntryMap[T]) IndexOf(name EntryName) int {
	i, ok := m.pos[name]
	if !ok {
		return -1
	}
	return i
}

// Names returns a copy of the entries in their current order.
func (m *EntryMap[T]) Names() []EntryName {
	out := make([]EntryName, len(m.order))
	copy(out, m.order)
	return out
}

// DeleteAt removes the entry at position i.
func (m *EntryMap[T]) DeleteAt(i int) {
	name := m.order[i]
	delete(m.data, name)
	delete(m.pos, name)
	m.order = append(m.order[:i], m.order[i+1:]...)
	for j := i; j < len(m.order); j++ {
		m.pos[m.order[j]] = j
	}
}

// Delete removes name if present.
func (m *EntryMap[T]) Delete(name EntryName) {
	if i, ok := m.pos[name]; ok {
		m.DeleteAt(i)
	}
}

// moveTo relocates the entry currently at position from to position to
// (to <= from), shifting the entries between them back by one slot.
func (m *EntryMap[T]) moveTo(from, to int) {
	if from == to {
		return
	}
	name := m.order[from]
	copy(m.order[to+1:from+1], m.order[to:from])
	m.order[to] = name
	for j := to; j <= from; j++ {
		m.pos[m.order[j]] = j
	}
}

// Reorder replaces the iteration order wholesale; newOrder must be a
// permutation of the map's current names.
func (m *EntryMap[T]) Reorder(newOrder []EntryName) {
	m.order = append([]EntryName(nil), newOrder...)
	for i, n := range m.order {
		m.pos[n] = i
	}
}

// SortByName reorders entries lexicographically by name (spec.md §4.6
// step 1).
func (m *EntryMap[T]) SortByName() {
	sort.Slice(m.order, func(i, j int) bool { return m.order[i] < m.order[j] })
	for i, n := range m.order {
		m.pos[n] = i
	}
}

// OrderFixedExact implements the fixed-order overlay (spec.md §4.6 step 2)
// for tables whose canonical list holds exact entry names: for each name
// in fixedNames present in this map, move it to the front, in list order,
// preserving the relative order of everything else.
func (m *EntryMap[T]) OrderFixedExact(fixedNames []string) {
	front := 0
	for _, n := range fixedNames {
		i := m.IndexOf(EntryName(n))
		if i == -1 || i < front {
			continue
		}
		m.moveTo(i, front)
		front++
	}
}

// OrderFixedPrefix is the same overlay for tables (sprites) whose
// canonical list holds name prefixes rather than full names: every entry
// whose name starts with a given prefix is moved to the front as a group,
// in the relative order they already had, before moving on to the next
// prefix.
func (m *EntryMap[T]) OrderFixedPrefix(prefixes []string) {
	front := 0
	for _, prefix := range prefixes {
		i := front
		for i < len(m.order) {
			if m.order[i].HasPrefix(prefix) {
				m.moveTo(i, front)
				front++
				i = front
			} else {
				i++
			}
		}
	}
}
