package domain

import (
	"iter"
	"slices"
)

// Discipline selects how a DataList treats identity-equal records.
type Discipline uint8

const (
	// SetDiscipline keeps the first of identity-equal records and ignores later ones.
	SetDiscipline Discipline = iota
	// ListDiscipline keeps every inserted record, duplicates included.
	ListDiscipline
)

// DataList is an append-only, insertion-ordered collection of records with
// family queries. Category-present markers are tracked apart from records.
//
// A DataList is not safe for concurrent mutation; ingestion collects into
// per-worker buffers and merges after all workers finish.
type DataList struct {
	discipline Discipline
	items      []Data
	keys       map[Key]struct{}
	present    map[Type]struct{}
}

// NewDataList returns an empty Set-discipline list, the disposition used for counting.
func NewDataList() *DataList {
	return NewDataListWith(SetDiscipline)
}

// NewDataListWith returns an empty list with the given discipline.
func NewDataListWith(d Discipline) *DataList {
	return &DataList{
		discipline: d,
		keys:       make(map[Key]struct{}),
		present:    make(map[Type]struct{}),
	}
}

// Discipline returns the list's discipline.
func (l *DataList) Discipline() Discipline {
	return l.discipline
}

// Add appends d. A Marker records its family as present instead of being stored.
// It reports whether the list changed.
func (l *DataList) Add(d Data) bool {
	if m, ok := d.(Marker); ok {
		if _, seen := l.present[m.Family]; seen {
			return false
		}
		l.present[m.Family] = struct{}{}
		return true
	}
	if l.discipline == SetDiscipline {
		k := d.Key()
		if _, seen := l.keys[k]; seen {
			return false
		}
		l.keys[k] = struct{}{}
	}
	l.items = append(l.items, d)
	return true
}

// AddAll appends every record in order.
func (l *DataList) AddAll(ds ...Data) {
	for _, d := range ds {
		l.Add(d)
	}
}

// Merge appends the records and markers of other.
func (l *DataList) Merge(other *DataList) {
	if other == nil {
		return
	}
	for f := range other.present {
		l.present[f] = struct{}{}
	}
	for _, d := range other.items {
		l.Add(d)
	}
}

// Len returns the number of stored records.
func (l *DataList) Len() int {
	return len(l.items)
}

// All returns a copy of the stored records in insertion order.
func (l *DataList) All() []Data {
	return slices.Clone(l.items)
}

// Contains reports whether any stored record is of type t or belongs to family t.
func (l *DataList) Contains(t Type) bool {
	for _, d := range l.items {
		if d.Type().Is(t) {
			return true
		}
	}
	return false
}

// Objects returns the records of type or family t in insertion order.
// The sequence reads the list lazily; range over it again to restart.
func (l *DataList) Objects(t Type) iter.Seq[Data] {
	return func(yield func(Data) bool) {
		for _, d := range l.items {
			if !d.Type().Is(t) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Count returns the number of records of type or family t.
func (l *DataList) Count(t Type) int {
	n := 0
	for range l.Objects(t) {
		n++
	}
	return n
}

// IsAvailable reports whether a category-present marker related to t was recorded.
// A family marker makes its variants available and a variant marker makes its
// families available, even when no record was stored.
func (l *DataList) IsAvailable(t Type) bool {
	for f := range l.present {
		if f.Related(t) {
			return true
		}
	}
	return false
}

// Present returns the recorded marker families in declaration order.
func (l *DataList) Present() []Type {
	out := make([]Type, 0, len(l.present))
	for f := range l.present {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Sort orders the stored records by key, keeping equal keys in insertion order.
func (l *DataList) Sort() {
	slices.SortStableFunc(l.items, func(a, b Data) int {
		return Compare(a.Key(), b.Key())
	})
}

// ObjectsOf returns the records of type or family t that are of Go type T.
func ObjectsOf[T Data](l *DataList, t Type) iter.Seq[T] {
	return func(yield func(T) bool) {
		for d := range l.Objects(t) {
			v, ok := d.(T)
			if !ok {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}
