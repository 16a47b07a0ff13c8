package repository

import "github.com/Alijeyrad/stgeorge_backend/internal/store"

// Key names a foreign-key style attribute that a repository indexes.
type Key string

const (
	KeyUserID   Key = "userId"
	KeyDoctorID Key = "doctorId"
	KeyPatient  Key = "patientId"
	KeyBranchID Key = "branchId"
	KeyEmail    Key = "email"
	KeyMedicine Key = "medicineId"
	KeySlotDay  Key = "doctorDay"  // doctorId|dayOfWeek
	KeyDocDate  Key = "doctorDate" // doctorId|date
)

// Index is a point-in-time view of a collection with hash lookups by id and
// by every registered Key. Insertion order is preserved.
type Index[T store.Record] struct {
	items []T
	byID  map[string]int
	byKey map[Key]map[string][]int
}

func NewIndex[T store.Record](items []T, keys map[Key]func(T) string) *Index[T] {
	ix := &Index[T]{
		items: items,
		byID:  make(map[string]int, len(items)),
		byKey: make(map[Key]map[string][]int, len(keys)),
	}
	for k := range keys {
		ix.byKey[k] = make(map[string][]int)
	}
	for i, it := range items {
		if _, dup := ix.byID[it.RecordID()]; !dup {
			ix.byID[it.RecordID()] = i
		}
		for k, fn := range keys {
			v := fn(it)
			ix.byKey[k][v] = append(ix.byKey[k][v], i)
		}
	}
	return ix
}

func (ix *Index[T]) All() []T { return ix.items }

func (ix *Index[T]) Len() int { return len(ix.items) }

func (ix *Index[T]) Get(id string) (T, bool) {
	i, ok := ix.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return ix.items[i], true
}

// Lookup returns records whose key equals value, in insertion order.
func (ix *Index[T]) Lookup(k Key, value string) []T {
	pos := ix.byKey[k][value]
	out := make([]T, 0, len(pos))
	for _, i := range pos {
		out = append(out, ix.items[i])
	}
	return out
}

// First returns the first record whose key equals value.
func (ix *Index[T]) First(k Key, value string) (T, bool) {
	pos := ix.byKey[k][value]
	if len(pos) == 0 {
		var zero T
		return zero, false
	}
	return ix.items[pos[0]], true
}
