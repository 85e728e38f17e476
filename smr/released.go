package smr

import "unsafe"

// released single-object deferred-free record, tracked outside the
// batching machinery, with its own version snapshot.
type released struct {
	mem   unsafe.Pointer
	tsset []uint64
	next  *released
}

func newreleased(mem unsafe.Pointer, next *released) *released {
	return &released{mem: mem, tsset: tscollect(nil), next: next}
}

// Release queue `ptr` for deferred return to the backend. Meant for
// objects that are too large, or too rare, to batch through Free: the
// memory goes back to the backend, not to the arena. A reclamation
// pass runs once enough records pile up.
func (a *Allocator) Release(ptr unsafe.Pointer) {
	a.releasedlist = newreleased(ptr, a.releasedlist)
	a.releasednum++
	if a.releasednum >= a.relsize {
		a.Reclaim()
	}
}
