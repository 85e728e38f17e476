package smr

import "unsafe"

// freeset fixed-capacity append-only batch of freed object pointers.
// While accepting writes its snapshot is empty; the snapshot is taken
// exactly once, at the moment the batch fills, after which the set is
// immutable until recycled through the available list.
type freeset struct {
	capacity int64
	curr     int64
	set      []uintptr
	tsset    []uint64 // empty until the set fills
	next     *freeset
}

func newfreeset(capacity int64, next *freeset) *freeset {
	return &freeset{
		capacity: capacity,
		set:      make([]uintptr, capacity),
		next:     next,
	}
}

// push append ptr, called only by the owning thread on a non-full set.
func (fs *freeset) push(ptr unsafe.Pointer) {
	fs.set[fs.curr] = uintptr(ptr)
	fs.curr++
}

func (fs *freeset) isfull() bool {
	return fs.curr == fs.capacity
}

func (fs *freeset) snapshotted() bool {
	return len(fs.tsset) > 0
}

// snapshotnow record the registry versions, reusing the vector from a
// previous life of this container when it is large enough.
func (fs *freeset) snapshotnow() {
	fs.tsset = tscollect(fs.tsset)
}

// reset make the container reusable, the pointer buffer is retained.
func (fs *freeset) reset(next *freeset) {
	fs.curr, fs.tsset, fs.next = 0, fs.tsset[:0], next
}

// getavail unlink a container from the available list, or build a
// fresh one when the list is empty.
func (a *Allocator) getavail(next *freeset) *freeset {
	if fs := a.availablelist; fs != nil {
		a.availablelist = fs.next
		fs.reset(next)
		return fs
	}
	return newfreeset(a.fssize, next)
}

// makeavailable push a drained container on the available list.
func (a *Allocator) makeavailable(fs *freeset) {
	fs.reset(a.availablelist)
	a.availablelist = fs
}
