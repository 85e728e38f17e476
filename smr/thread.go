package smr

import "unsafe"

// Thread record owned by a single thread. Go has no thread-local
// storage, so the thread creates one of these and keeps it: it caches
// the thread's timestamp slot and tracks the allocators the thread
// owns. Not safe for concurrent use; every allocator bound to the
// record must be driven from the same thread.
type Thread struct {
	ts         *tslot
	allocators *alist
	nallocs    int64
}

type alist struct {
	alloc *Allocator
	next  *alist
}

// NewThread create the per-thread record. One per thread, made by the
// thread.
func NewThread() *Thread {
	return &Thread{}
}

// TsNext manually advance this thread's version counter, for hosts
// that signal quiescence outside the alloc/free paths.
func (thr *Thread) TsNext() {
	if thr.ts == nil {
		panicerr("thread has no timestamp slot, initialize an allocator first")
	}
	thr.ts.bump()
}

// Alloc allocate `size` bytes from *ap, initializing a fresh allocator
// with default settings, and an id from the tier's sequence, when *ap
// is nil.
func (thr *Thread) Alloc(ap **Allocator, size int64, tier Tier) unsafe.Pointer {
	if *ap == nil {
		*ap = new(Allocator).InitSettings(thr, nextid(tier), tier, Defaultsettings())
	}
	return (*ap).Alloc(size)
}

// Term terminate every allocator owned by this thread.
func (thr *Thread) Term() {
	for thr.allocators != nil {
		thr.allocators.alloc.Term()
	}
}

func (thr *Thread) link(a *Allocator) {
	thr.allocators = &alist{alloc: a, next: thr.allocators}
	thr.nallocs++
}

func (thr *Thread) unlink(a *Allocator) bool {
	var prv *alist
	for cur := thr.allocators; cur != nil; prv, cur = cur, cur.next {
		if cur.alloc == a {
			if prv == nil {
				thr.allocators = cur.next
			} else {
				prv.next = cur.next
			}
			thr.nallocs--
			return true
		}
	}
	return false
}
