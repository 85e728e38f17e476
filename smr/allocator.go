package smr

import "sync/atomic"
import "unsafe"

import "github.com/bnclabs/gosmr/api"
import "github.com/bnclabs/gosmr/lib"
import s "github.com/prataprc/gosettings"

// Allocator per-thread bump allocator with deferred reclamation. All
// methods are to be called from the owning thread; allocators on
// different threads interact only through the timestamp registry.
type Allocator struct {
	tier Tier
	thr  *Thread
	ts   *tslot

	mem       unsafe.Pointer // current chunk base
	memcurr   int64
	memsize   int64
	totsize   int64
	memchunks unsafe.Pointer // *chunk, published with a release store

	freesetlist   *freeset
	freesetnum    int64
	collectedlist *freeset
	collectednum  int64
	availablelist *freeset
	releasedlist  *released
	releasednum   int64

	// configuration
	fssize     int64
	relsize    int64
	memsizemax int64
	double     bool
	zeromem    bool
	incralloc  bool
	incrfree   bool
}

var _ api.Mallocer = (*Allocator)(nil)

// chunk list node, LIFO ordered by allocation time. Chunks live until
// Term, none is returned to the backend mid-lifetime.
type chunk struct {
	base unsafe.Pointer
	next *chunk
}

// Init initialize the allocator with an initial chunk of `size` bytes
// and default settings, subscribing the thread to the timestamp
// registry on its first allocator.
func (a *Allocator) Init(thr *Thread, size int64, id uint32, tier Tier) *Allocator {
	setts := Defaultsettings()
	setts["memsize"] = size
	return a.InitSettings(thr, id, tier, setts)
}

// InitFs same as Init with a custom free-set capacity.
func (a *Allocator) InitFs(
	thr *Thread, size, fscap int64, id uint32, tier Tier) *Allocator {

	setts := Defaultsettings()
	setts["memsize"] = size
	setts["freeset.size"] = fscap
	return a.InitSettings(thr, id, tier, setts)
}

// InitSettings initialize the allocator with `setts`, refer
// Defaultsettings for the parameters.
func (a *Allocator) InitSettings(
	thr *Thread, id uint32, tier Tier, setts s.Settings) *Allocator {

	a.tier, a.thr = tier, thr
	a.readsettings(setts)
	size := setts.Int64("memsize")
	if size <= 0 {
		panicerr("memsize %v should be positive", size)
	}

	thr.link(a)

	a.mem = tier.allocaligned(size)
	a.memcurr, a.memsize, a.totsize = 0, size, size
	a.zerochunk()
	atomic.StorePointer(&a.memchunks, unsafe.Pointer(&chunk{base: a.mem}))

	if thr.ts == nil {
		thr.ts = tsregister(id)
	}
	a.ts = thr.ts

	a.freesetlist, a.freesetnum = newfreeset(a.fssize, nil), 1
	a.collectedlist, a.collectednum = nil, 0
	a.availablelist = nil
	a.releasedlist, a.releasednum = nil, 0

	infof("smr: %v allocator (ts %v) initialized with %v byte chunk\n",
		tier, a.ts.id, size)
	return a
}

// Alloc allocate `size` bytes. Pointers that cleared quiescence are
// recycled first, LIFO out of the collected list's head set; otherwise the
// arena cursor is bumped, growing the chunk list when exhausted.
func (a *Allocator) Alloc(size int64) unsafe.Pointer {
	var m unsafe.Pointer

	if cs := a.collectedlist; cs != nil {
		cs.curr--
		m = unsafe.Pointer(cs.set[cs.curr])
		if cs.curr <= 0 {
			a.collectedlist = cs.next
			a.collectednum--
			a.makeavailable(cs)
		}

	} else {
		if (a.memcurr + size) > a.memsize {
			a.newchunk(size)
		}
		m = unsafe.Pointer(uintptr(a.mem) + uintptr(a.memcurr))
		a.memcurr += size
	}

	if a.incralloc {
		a.ts.bump()
	}
	return m
}

// Free enqueue `ptr` on the head free-set. When the set fills, its
// snapshot is taken, a reclamation pass runs, and a recycled (or
// fresh) container becomes the new head.
func (a *Allocator) Free(ptr unsafe.Pointer) {
	fs := a.freesetlist
	fs.push(ptr)
	if fs.isfull() {
		fs.snapshotnow()
		a.Reclaim()
		a.freesetlist = a.getavail(fs)
		a.freesetnum++
	}
	if a.incrfree {
		a.ts.bump()
	}
}

// Info return the current chunk size and the cumulative size of every
// chunk allocated from the backend.
func (a *Allocator) Info() (memsize, totsize int64) {
	return a.memsize, a.totsize
}

// Term free every chunk, free-set container and released record owned
// by this allocator, and detach it from its thread. The thread's
// timestamp slot goes with the last allocator; it is unlinked from the
// registry only when it is still the registry head, refer
// tsunregister.
func (a *Allocator) Term() {
	for node := a.chunkhead(); node != nil; node = node.next {
		a.tier.free(node.base)
	}
	atomic.StorePointer(&a.memchunks, nil)
	a.mem, a.memcurr, a.memsize, a.totsize = nil, 0, 0, 0

	if a.thr.unlink(a) == false {
		errorf("smr: term: allocator %p not in its thread's list\n", a)
	} else if a.thr.nallocs == 0 {
		if tsunregister(a.thr.ts) == false {
			debugf("smr: term: slot %v stays in the registry\n", a.thr.ts.id)
		}
		a.thr.ts = nil
	}

	for rel := a.releasedlist; rel != nil; rel = rel.next {
		a.tier.free(rel.mem)
	}
	a.freesetlist, a.collectedlist, a.availablelist = nil, nil, nil
	a.releasedlist = nil
	a.freesetnum, a.collectednum, a.releasednum = 0, 0, 0
}

//---- local functions

func (a *Allocator) chunkhead() *chunk {
	return (*chunk)(atomic.LoadPointer(&a.memchunks))
}

// newchunk grow the arena. Doubles the chunk size up to the configured
// cap; a request beyond the cap is fatal.
func (a *Allocator) newchunk(size int64) {
	if a.double {
		a.memsize <<= 1
	}
	if size > a.memsize {
		if size > a.memsizemax {
			panicerr("alloc size %v exceeds maximum chunk size %v",
				size, a.memsizemax)
		}
		for a.memsize < size {
			a.memsize <<= 1
		}
	}
	if a.memsize > a.memsizemax {
		a.memsize = a.memsizemax
	}

	a.mem = a.tier.allocaligned(a.memsize)
	a.memcurr = 0
	a.totsize += a.memsize
	a.zerochunk()

	node := &chunk{base: a.mem, next: a.chunkhead()}
	atomic.StorePointer(&a.memchunks, unsafe.Pointer(node))
	debugf("smr: new %v byte chunk, arena total %v\n", a.memsize, a.totsize)
}

// zerochunk zero-fill the current chunk when configured; on the
// persistent tier the zeroes are flushed before the chunk is
// published.
func (a *Allocator) zerochunk() {
	if a.zeromem == false {
		return
	}
	lib.Memzero(a.mem, int(a.memsize))
	a.tier.persist(a.mem, a.memsize)
}
