package smr

import "sync/atomic"
import "unsafe"

// tslot per-thread version counter, linked into the process-wide
// registry. Padded so that hot versions of different threads do not
// share a cache line.
type tslot struct {
	id      uint32
	_       uint32
	version uint64 // written by the owning thread, read by snapshots
	next    *tslot
	_       [cacheline - 24]byte
}

// timestamp registry, a process-long singleton. The list is append
// only: tshead is mutated with CAS, tslen with fetch-add. The two
// updates are not atomic together, snapshots tolerate observing a
// fresh slot whose id is not yet covered by tslen by skipping it.
var tshead unsafe.Pointer // *tslot
var tslen uint32

// process-global id sequences, one per tier.
var iddram uint32
var idpmem uint32

func nextid(tier Tier) uint32 {
	if tier == Persistent {
		return atomic.AddUint32(&idpmem, 1) - 1
	}
	return atomic.AddUint32(&iddram, 1) - 1
}

// tsregister subscribe a new slot for the calling thread. Lock-free,
// contends only while threads are starting up.
func tsregister(id uint32) *tslot {
	slot := &tslot{id: id}
	for {
		old := atomic.LoadPointer(&tshead)
		slot.next = (*tslot)(old)
		if atomic.CompareAndSwapPointer(&tshead, old, unsafe.Pointer(slot)) {
			break
		}
	}
	atomic.AddUint32(&tslen, 1)
	return slot
}

// tsunregister unlink `slot` if it is still the head of the registry.
// General unlink is not supported, a slot that is not the head stays
// in the registry for the life of the process.
func tsunregister(slot *tslot) bool {
	old, nxt := unsafe.Pointer(slot), unsafe.Pointer(slot.next)
	if atomic.CompareAndSwapPointer(&tshead, old, nxt) {
		atomic.AddUint32(&tslen, ^uint32(0))
		return true
	}
	return false
}

// bump advance the slot's version. Single writer, the release store
// orders it after any preceding free-set append.
func (slot *tslot) bump() {
	atomic.StoreUint64(&slot.version, atomic.LoadUint64(&slot.version)+1)
}

// tscollect snapshot every registered version into dst[id], reusing
// dst's capacity when it suffices. Wait-free single pass. Slots whose
// id is not yet covered by tslen belong to threads newer than the
// observable history and are skipped.
func tscollect(dst []uint64) []uint64 {
	n := int(atomic.LoadUint32(&tslen))
	if cap(dst) < n {
		dst = make([]uint64, n)
	} else {
		dst = dst[:n]
		for i := range dst {
			dst[i] = 0
		}
	}
	cur := (*tslot)(atomic.LoadPointer(&tshead))
	for ; cur != nil; cur = cur.next {
		if int(cur.id) < n {
			dst[cur.id] = atomic.LoadUint64(&cur.version)
		}
	}
	return dst
}

// tsnewer return true iff snew is elementwise strictly greater than
// sold. Strict comparison guarantees a real observed advance, not a
// re-read of an idle thread's stale version. When the registry grew
// between the two snapshots the extra entries are ignored: a thread
// that subscribed after the older snapshot cannot hold references to
// the objects it covers.
func tsnewer(snew, sold []uint64) bool {
	n := len(snew)
	if len(sold) < n {
		n = len(sold)
	}
	for i := 0; i < n; i++ {
		if snew[i] <= sold[i] {
			return false
		}
	}
	return true
}
