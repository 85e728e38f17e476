package smr

import "sync"
import "sync/atomic"
import "testing"
import "unsafe"

// tsreset clear the process-wide registry and id sequences, tests in
// this package start from a clean slate.
func tsreset() {
	atomic.StorePointer(&tshead, nil)
	atomic.StoreUint32(&tslen, 0)
	atomic.StoreUint32(&iddram, 0)
	atomic.StoreUint32(&idpmem, 0)
}

func TestTsRegister(t *testing.T) {
	tsreset()

	s0, s1, s2 := tsregister(0), tsregister(1), tsregister(2)
	if n := atomic.LoadUint32(&tslen); n != 3 {
		t.Errorf("expected %v, got %v", 3, n)
	}
	tsset := tscollect(nil)
	if len(tsset) != 3 {
		t.Errorf("expected %v, got %v", 3, len(tsset))
	}
	for i, version := range tsset {
		if version != 0 {
			t.Errorf("slot %v expected version 0, got %v", i, version)
		}
	}

	s1.bump()
	s1.bump()
	s0.bump()
	tsset = tscollect(tsset)
	if tsset[0] != 1 || tsset[1] != 2 || tsset[2] != 0 {
		t.Errorf("unexpected snapshot %v", tsset)
	}

	// only the head can be unlinked.
	if tsunregister(s0) == true {
		t.Errorf("expected unregister to fail for non-head slot")
	}
	if tsunregister(s2) == false {
		t.Errorf("expected unregister to pass for head slot")
	}
	if n := atomic.LoadUint32(&tslen); n != 2 {
		t.Errorf("expected %v, got %v", 2, n)
	}
	if tsset = tscollect(tsset); len(tsset) != 2 {
		t.Errorf("expected %v, got %v", 2, len(tsset))
	}
}

func TestTsSkipFresh(t *testing.T) {
	tsreset()

	tsregister(0).bump()
	// a slot inserted before the length is bumped, as a racing
	// snapshot would observe it.
	slot := &tslot{id: 5}
	for {
		old := atomic.LoadPointer(&tshead)
		slot.next = (*tslot)(old)
		if atomic.CompareAndSwapPointer(&tshead, old, unsafe.Pointer(slot)) {
			break
		}
	}
	tsset := tscollect(nil)
	if len(tsset) != 1 {
		t.Errorf("expected %v, got %v", 1, len(tsset))
	} else if tsset[0] != 1 {
		t.Errorf("expected %v, got %v", 1, tsset[0])
	}
}

func TestTsnewer(t *testing.T) {
	if tsnewer([]uint64{1, 1}, []uint64{0, 0}) == false {
		t.Errorf("expected newer")
	}
	if tsnewer([]uint64{1, 0}, []uint64{0, 0}) == true {
		t.Errorf("expected not newer")
	}
	if tsnewer([]uint64{2, 2}, []uint64{2, 1}) == true {
		t.Errorf("expected not newer")
	}
	// registry grew between the snapshots, extra entries ignored.
	if tsnewer([]uint64{3, 1, 0}, []uint64{2}) == false {
		t.Errorf("expected newer over the common prefix")
	}
	if tsnewer([]uint64{2, 9, 9}, []uint64{2}) == true {
		t.Errorf("expected not newer over the common prefix")
	}
}

func TestTsRegisterConcur(t *testing.T) {
	tsreset()

	n := 32
	var wg sync.WaitGroup
	var idseq uint32
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			tsregister(atomic.AddUint32(&idseq, 1) - 1)
		}()
	}
	wg.Wait()

	if x := atomic.LoadUint32(&tslen); int(x) != n {
		t.Errorf("expected %v, got %v", n, x)
	}
	count, seen := 0, make(map[uint32]bool)
	cur := (*tslot)(atomic.LoadPointer(&tshead))
	for ; cur != nil; cur = cur.next {
		count++
		if seen[cur.id] {
			t.Errorf("duplicate id %v", cur.id)
		}
		seen[cur.id] = true
	}
	if count != n {
		t.Errorf("expected %v, got %v", n, count)
	}
	if tsset := tscollect(nil); len(tsset) != n {
		t.Errorf("expected %v, got %v", n, len(tsset))
	}
}
