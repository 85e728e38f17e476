package smr

// Reclaim run a reclamation pass and return the number of free-sets
// promoted to the collected list.
//
// Released records: the head record carries the newest snapshot; when
// it is elementwise strictly newer than its successor's, every thread
// has advanced past the point where the older records were queued, so
// everything after the head goes back to the backend.
//
// Free-sets: the list is newest first, the head is the set that just
// filled and snapshotted. When the head's snapshot is elementwise
// strictly newer than its successor's, every live thread has advanced
// at least once for every object in the suffix, so the entire suffix
// moves, order preserved, to the tail of the collected list.
func (a *Allocator) Reclaim() int64 {
	if a.releasednum > 0 {
		relcur := a.releasedlist
		relnxt := relcur.next
		if relnxt != nil && tsnewer(relcur.tsset, relnxt.tsset) {
			relcur.next = nil
			a.releasednum = 1
			for relnxt != nil {
				nxt := relnxt.next
				a.tier.free(relnxt.mem)
				relnxt = nxt
			}
		}
	}

	fscur := a.freesetlist
	if fscur.snapshotted() == false {
		return 0
	}
	fsnxt := fscur.next
	if fsnxt == nil || fsnxt.snapshotted() == false {
		return 0 // need at least two snapshotted sets to compare
	}
	if tsnewer(fscur.tsset, fsnxt.tsset) == false {
		return 0
	}

	gced := a.freesetnum - 1
	fscur.next = nil
	a.freesetnum = 1

	if tail := a.collectedlist; tail != nil {
		for tail.next != nil {
			tail = tail.next
		}
		tail.next = fsnxt
	} else {
		a.collectedlist = fsnxt
	}
	a.collectednum += gced
	debugf("smr: reclaimed %v free-sets\n", gced)
	return gced
}
