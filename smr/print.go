package smr

import "fmt"
import "strings"
import "sync/atomic"

// diagnostic dumps, routed through the package logger. Enable with
// LogComponents("smr").

// Printts log the process-wide timestamp registry.
func Printts() {
	n := atomic.LoadUint32(&tslen)
	items := []string{}
	cur := (*tslot)(atomic.LoadPointer(&tshead))
	for ; cur != nil; cur = cur.next {
		version := atomic.LoadUint64(&cur.version)
		items = append(items, fmt.Sprintf("(id:%v version:%v)", cur.id, version))
	}
	infof("smr: ts registry (%v slots): %v\n", n, strings.Join(items, " -> "))
}

// Printlists log a summary of this allocator's set lists.
func (a *Allocator) Printlists() {
	infof("smr: [%-2d] free-sets: %-4v collected-sets: %-4v released: %-4v\n",
		a.ts.id, a.freesetnum, a.collectednum, a.releasednum)
	infof("smr: free-set list: %v\n", fslist2str(a.freesetlist))
	infof("smr: collected-set list: %v\n", fslist2str(a.collectedlist))
	infof("smr: available-set list: %v\n", fslist2str(a.availablelist))
}

func fslist2str(head *freeset) string {
	items := []string{}
	for fs := head; fs != nil; fs = fs.next {
		items = append(items, fmt.Sprintf("(%v/%v %v)", fs.curr, fs.capacity,
			tsset2str(fs.tsset)))
	}
	items = append(items, "nil")
	return strings.Join(items, " -> ")
}

func tsset2str(tsset []uint64) string {
	if len(tsset) == 0 {
		return "[no timestamp yet]"
	}
	items := make([]string, 0, len(tsset))
	for _, version := range tsset {
		items = append(items, fmt.Sprintf("%v", version))
	}
	return "[" + strings.Join(items, "|") + "]"
}
