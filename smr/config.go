package smr

import "github.com/cloudfoundry/gosigar"
import s "github.com/prataprc/gosettings"

// Defaultmemsize initial size of an allocator's first memory chunk.
// Can be overridden with the "memsize" setting.
const Defaultmemsize = int64(32 * 1024 * 1024)

// Maxmemsize cap on the per-chunk size after doublings. Can be used as
// default for the "memsize.max" setting.
const Maxmemsize = int64(4 * 1024 * 1024 * 1024)

// Defaultfreesetsize number of freed objects batched per free-set.
const Defaultfreesetsize = int64(507)

// Defaultreleasesize number of released records that triggers a
// reclamation pass.
const Defaultreleasesize = int64(5)

// Allocator configurable parameters and default settings.
//
// "memsize" (int64, default: Defaultmemsize)
//		Size of the initial memory chunk.
//
// "memsize.max" (int64, default: min(Maxmemsize, system RAM))
//		Cap on the per-chunk size after doublings.
//
// "memsize.double" (bool, default: true)
//		Double the chunk size on every exhaustion, until "memsize.max".
//
// "freeset.size" (int64, default: Defaultfreesetsize)
//		Free-set capacity, in object pointers per batch.
//
// "release.size" (int64, default: Defaultreleasesize)
//		Released-record count that triggers a reclamation pass.
//
// "tsincr" (string, default: "free")
//		When to advance the thread's version counter, one of
//		"alloc", "free" or "both".
//
// "zeromemory" (bool, default: false)
//		Zero-fill newly allocated chunks; on the persistent tier the
//		zeroes are flushed with a durability barrier.
func Defaultsettings() s.Settings {
	memsizemax := Maxmemsize
	var mem sigar.Mem
	if err := mem.Get(); err == nil {
		if total := int64(mem.Total); total < memsizemax {
			memsizemax = total
		}
	}
	return s.Settings{
		"memsize":        Defaultmemsize,
		"memsize.max":    memsizemax,
		"memsize.double": true,
		"freeset.size":   Defaultfreesetsize,
		"release.size":   Defaultreleasesize,
		"tsincr":         "free",
		"zeromemory":     false,
	}
}

func (a *Allocator) readsettings(setts s.Settings) {
	a.memsizemax = setts.Int64("memsize.max")
	a.double = setts.Bool("memsize.double")
	a.fssize = setts.Int64("freeset.size")
	a.relsize = setts.Int64("release.size")
	a.zeromem = setts.Bool("zeromemory")
	switch incr := setts.String("tsincr"); incr {
	case "alloc":
		a.incralloc, a.incrfree = true, false
	case "free":
		a.incralloc, a.incrfree = false, true
	case "both":
		a.incralloc, a.incrfree = true, true
	default:
		panicerr("tsincr %q not one of alloc,free,both", incr)
	}
	if a.fssize <= 0 {
		panicerr("freeset.size %v should be positive", a.fssize)
	} else if a.relsize <= 0 {
		panicerr("release.size %v should be positive", a.relsize)
	}
}
