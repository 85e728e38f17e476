package smr

import "unsafe"

import "github.com/bnclabs/gosmr/pmem"

// Tier selects the memory backend of an allocator.
type Tier byte

const (
	// DRAM backend, volatile memory from the OS allocator.
	DRAM Tier = iota
	// Persistent backend, memory carved from the process-wide
	// persistent pool, refer package pmem.
	Persistent
)

func (tier Tier) String() string {
	switch tier {
	case DRAM:
		return "dram"
	case Persistent:
		return "persistent"
	}
	return "invalid"
}

// allocaligned get a cache-line-aligned block from the backend.
func (tier Tier) allocaligned(size int64) unsafe.Pointer {
	switch tier {
	case DRAM:
		return osmalloc(size)
	case Persistent:
		return pmempool().AlignedAlloc(cacheline, size)
	}
	panicerr("invalid tier %v", byte(tier))
	return nil
}

// free return a block to the backend.
func (tier Tier) free(ptr unsafe.Pointer) {
	switch tier {
	case DRAM:
		osfree(ptr)
	case Persistent:
		pmempool().Free(ptr)
	default:
		panicerr("invalid tier %v", byte(tier))
	}
}

// persist durability barrier over [ptr, ptr+size), a no-op on DRAM.
func (tier Tier) persist(ptr unsafe.Pointer, size int64) {
	if tier == Persistent {
		pmempool().Persist(ptr, size)
	}
}

func pmempool() *pmem.Pool {
	pool := pmem.Default()
	if pool == nil {
		panicerr("persistent tier needs a pool, refer pmem.Open")
	}
	return pool
}
