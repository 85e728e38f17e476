// Package api describe the interfaces between allocator implementations
// and the data structures hosted on them.
package api

import "unsafe"

// Mallocer interface for deferred-reclamation memory management. An
// implementation hands out raw memory and guarantees that memory given
// to Free or Release is recycled only after every subscribed thread has
// passed through a quiescent point.
type Mallocer interface {
	// Alloc allocate a chunk of `n` bytes. Either recycles a quiesced
	// chunk or carves fresh memory from the arena.
	Alloc(n int64) unsafe.Pointer

	// Free chunk back to the allocator, deferred until quiescence.
	// To be called only from the owning thread.
	Free(ptr unsafe.Pointer)

	// Release a single chunk with atypical lifetime, outside the
	// batching machinery. Memory goes back to the backend, not to
	// the arena.
	Release(ptr unsafe.Pointer)

	// Reclaim run a reclamation pass, return the number of batches
	// that cleared quiescence.
	Reclaim() int64

	// Info return memory accounting for this allocator: size of the
	// current arena chunk, cumulative size of all chunks.
	Info() (memsize, totsize int64)

	// Term release every resource owned by this allocator back to
	// the backend.
	Term()
}
