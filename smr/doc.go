// Package smr supplies per-thread object allocation with epoch based
// safe memory reclamation, meant as the memory substrate for lock-free
// data structures. Scope and ground rules:
//
//  * Each Allocator is owned by a single thread; Alloc, Free, Release
//    and Term are to be called only from the owning thread.
//  * Allocators across threads interact solely through a process-wide
//    registry of per-thread version counters.
//  * Memory given to Free is batched into free-sets; a batch is handed
//    back to Alloc only after every registered thread has advanced its
//    version past the values recorded when the batch filled.
//  * Memory chunks are never returned to the backend before Term.
//  * Memory can be sourced from DRAM or from a persistent-memory pool,
//    selected per allocator with a Tier tag.
//
// Allocation is bump-pointer out of chunks, with doubling growth up to
// a configured cap. There are no size classes and no defragmentation;
// if mixed lifetimes or sizes matter, host them on separate allocators.
package smr
