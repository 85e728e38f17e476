// Package pmem manages a persistent-memory pool backed by a mmap'ed
// file. The pool hands out cache-line-alignable blocks with a small
// size header, so blocks can be returned and recycled. One pool is
// typically opened per process, at startup, and shared by every
// persistent-tier allocator.
package pmem

import "fmt"
import "os"
import "sync"
import "unsafe"

import "github.com/bnclabs/golog"
import s "github.com/prataprc/gosettings"
import "golang.org/x/sys/unix"

import "github.com/bnclabs/gosmr/flock"

// Alignment smallest alignment honoured by the pool.
const Alignment = int64(8)

// header bytes kept in front of every block, recording its size.
const hdrsize = int64(16)

// Pool a single persistent-memory pool carved out of one file.
// Pool methods are safe to call from multiple goroutines.
type Pool struct {
	path     string
	capacity int64

	mu        sync.Mutex
	fd        *os.File
	mem       []byte
	base      uintptr
	off       int64
	freelists map[int64][]uintptr
	lockf     *flock.Mutex
}

// Open map the pool file at `path`, growing it to `capacity` bytes.
// The file is exclusively locked, a second Open on the same path, from
// this or another process, fails.
func Open(path string, capacity int64) (*Pool, error) {
	if capacity <= 0 || (capacity%int64(os.Getpagesize())) != 0 {
		fmsg := "pmem: capacity %v is not a multiple of the page size"
		return nil, fmt.Errorf(fmsg, capacity)
	}
	lockf, err := flock.New(path + ".lock")
	if err != nil {
		return nil, err
	}
	if lockf.TryLock() == false {
		lockf.Close()
		return nil, fmt.Errorf("pmem: pool %q already in use", path)
	}
	fd, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0640)
	if err != nil {
		lockf.Unlock()
		lockf.Close()
		return nil, err
	}
	if err := fd.Truncate(capacity); err != nil {
		fd.Close()
		lockf.Unlock()
		lockf.Close()
		return nil, err
	}
	prot, flags := unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED
	mem, err := unix.Mmap(int(fd.Fd()), 0, int(capacity), prot, flags)
	if err != nil {
		fd.Close()
		lockf.Unlock()
		lockf.Close()
		return nil, err
	}
	pool := &Pool{
		path: path, capacity: capacity,
		fd: fd, mem: mem, base: uintptr(unsafe.Pointer(&mem[0])),
		freelists: make(map[int64][]uintptr),
		lockf:     lockf,
	}
	log.Infof("pmem: opened pool %q capacity %v\n", path, capacity)
	return pool, nil
}

// Malloc allocate `size` bytes with the pool's minimum alignment.
func (pool *Pool) Malloc(size int64) unsafe.Pointer {
	return pool.AlignedAlloc(Alignment, size)
}

// AlignedAlloc allocate `size` bytes aligned to `align`, which must be
// a power of 2 no smaller than Alignment. Panics when the pool is
// exhausted, callers are not expected to recover from a full pool.
func (pool *Pool) AlignedAlloc(align, size int64) unsafe.Pointer {
	if align < Alignment || (align&(align-1)) != 0 {
		panicerr("pmem: bad alignment %v", align)
	} else if size <= 0 {
		panicerr("pmem: bad size %v", size)
	}
	asize := alignup(size, align)

	pool.mu.Lock()
	defer pool.mu.Unlock()

	if ptrs, ok := pool.freelists[asize]; ok {
		for i, ptr := range ptrs {
			if (ptr % uintptr(align)) != 0 {
				continue
			}
			ptrs[i] = ptrs[len(ptrs)-1]
			pool.freelists[asize] = ptrs[:len(ptrs)-1]
			return unsafe.Pointer(ptr)
		}
	}

	off := alignup(pool.off+hdrsize, align)
	if off+asize > pool.capacity {
		panicerr("pmem: pool %q exhausted (%v of %v)",
			pool.path, pool.off, pool.capacity)
	}
	pool.off = off + asize
	*(*int64)(unsafe.Pointer(pool.base + uintptr(off-hdrsize))) = asize
	return unsafe.Pointer(pool.base + uintptr(off))
}

// Free return `ptr`, obtained from this pool, for reuse.
func (pool *Pool) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		panicerr("pmem: freeing nil pointer")
	}
	p := uintptr(ptr)
	if p < pool.base || p >= pool.base+uintptr(pool.capacity) {
		panicerr("pmem: pointer %x outside pool %q", p, pool.path)
	}
	asize := *(*int64)(unsafe.Pointer(p - uintptr(hdrsize)))

	pool.mu.Lock()
	defer pool.mu.Unlock()
	pool.freelists[asize] = append(pool.freelists[asize], p)
}

// Persist flush `size` bytes at `ptr` to the backing media. This is
// the durability barrier for persistent-tier allocators.
func (pool *Pool) Persist(ptr unsafe.Pointer, size int64) {
	pagesz := uintptr(os.Getpagesize())
	from := (uintptr(ptr) - pool.base) &^ (pagesz - 1)
	till := alignup(int64(uintptr(ptr)-pool.base)+size, int64(pagesz))
	if err := unix.Msync(pool.mem[from:till], unix.MS_SYNC); err != nil {
		panicerr("pmem: msync on pool %q: %v", pool.path, err)
	}
}

// Info return pool capacity and bytes bump-allocated so far. Bytes
// sitting on the free lists count as allocated.
func (pool *Pool) Info() (capacity, allocated int64) {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	return pool.capacity, pool.off
}

// Close unmap the pool and release the file lock. Outstanding pointers
// into the pool become invalid.
func (pool *Pool) Close() error {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	if pool.mem == nil {
		return nil
	}
	if err := unix.Munmap(pool.mem); err != nil {
		return err
	}
	pool.mem, pool.base, pool.freelists = nil, 0, nil
	if err := pool.fd.Close(); err != nil {
		return err
	}
	pool.lockf.Unlock()
	log.Infof("pmem: closed pool %q\n", pool.path)
	return pool.lockf.Close()
}

var defmu sync.Mutex
var defpool *Pool

// SetDefault install `pool` as the process-wide pool used by
// persistent-tier allocators.
func SetDefault(pool *Pool) {
	defmu.Lock()
	defer defmu.Unlock()
	defpool = pool
}

// Default return the process-wide pool, nil if none was installed.
func Default() *Pool {
	defmu.Lock()
	defer defmu.Unlock()
	return defpool
}

// Defaultsettings for opening a persistent pool.
//
// "path" (string, default: "/mnt/pmem0/gosmr.pool")
//		Pool file on a DAX-mounted file system.
//
// "capacity" (int64, default: 64MB)
//		Fixed pool size in bytes, multiple of the page size.
func Defaultsettings() s.Settings {
	return s.Settings{
		"path":     "/mnt/pmem0/gosmr.pool",
		"capacity": int64(64 * 1024 * 1024),
	}
}

// OpenSettings open a pool described by `setts`, refer Defaultsettings.
func OpenSettings(setts s.Settings) (*Pool, error) {
	return Open(setts.String("path"), setts.Int64("capacity"))
}

func alignup(n, align int64) int64 {
	return (n + align - 1) &^ (align - 1)
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
