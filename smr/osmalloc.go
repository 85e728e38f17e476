package smr

//#include <stdlib.h>
import "C"

import "unsafe"

// osmalloc allocate a cache-line-aligned block outside the go heap.
func osmalloc(size int64) unsafe.Pointer {
	ptr := C.aligned_alloc(
		C.size_t(cacheline), C.size_t(alignup(size, cacheline)))
	if ptr == nil {
		panicerr("out of memory allocating %v bytes", size)
	}
	return unsafe.Pointer(ptr)
}

func osfree(ptr unsafe.Pointer) {
	C.free(ptr)
}
