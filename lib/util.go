// Package lib supplies helpers to work with memory blocks obtained
// outside the golang runtime.
package lib

import "reflect"
import "unsafe"

// Memcpy copy memory block of length `ln` from `src` to `dst`. This
// function is useful if memory block is obtained outside golang runtime.
func Memcpy(dst, src unsafe.Pointer, ln int) int {
	var srcnd, dstnd []byte
	srcsl := (*reflect.SliceHeader)(unsafe.Pointer(&srcnd))
	srcsl.Len, srcsl.Cap = ln, ln
	srcsl.Data = (uintptr)(unsafe.Pointer(src))
	dstsl := (*reflect.SliceHeader)(unsafe.Pointer(&dstnd))
	dstsl.Len, dstsl.Cap = ln, ln
	dstsl.Data = (uintptr)(unsafe.Pointer(dst))
	return copy(dstnd, srcnd)
}

// Memzero fill memory block of length `ln` at `block` with zeros. Like
// Memcpy, the block can live outside the golang heap.
func Memzero(block unsafe.Pointer, ln int) {
	var dst []byte
	dstsl := (*reflect.SliceHeader)(unsafe.Pointer(&dst))
	dstsl.Len, dstsl.Cap = ln, ln
	dstsl.Data = (uintptr)(block)
	for i := range dst {
		dst[i] = 0
	}
}

// Asbytes cast `ln` bytes at `block` as a byte-slice, without copying.
func Asbytes(block unsafe.Pointer, ln int) []byte {
	var bs []byte
	sl := (*reflect.SliceHeader)(unsafe.Pointer(&bs))
	sl.Len, sl.Cap = ln, ln
	sl.Data = (uintptr)(block)
	return bs
}
