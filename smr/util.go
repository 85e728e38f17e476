package smr

import "fmt"

// cacheline alignment for chunk bases and timestamp slots.
const cacheline = int64(64)

func alignup(n, align int64) int64 {
	return (n + align - 1) &^ (align - 1)
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
