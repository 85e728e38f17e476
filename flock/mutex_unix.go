//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd
// +build darwin dragonfly freebsd linux netbsd openbsd

package flock

import "sync"

import "golang.org/x/sys/unix"

// Mutex is an exclusive lock on a file, synchronizing across processes.
// Within the process it behaves like sync.Mutex.
type Mutex struct {
	mu sync.Mutex
	fd int
}

// New create a new instance of multi-process mutex over `filename`.
func New(filename string) (*Mutex, error) {
	fd, err := unix.Open(filename, unix.O_CREAT|unix.O_RDONLY, 0750)
	if err != nil {
		return nil, err
	}
	return &Mutex{fd: fd}, nil
}

// Lock locks m. If the lock is already in use, by this process or by
// another process, the calling goroutine blocks until the mutex is
// available.
func (m *Mutex) Lock() {
	m.mu.Lock()
	if err := unix.Flock(m.fd, unix.LOCK_EX); err != nil {
		panic(err)
	}
}

// TryLock tries to lock m and reports whether it succeeded. Unlike Lock
// it does not block when another process holds the lock.
func (m *Mutex) TryLock() bool {
	if m.mu.TryLock() == false {
		return false
	}
	if err := unix.Flock(m.fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		m.mu.Unlock()
		return false
	}
	return true
}

// Unlock unlocks m. It is a run-time error if m is not locked on entry
// to Unlock.
func (m *Mutex) Unlock() {
	if err := unix.Flock(m.fd, unix.LOCK_UN); err != nil {
		panic(err)
	}
	m.mu.Unlock()
}

// Close release the file descriptor backing this mutex.
func (m *Mutex) Close() error {
	return unix.Close(m.fd)
}
