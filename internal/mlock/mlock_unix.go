//go:build unix

// Package mlock best-effort pins the Balloon buffer in physical memory
// so it is never written to swap. Failure is not fatal: the buffer is
// still zeroized on Close regardless of whether the lock succeeded.
package mlock

import "golang.org/x/sys/unix"

// TryLock attempts to mlock b and reports whether it succeeded.
func TryLock(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	return unix.Mlock(b) == nil
}

// Unlock releases a lock previously taken by TryLock. Safe to call
// even if TryLock failed or b is empty.
func Unlock(b []byte) {
	if len(b) == 0 {
		return
	}
	_ = unix.Munlock(b)
}
