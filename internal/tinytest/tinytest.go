// Package tinytest holds small helpers shared by this module's tests: an
// in-memory seekable image so tests don't need a scratch file on disk, and a
// byte-diff helper for round-trip assertions.
package tinytest

import (
	"io"

	"github.com/xaionaro-go/bytesextra"
)

// NewInMemoryImage returns a zeroed, fixed-size in-memory image of size
// bytes. Its size never changes: writing past the end fails the same way a
// fixed-size disk image would.
func NewInMemoryImage(size int) io.ReadWriteSeeker {
	return bytesextra.NewReadWriteSeeker(make([]byte, size))
}

// FirstDifference returns the index of the first byte at which left and
// right differ, or -1 if they're identical. Mismatched lengths report the
// length of the longer slice, so a caller can tell a truncated image from a
// single differing byte.
func FirstDifference(left, right []byte) int {
	if len(left) > len(right) {
		return len(left)
	} else if len(right) > len(left) {
		return len(right)
	}

	for i := range left {
		if left[i] != right[i] {
			return i
		}
	}
	return -1
}
