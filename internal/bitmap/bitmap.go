// Package bitmap implements the free-block bitmap and contiguous-run
// allocator: a packed bit array, bit 1 = free, with a linear scan that
// finds the first contiguous run of free blocks of a requested length.
//
// Unlike a bit array that tracks "is allocated", this one tracks "is free"
// directly, so the underlying byte slice can be written straight into the
// on-disk superblock without inverting bits.
package bitmap

import (
	"fmt"

	gobitmap "github.com/boljen/go-bitmap"

	"github.com/alepiere/TinyFS/tinyerr"
)

// ErrIndexOutOfRange is returned by Allocate/FreeOne/FreeRange when an index
// falls outside [0, NumBlocks).
var ErrIndexOutOfRange = tinyerr.TinyFSError("block index out of range")

// Bitmap is an in-memory free-block map, bit 1 = free, matching the
// on-disk representation exactly so it can be copied in and out verbatim.
type Bitmap struct {
	bits      gobitmap.Bitmap
	numBlocks int
}

// New creates a bitmap for numBlocks blocks with every bit initialized to
// free (1).
func New(numBlocks int) *Bitmap {
	b := &Bitmap{
		bits:      gobitmap.New(numBlocks),
		numBlocks: numBlocks,
	}
	b.InitAllFree()
	return b
}

// Load wraps raw, previously-persisted bitmap bytes (as read from the
// superblock) for numBlocks blocks. raw must have at least
// ByteSize(numBlocks) bytes; gobitmap.Bitmap is itself a []byte, so the
// packed bytes are reused directly rather than copied.
func Load(raw []byte, numBlocks int) *Bitmap {
	return &Bitmap{
		bits:      gobitmap.Bitmap(raw),
		numBlocks: numBlocks,
	}
}

// ByteSize returns the number of bytes needed to pack numBlocks bits.
func ByteSize(numBlocks int) int {
	return (numBlocks + 7) / 8
}

// NumBlocks returns the number of blocks this bitmap tracks.
func (b *Bitmap) NumBlocks() int {
	return b.numBlocks
}

// Bytes returns the packed on-disk representation of the bitmap (bit 1 =
// free), suitable for embedding directly in the superblock. The result is
// always exactly ByteSize(b.NumBlocks()) bytes, regardless of how much
// backing storage the underlying bit array happens to allocate.
func (b *Bitmap) Bytes() []byte {
	want := ByteSize(b.numBlocks)
	raw := b.bits.Data(false)

	out := make([]byte, want)
	copy(out, raw)
	return out
}

// InitAllFree marks every block as free.
func (b *Bitmap) InitAllFree() {
	for i := 0; i < b.numBlocks; i++ {
		b.bits.Set(i, true)
	}
}

func (b *Bitmap) checkRange(i int) error {
	if i < 0 || i >= b.numBlocks {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, b.numBlocks)
	}
	return nil
}

// IsFree reports whether block i is currently unallocated.
func (b *Bitmap) IsFree(i int) bool {
	return b.bits.Get(i)
}

// Allocate marks block i as allocated (clears its bit). An out-of-range
// index is reported as an error rather than a panic so callers can decide
// how to react.
func (b *Bitmap) Allocate(i int) error {
	if err := b.checkRange(i); err != nil {
		return err
	}
	b.bits.Set(i, false)
	return nil
}

// FreeOne marks block i as free (sets its bit).
func (b *Bitmap) FreeOne(i int) error {
	if err := b.checkRange(i); err != nil {
		return err
	}
	b.bits.Set(i, true)
	return nil
}

// FreeRange marks count consecutive blocks starting at start as free.
func (b *Bitmap) FreeRange(start, count int) error {
	if err := b.checkRange(start); err != nil {
		return err
	}
	if err := b.checkRange(start + count - 1); err != nil {
		return err
	}
	for i := start; i < start+count; i++ {
		b.bits.Set(i, true)
	}
	return nil
}

// FindFreeRun scans from block 0 upward for the first contiguous run of at
// least count free blocks, resetting its counter on any allocated bit.
// Ties are broken by lowest starting index. It returns tinyerr.ErrNoFreeBlocks
// if no such run exists.
func (b *Bitmap) FindFreeRun(count int) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("%w: run length must be positive, got %d", ErrIndexOutOfRange, count)
	}

	runStart := 0
	runLen := 0
	for i := 0; i < b.numBlocks; i++ {
		if !b.bits.Get(i) {
			runLen = 0
			continue
		}

		runLen++
		if runLen == 1 {
			runStart = i
		}
		if runLen == count {
			return runStart, nil
		}
	}
	return 0, tinyerr.ErrNoFreeBlocks
}

// AllocateRun finds the first contiguous free run of count blocks and marks
// it allocated, returning its starting index.
func (b *Bitmap) AllocateRun(count int) (int, error) {
	start, err := b.FindFreeRun(count)
	if err != nil {
		return 0, err
	}
	for i := start; i < start+count; i++ {
		b.bits.Set(i, false)
	}
	return start, nil
}
