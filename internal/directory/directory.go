// Package directory implements the flat root-directory operations: a
// fixed array of inode-block pointers, searched and compacted in place.
package directory

import (
	"github.com/alepiere/TinyFS/internal/ondisk"
	"github.com/alepiere/TinyFS/tinyerr"
)

// InodeReader reads back an inode's name field given its block number, so
// Find can compare names without the directory package knowing about the
// device or codec directly.
type InodeReader func(inodeBlock int) (string, error)

// Directory wraps an in-memory copy of the root directory's entry array.
type Directory struct {
	entries [ondisk.RootDirectoryCapacity]uint16
}

// New returns an empty directory (every slot zero).
func New() *Directory {
	return &Directory{}
}

// FromOnDisk builds a Directory from a decoded root directory block.
func FromOnDisk(dir ondisk.RootDirectory) *Directory {
	return &Directory{entries: dir.Entries}
}

// ToOnDisk renders the directory back into the on-disk record shape.
func (d *Directory) ToOnDisk() ondisk.RootDirectory {
	return ondisk.RootDirectory{Entries: d.entries}
}

// Find scans the packed prefix of non-zero slots, reading each pointed-to
// inode's name via readName, and returns the inode block number whose name
// matches. It returns 0 (no block is ever 0, since 0 is the superblock) if
// there is no match.
func (d *Directory) Find(name string, readName InodeReader) (int, error) {
	for _, entry := range d.entries {
		if entry == 0 {
			break
		}
		got, err := readName(int(entry))
		if err != nil {
			return 0, err
		}
		if got == name {
			return int(entry), nil
		}
	}
	return 0, nil
}

// Insert stores inodeBlock in the first zero slot. It fails with
// tinyerr.ErrDirectoryFull if no slot remains.
func (d *Directory) Insert(inodeBlock int) error {
	for i, entry := range d.entries {
		if entry == 0 {
			d.entries[i] = uint16(inodeBlock)
			return nil
		}
	}
	return tinyerr.ErrDirectoryFull
}

// Remove clears the slot holding inodeBlock and compacts the tail so the
// packed-prefix invariant holds. It is a no-op if inodeBlock isn't present.
func (d *Directory) Remove(inodeBlock int) {
	found := -1
	for i, entry := range d.entries {
		if entry == uint16(inodeBlock) {
			found = i
			break
		}
	}
	if found < 0 {
		return
	}

	copy(d.entries[found:], d.entries[found+1:])
	d.entries[len(d.entries)-1] = 0
}

// List returns the inode block numbers currently stored, in directory
// (insertion) order.
func (d *Directory) List() []int {
	var blocks []int
	for _, entry := range d.entries {
		if entry == 0 {
			break
		}
		blocks = append(blocks, int(entry))
	}
	return blocks
}
