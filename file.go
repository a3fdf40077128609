package tinyfs

import (
	"fmt"

	"github.com/alepiere/TinyFS/internal/ondisk"
	"github.com/alepiere/TinyFS/tinyerr"
)

func ceilDiv(n, d int) int {
	if n == 0 {
		return 0
	}
	return (n + d - 1) / d
}

// Write replaces fd's entire contents with data. Any extents from a
// previous write are freed first; then a fresh contiguous run is
// allocated and filled.
func (v *Volume) Write(fd int, data []byte) error {
	entry, ok := v.openFiles[fd]
	if !ok {
		return tinyerr.ErrFileNotFound
	}

	if entry.size > 0 {
		prevBlocks := ceilDiv(entry.size, ondisk.ExtentPayloadSize)
		block := entry.firstExtent
		for j := 0; j < prevBlocks; j++ {
			if err := v.dev.WriteBlock(block, ondisk.EncodeFreeBlock()); err != nil {
				return err
			}
			if err := v.bm.FreeOne(block); err != nil {
				return err
			}
			block++
		}
		entry.size = 0
		entry.firstExtent = 0
	}

	newBlocks := ceilDiv(len(data), ondisk.ExtentPayloadSize)
	start := 0
	if newBlocks > 0 {
		s, err := v.bm.AllocateRun(newBlocks)
		if err != nil {
			return err
		}
		start = s

		for k := 0; k < newBlocks; k++ {
			lo := k * ondisk.ExtentPayloadSize
			hi := min(len(data), lo+ondisk.ExtentPayloadSize)

			next := 0
			if k < newBlocks-1 {
				next = start + k + 1
			}
			extentBuf, err := ondisk.EncodeExtent(ondisk.Extent{Next: next, Payload: data[lo:hi]})
			if err != nil {
				return err
			}
			if err := v.dev.WriteBlock(start+k, extentBuf); err != nil {
				return err
			}
		}
	}

	inodeBuf, err := v.dev.ReadBlock(entry.inodeBlock)
	if err != nil {
		return err
	}
	inode, err := ondisk.DecodeInode(inodeBuf)
	if err != nil {
		return err
	}
	inode.FirstExtent = start
	inode.SizeBytes = len(data)

	newInodeBuf, err := ondisk.EncodeInode(inode)
	if err != nil {
		return err
	}
	if err := v.dev.WriteBlock(entry.inodeBlock, newInodeBuf); err != nil {
		return err
	}

	entry.firstExtent = start
	entry.size = len(data)
	entry.offset = 0

	return v.persistBitmap()
}

// ReadByte reads the single byte at fd's current offset and advances it
// by one.
func (v *Volume) ReadByte(fd int) (byte, error) {
	if err := v.requireMounted(); err != nil {
		return 0, err
	}
	entry, ok := v.openFiles[fd]
	if !ok {
		return 0, tinyerr.ErrFileNotFound
	}
	if entry.offset < 0 || entry.offset >= entry.size {
		return 0, tinyerr.ErrEndOfFile
	}

	extentIndex := entry.offset / ondisk.ExtentPayloadSize
	posInExtent := entry.offset % ondisk.ExtentPayloadSize

	block := entry.firstExtent
	for i := 0; i < extentIndex; i++ {
		buf, err := v.dev.ReadBlock(block)
		if err != nil {
			return 0, tinyerr.ErrReadFault.Wrap(err)
		}
		extent, err := ondisk.DecodeExtent(buf)
		if err != nil {
			return 0, err
		}
		block = extent.Next
	}

	buf, err := v.dev.ReadBlock(block)
	if err != nil {
		return 0, tinyerr.ErrReadFault.Wrap(err)
	}
	extent, err := ondisk.DecodeExtent(buf)
	if err != nil {
		return 0, err
	}

	b := extent.Payload[posInExtent]
	entry.offset++
	return b, nil
}

// Seek sets fd's offset to an absolute position. A position past the
// file's end is allowed (a later read reports ErrEndOfFile instead); a
// negative position is rejected outright.
func (v *Volume) Seek(fd int, offset int) error {
	if err := v.requireMounted(); err != nil {
		return err
	}
	entry, ok := v.openFiles[fd]
	if !ok {
		return tinyerr.ErrFileNotFound
	}
	if offset < 0 {
		return tinyerr.ErrSeekFault.WithMessage(fmt.Sprintf("offset %d is negative", offset))
	}
	entry.offset = offset
	return nil
}

// Delete walks fd's extent chain freeing every block, frees the inode
// block, removes the directory entry, and closes fd.
func (v *Volume) Delete(fd int) error {
	if err := v.requireMounted(); err != nil {
		return err
	}
	entry, ok := v.openFiles[fd]
	if !ok {
		return tinyerr.ErrFileNotFound
	}

	block := entry.firstExtent
	for block != 0 {
		buf, err := v.dev.ReadBlock(block)
		if err != nil {
			return err
		}
		extent, err := ondisk.DecodeExtent(buf)
		if err != nil {
			return err
		}
		next := extent.Next

		if err := v.dev.WriteBlock(block, ondisk.EncodeFreeBlock()); err != nil {
			return err
		}
		if err := v.bm.FreeOne(block); err != nil {
			return err
		}
		block = next
	}

	if err := v.dev.WriteBlock(entry.inodeBlock, ondisk.EncodeFreeBlock()); err != nil {
		return err
	}
	if err := v.bm.FreeOne(entry.inodeBlock); err != nil {
		return err
	}

	v.dir.Remove(entry.inodeBlock)
	if err := v.persistDirectory(); err != nil {
		return err
	}
	if err := v.persistBitmap(); err != nil {
		return err
	}

	delete(v.openFiles, fd)
	return nil
}

// Rename updates fd's name both in the open-file entry and on disk, so the
// new name survives an unmount/remount.
func (v *Volume) Rename(fd int, newName string) error {
	entry, ok := v.openFiles[fd]
	if !ok {
		return tinyerr.ErrFileNotFound
	}
	if len(newName) > ondisk.MaxNameLen {
		return tinyerr.ErrNameTooLong.WithMessage(newName)
	}

	buf, err := v.dev.ReadBlock(entry.inodeBlock)
	if err != nil {
		return err
	}
	inode, err := ondisk.DecodeInode(buf)
	if err != nil {
		return err
	}
	inode.Name = newName

	newBuf, err := ondisk.EncodeInode(inode)
	if err != nil {
		return err
	}
	if err := v.dev.WriteBlock(entry.inodeBlock, newBuf); err != nil {
		return err
	}

	entry.name = newName
	return nil
}
