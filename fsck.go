package tinyfs

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/alepiere/TinyFS/internal/ondisk"
)

// Fsck walks the directory and every inode's extent chain, cross-checking
// them against the bitmap, and reports every violation it finds rather than
// stopping at the first one.
func (v *Volume) Fsck() error {
	if err := v.requireMounted(); err != nil {
		return err
	}

	var result *multierror.Error
	used := map[int]string{
		ondisk.SuperblockBlock:    "superblock",
		ondisk.RootDirectoryBlock: "root directory",
	}

	claim := func(block int, owner string) {
		if prev, ok := used[block]; ok {
			result = multierror.Append(result, fmt.Errorf(
				"block %d is claimed by both %q and %q", block, prev, owner))
			return
		}
		used[block] = owner
		if v.bm.IsFree(block) {
			result = multierror.Append(result, fmt.Errorf(
				"block %d is used by %q but marked free in the bitmap", block, owner))
		}
	}

	for _, inodeBlock := range v.dir.List() {
		claim(inodeBlock, fmt.Sprintf("inode at block %d", inodeBlock))

		buf, err := v.dev.ReadBlock(inodeBlock)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("inode %d: %w", inodeBlock, err))
			continue
		}
		inode, err := ondisk.DecodeInode(buf)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("inode %d: %w", inodeBlock, err))
			continue
		}

		wantBlocks := ceilDiv(inode.SizeBytes, ondisk.ExtentPayloadSize)
		gotBlocks := 0
		block := inode.FirstExtent
		seen := map[int]bool{}
		for block != 0 {
			if seen[block] {
				result = multierror.Append(result, fmt.Errorf(
					"inode %d (%q): extent chain cycles back to block %d", inodeBlock, inode.Name, block))
				break
			}
			seen[block] = true

			claim(block, fmt.Sprintf("extent of %q (inode %d)", inode.Name, inodeBlock))
			gotBlocks++

			extBuf, err := v.dev.ReadBlock(block)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf(
					"inode %d (%q): %w", inodeBlock, inode.Name, err))
				break
			}
			extent, err := ondisk.DecodeExtent(extBuf)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf(
					"inode %d (%q): %w", inodeBlock, inode.Name, err))
				break
			}
			block = extent.Next
		}

		if gotBlocks != wantBlocks {
			result = multierror.Append(result, fmt.Errorf(
				"inode %d (%q): size %d bytes implies %d extent blocks, found %d",
				inodeBlock, inode.Name, inode.SizeBytes, wantBlocks, gotBlocks))
		}
	}

	for block := 0; block < v.bm.NumBlocks(); block++ {
		_, isUsed := used[block]
		if isUsed == v.bm.IsFree(block) {
			result = multierror.Append(result, fmt.Errorf(
				"block %d: bitmap says free=%v but it is used=%v", block, v.bm.IsFree(block), isUsed))
		}
	}

	return result.ErrorOrNil()
}
