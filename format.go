package tinyfs

import (
	"github.com/hashicorp/go-multierror"

	"github.com/alepiere/TinyFS/internal/bitmap"
	"github.com/alepiere/TinyFS/internal/blockdevice"
	"github.com/alepiere/TinyFS/internal/directory"
	"github.com/alepiere/TinyFS/internal/ondisk"
	"github.com/alepiere/TinyFS/tinyerr"
)

// FormatOptions carries the parameters for creating a fresh image.
type FormatOptions struct {
	Path       string
	TotalBytes int64
}

// validate checks every Format parameter up front, the way a multi-field
// form gets validated, collecting every violation instead of stopping at
// the first.
func (opts FormatOptions) validate() error {
	var result *multierror.Error

	if opts.Path == "" {
		result = multierror.Append(result, tinyerr.ErrInvalidBlockSize.WithMessage("path must not be empty"))
	}
	if opts.TotalBytes > 0 && opts.TotalBytes < ondisk.BlockSize {
		result = multierror.Append(result, tinyerr.ErrInvalidBlockSize.WithMessage(
			"total size must be at least one block"))
	}
	if opts.TotalBytes <= 0 {
		result = multierror.Append(result, tinyerr.ErrInvalidBlockSize.WithMessage(
			"total size must be positive"))
	}

	return result.ErrorOrNil()
}

// Format initializes a fresh image at opts.Path: every block except the
// superblock and root directory is written as a free block, the root
// directory is written empty, and the superblock is written with every
// bit but 0 and 1 marked free.
func Format(opts FormatOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	numBlocks := int(opts.TotalBytes / ondisk.BlockSize)
	if numBlocks > ondisk.MaxBlocks {
		return tinyerr.ErrTooManyBlocks.WithMessage("image is larger than a 16-bit block count can address")
	}

	bmBytes := bitmap.ByteSize(numBlocks)
	if bmBytes > ondisk.MaxBitmapBytes {
		return tinyerr.ErrBitmapTooLarge.WithMessage("image needs a bitmap larger than the superblock can hold")
	}

	dev, err := blockdevice.Open(opts.Path, opts.TotalBytes)
	if err != nil {
		return err
	}
	defer dev.Close()

	bm := bitmap.New(numBlocks)
	if err := bm.Allocate(ondisk.SuperblockBlock); err != nil {
		return err
	}
	if err := bm.Allocate(ondisk.RootDirectoryBlock); err != nil {
		return err
	}

	freeBlock := ondisk.EncodeFreeBlock()
	for i := 2; i < numBlocks; i++ {
		if err := dev.WriteBlock(i, freeBlock); err != nil {
			return err
		}
	}

	rootDirBuf := ondisk.EncodeRootDirectory(directory.New().ToOnDisk())
	if err := dev.WriteBlock(ondisk.RootDirectoryBlock, rootDirBuf); err != nil {
		return err
	}

	sbBuf, err := ondisk.EncodeSuperblock(ondisk.Superblock{
		BitmapSizeBytes: bmBytes,
		NumBlocks:       numBlocks,
		Bitmap:          bm.Bytes(),
	})
	if err != nil {
		return err
	}
	return dev.WriteBlock(ondisk.SuperblockBlock, sbBuf)
}
