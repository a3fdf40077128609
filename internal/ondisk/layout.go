// Package ondisk encodes and decodes the fixed 256-byte block layouts
// (superblock, root directory, inode, file extent) to and from typed
// records. Every encoder zeroes unused bytes and stamps the header; every
// decoder validates the magic byte before trusting the rest of the block.
package ondisk

// BlockSize is the fixed size, in bytes, of every block on an image.
const BlockSize = 256

// Magic is the constant byte stamped at offset 1 of every valid block.
const Magic = 0x44

// Block type tags stored at offset 0 of every block.
const (
	BlockTypeSuperblock = 1
	BlockTypeInode      = 2
	BlockTypeExtent     = 3
	BlockTypeFree       = 4
)

// Fixed block numbers.
const (
	SuperblockBlock    = 0
	RootDirectoryBlock = 1
)

// Superblock layout.
const (
	sbBitmapSizeOffset = 4
	sbNumBlocksOffset  = 5
	sbBitmapOffset     = 7

	// MaxBitmapBytes is the largest bitmap the superblock's fixed layout
	// can hold (bytes 7..254).
	MaxBitmapBytes = 248

	// MaxBlocks is the largest total block count a 16-bit big-endian
	// field can represent.
	MaxBlocks = 65535
)

// Root directory layout.
const (
	rootDirEntriesOffset = 4
	// RootDirectoryCapacity is the number of 16-bit inode pointers the
	// root directory block has room for.
	RootDirectoryCapacity = (251 - 4) / 2
)

// Inode layout.
const (
	inodeFirstExtentOffset = 2
	inodeNameOffset        = 4
	inodeNameLen           = 8
	inodeSizeOffset        = 13
	inodeHourOffset        = 15
	inodeMinuteOffset      = 19
	inodeSecondOffset      = 23

	// MaxNameLen is the longest file name the inode's name field can hold.
	MaxNameLen = inodeNameLen

	// MaxFileSize is the largest file size a 16-bit big-endian field can
	// represent.
	MaxFileSize = 65535
)

// Extent layout.
const (
	extentNextOffset    = 2
	extentPayloadOffset = 4
	// ExtentPayloadSize is the number of file-data bytes one extent block
	// carries.
	ExtentPayloadSize = BlockSize - extentPayloadOffset
)

// MaxBlockPointer is the largest block number a single-byte block pointer
// (inode.first_extent, extent.next) can address.
const MaxBlockPointer = 255
