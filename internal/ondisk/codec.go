package ondisk

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/noxer/bytewriter"

	"github.com/alepiere/TinyFS/tinyerr"
)

// header writes the block-type and magic bytes common to every block kind.
func header(buf []byte, blockType byte) {
	buf[0] = blockType
	buf[1] = Magic
}

// putUint16 writes a big-endian uint16 at the given offset in buf through a
// bytewriter, a fixed-buffer-as-io.Writer adapter so encoding/binary can
// target a plain byte slice instead of a growable buffer.
func putUint16(buf []byte, offset int, v uint16) {
	binary.Write(bytewriter.New(buf[offset:offset+2]), binary.BigEndian, v)
}

// putUint32LE writes a little-endian uint32 at the given offset in buf.
func putUint32LE(buf []byte, offset int, v uint32) {
	binary.Write(bytewriter.New(buf[offset:offset+4]), binary.LittleEndian, v)
}

// checkMagic validates a decoded block's header, returning the block type
// on success.
func checkMagic(buf []byte) (byte, error) {
	if len(buf) != BlockSize {
		return 0, fmt.Errorf("block must be exactly %d bytes, got %d", BlockSize, len(buf))
	}
	if buf[1] != Magic {
		return 0, tinyerr.ErrBadMagic.WithMessage(fmt.Sprintf("expected 0x%02X at offset 1, got 0x%02X", Magic, buf[1]))
	}
	return buf[0], nil
}

// Superblock is the decoded contents of block 0: the bitmap's size and the
// packed free bitmap bytes themselves.
type Superblock struct {
	BitmapSizeBytes int
	NumBlocks       int
	Bitmap          []byte
}

// EncodeSuperblock renders sb into a fresh 256-byte block.
func EncodeSuperblock(sb Superblock) ([]byte, error) {
	if sb.BitmapSizeBytes > MaxBitmapBytes {
		return nil, tinyerr.ErrBitmapTooLarge.WithMessage(
			fmt.Sprintf("%d bytes exceeds the %d-byte limit", sb.BitmapSizeBytes, MaxBitmapBytes))
	}
	if sb.NumBlocks > MaxBlocks {
		return nil, tinyerr.ErrTooManyBlocks.WithMessage(
			fmt.Sprintf("%d exceeds the 16-bit block count limit", sb.NumBlocks))
	}
	if len(sb.Bitmap) != sb.BitmapSizeBytes {
		return nil, fmt.Errorf("bitmap is %d bytes, declared size is %d", len(sb.Bitmap), sb.BitmapSizeBytes)
	}

	buf := make([]byte, BlockSize)
	header(buf, BlockTypeSuperblock)
	buf[sbBitmapSizeOffset] = byte(sb.BitmapSizeBytes)
	putUint16(buf, sbNumBlocksOffset, uint16(sb.NumBlocks))
	copy(buf[sbBitmapOffset:], sb.Bitmap)
	return buf, nil
}

// DecodeSuperblock parses buf (exactly BlockSize bytes) into a Superblock.
func DecodeSuperblock(buf []byte) (Superblock, error) {
	blockType, err := checkMagic(buf)
	if err != nil {
		return Superblock{}, err
	}
	if blockType != BlockTypeSuperblock {
		return Superblock{}, tinyerr.ErrBadMagic.WithMessage(
			fmt.Sprintf("block type %d is not a superblock", blockType))
	}

	bitmapSize := int(buf[sbBitmapSizeOffset])
	numBlocks := int(binary.BigEndian.Uint16(buf[sbNumBlocksOffset:]))
	bitmap := make([]byte, bitmapSize)
	copy(bitmap, buf[sbBitmapOffset:sbBitmapOffset+bitmapSize])

	return Superblock{
		BitmapSizeBytes: bitmapSize,
		NumBlocks:       numBlocks,
		Bitmap:          bitmap,
	}, nil
}

// RootDirectory is the decoded contents of block 1: a packed list of inode
// block numbers, zero-valued entries marking empty slots.
type RootDirectory struct {
	Entries [RootDirectoryCapacity]uint16
}

// EncodeRootDirectory renders dir into a fresh 256-byte block.
func EncodeRootDirectory(dir RootDirectory) []byte {
	buf := make([]byte, BlockSize)
	header(buf, BlockTypeInode) // the root directory shares the inode-block type tag
	offset := rootDirEntriesOffset
	for _, entry := range dir.Entries {
		putUint16(buf, offset, entry)
		offset += 2
	}
	return buf
}

// DecodeRootDirectory parses buf into a RootDirectory.
func DecodeRootDirectory(buf []byte) (RootDirectory, error) {
	if _, err := checkMagic(buf); err != nil {
		return RootDirectory{}, err
	}

	var dir RootDirectory
	offset := rootDirEntriesOffset
	for i := range dir.Entries {
		dir.Entries[i] = binary.BigEndian.Uint16(buf[offset:])
		offset += 2
	}
	return dir, nil
}

// Inode is the decoded contents of a file's inode block.
type Inode struct {
	FirstExtent int // 0 means the file has no data yet
	Name        string
	SizeBytes   int
	Hour        uint32
	Minute      uint32
	Second      uint32
}

// EncodeInode renders n into a fresh 256-byte block.
func EncodeInode(n Inode) ([]byte, error) {
	if len(n.Name) > MaxNameLen {
		return nil, tinyerr.ErrNameTooLong.WithMessage(
			fmt.Sprintf("%q is %d bytes, limit is %d", n.Name, len(n.Name), MaxNameLen))
	}
	if n.SizeBytes > MaxFileSize {
		return nil, tinyerr.ErrTooManyBlocks.WithMessage(
			fmt.Sprintf("file size %d exceeds the 16-bit size limit", n.SizeBytes))
	}
	if n.FirstExtent > MaxBlockPointer {
		return nil, tinyerr.ErrTooManyBlocks.WithMessage(
			fmt.Sprintf("extent block %d exceeds the single-byte pointer limit", n.FirstExtent))
	}

	buf := make([]byte, BlockSize)
	header(buf, BlockTypeInode)
	buf[inodeFirstExtentOffset] = byte(n.FirstExtent)

	nameBytes := make([]byte, inodeNameLen)
	copy(nameBytes, n.Name)
	copy(buf[inodeNameOffset:inodeNameOffset+inodeNameLen], nameBytes)

	putUint16(buf, inodeSizeOffset, uint16(n.SizeBytes))
	putUint32LE(buf, inodeHourOffset, n.Hour)
	putUint32LE(buf, inodeMinuteOffset, n.Minute)
	putUint32LE(buf, inodeSecondOffset, n.Second)
	return buf, nil
}

// DecodeInode parses buf into an Inode.
func DecodeInode(buf []byte) (Inode, error) {
	blockType, err := checkMagic(buf)
	if err != nil {
		return Inode{}, err
	}
	if blockType != BlockTypeInode {
		return Inode{}, tinyerr.ErrBadMagic.WithMessage(
			fmt.Sprintf("block type %d is not an inode", blockType))
	}

	nameBytes := buf[inodeNameOffset : inodeNameOffset+inodeNameLen]
	name := string(bytes.TrimRight(nameBytes, "\x00"))

	return Inode{
		FirstExtent: int(buf[inodeFirstExtentOffset]),
		Name:        name,
		SizeBytes:   int(binary.BigEndian.Uint16(buf[inodeSizeOffset:])),
		Hour:        binary.LittleEndian.Uint32(buf[inodeHourOffset:]),
		Minute:      binary.LittleEndian.Uint32(buf[inodeMinuteOffset:]),
		Second:      binary.LittleEndian.Uint32(buf[inodeSecondOffset:]),
	}, nil
}

// Extent is the decoded contents of a file-data block.
type Extent struct {
	Next    int // 0 means this is the last extent in the chain
	Payload []byte
}

// EncodeExtent renders e into a fresh 256-byte block. Payload shorter than
// ExtentPayloadSize is zero-padded; longer payloads are an error.
func EncodeExtent(e Extent) ([]byte, error) {
	if len(e.Payload) > ExtentPayloadSize {
		return nil, fmt.Errorf("extent payload is %d bytes, limit is %d", len(e.Payload), ExtentPayloadSize)
	}
	if e.Next > MaxBlockPointer {
		return nil, tinyerr.ErrTooManyBlocks.WithMessage(
			fmt.Sprintf("next-extent block %d exceeds the single-byte pointer limit", e.Next))
	}

	buf := make([]byte, BlockSize)
	header(buf, BlockTypeExtent)
	buf[extentNextOffset] = byte(e.Next)
	copy(buf[extentPayloadOffset:], e.Payload)
	return buf, nil
}

// DecodeExtent parses buf into an Extent. The returned Payload is always
// ExtentPayloadSize bytes; callers trim it to the inode's declared size.
func DecodeExtent(buf []byte) (Extent, error) {
	blockType, err := checkMagic(buf)
	if err != nil {
		return Extent{}, err
	}
	if blockType != BlockTypeExtent {
		return Extent{}, tinyerr.ErrBadMagic.WithMessage(
			fmt.Sprintf("block type %d is not a file extent", blockType))
	}

	payload := make([]byte, ExtentPayloadSize)
	copy(payload, buf[extentPayloadOffset:])
	return Extent{
		Next:    int(buf[extentNextOffset]),
		Payload: payload,
	}, nil
}

// EncodeFreeBlock renders an empty free-block image.
func EncodeFreeBlock() []byte {
	buf := make([]byte, BlockSize)
	header(buf, BlockTypeFree)
	return buf
}
