package ondisk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alepiere/TinyFS/tinyerr"
)

func TestSuperblockRoundTrip(t *testing.T) {
	bitmap := make([]byte, 5)
	bitmap[0] = 0xFC

	sb := Superblock{BitmapSizeBytes: 5, NumBlocks: 40, Bitmap: bitmap}
	buf, err := EncodeSuperblock(sb)
	require.NoError(t, err)
	assert.Len(t, buf, BlockSize)
	assert.Equal(t, byte(BlockTypeSuperblock), buf[0])
	assert.Equal(t, byte(Magic), buf[1])
	assert.Equal(t, byte(5), buf[4])
	assert.Equal(t, []byte{0x00, 0x28}, buf[5:7])

	decoded, err := DecodeSuperblock(buf)
	require.NoError(t, err)
	assert.Equal(t, sb, decoded)
}

func TestSuperblockBitmapTooLarge(t *testing.T) {
	_, err := EncodeSuperblock(Superblock{BitmapSizeBytes: MaxBitmapBytes + 1, Bitmap: make([]byte, MaxBitmapBytes+1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, tinyerr.ErrBitmapTooLarge)
}

func TestDecodeSuperblockBadMagic(t *testing.T) {
	buf, err := EncodeSuperblock(Superblock{BitmapSizeBytes: 1, NumBlocks: 8, Bitmap: []byte{0xFF}})
	require.NoError(t, err)
	buf[1] = 0x00

	_, err = DecodeSuperblock(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, tinyerr.ErrBadMagic)
}

func TestRootDirectoryRoundTrip(t *testing.T) {
	var dir RootDirectory
	dir.Entries[0] = 2
	dir.Entries[1] = 5

	buf := EncodeRootDirectory(dir)
	decoded, err := DecodeRootDirectory(buf)
	require.NoError(t, err)
	assert.Equal(t, dir, decoded)
}

func TestInodeRoundTrip(t *testing.T) {
	n := Inode{
		FirstExtent: 7,
		Name:        "alpha",
		SizeBytes:   500,
		Hour:        13,
		Minute:      45,
		Second:      2,
	}
	buf, err := EncodeInode(n)
	require.NoError(t, err)

	decoded, err := DecodeInode(buf)
	require.NoError(t, err)
	assert.Equal(t, n, decoded)
}

func TestInodeNameTooLong(t *testing.T) {
	_, err := EncodeInode(Inode{Name: "123456789"})
	require.Error(t, err)
	assert.ErrorIs(t, err, tinyerr.ErrNameTooLong)
}

func TestInodeShortNamePadding(t *testing.T) {
	buf, err := EncodeInode(Inode{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, byte('x'), buf[inodeNameOffset])
	for i := inodeNameOffset + 1; i < inodeNameOffset+inodeNameLen; i++ {
		assert.Equal(t, byte(0), buf[i])
	}
}

func TestExtentRoundTrip(t *testing.T) {
	e := Extent{Next: 9, Payload: []byte("hello")}
	buf, err := EncodeExtent(e)
	require.NoError(t, err)

	decoded, err := DecodeExtent(buf)
	require.NoError(t, err)
	assert.Equal(t, 9, decoded.Next)
	assert.Equal(t, ExtentPayloadSize, len(decoded.Payload))
	assert.Equal(t, "hello", string(decoded.Payload[:5]))
	for _, b := range decoded.Payload[5:] {
		assert.Equal(t, byte(0), b)
	}
}

func TestExtentPayloadTooLarge(t *testing.T) {
	_, err := EncodeExtent(Extent{Payload: make([]byte, ExtentPayloadSize+1)})
	require.Error(t, err)
}

func TestEncodeFreeBlock(t *testing.T) {
	buf := EncodeFreeBlock()
	assert.Equal(t, byte(BlockTypeFree), buf[0])
	assert.Equal(t, byte(Magic), buf[1])
	for _, b := range buf[2:] {
		assert.Equal(t, byte(0), b)
	}
}
