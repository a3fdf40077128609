package tinyfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempImagePath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "image.tfs")
}

func TestFormatSuperblockLayout(t *testing.T) {
	path := tempImagePath(t)
	require.NoError(t, Format(FormatOptions{Path: path, TotalBytes: 10240}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, raw, 10240)

	block0 := raw[:256]
	assert.Equal(t, byte(0x01), block0[0])
	assert.Equal(t, byte(0x44), block0[1])
	assert.Equal(t, byte(5), block0[4]) // ceil(40/8)
	assert.Equal(t, []byte{0x00, 0x28}, block0[5:7])
}

func TestFormatRejectsUndersizedImage(t *testing.T) {
	path := tempImagePath(t)
	err := Format(FormatOptions{Path: path, TotalBytes: 100})
	require.Error(t, err)
}

func TestFormatRejectsZeroSize(t *testing.T) {
	path := tempImagePath(t)
	err := Format(FormatOptions{Path: path, TotalBytes: 0})
	require.Error(t, err)
}

func TestFormatEveryBlockHasValidHeader(t *testing.T) {
	path := tempImagePath(t)
	require.NoError(t, Format(FormatOptions{Path: path, TotalBytes: 2560}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	for i := 0; i*256 < len(raw); i++ {
		block := raw[i*256 : (i+1)*256]
		assert.Contains(t, []byte{1, 2, 3, 4}, block[0], "block %d", i)
		assert.Equal(t, byte(0x44), block[1], "block %d", i)
	}
}
