package tinyfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFsckCleanVolume(t *testing.T) {
	vol := mustMountFresh(t, DefaultDiskSize)

	fd, err := vol.Open("alpha")
	require.NoError(t, err)
	require.NoError(t, vol.Write(fd, []byte("hello world")))

	fd2, err := vol.Open("beta")
	require.NoError(t, err)
	require.NoError(t, vol.Write(fd2, make([]byte, 600)))

	assert.NoError(t, vol.Fsck())
}

func TestFsckDetectsExtentMarkedFreeInBitmap(t *testing.T) {
	vol := mustMountFresh(t, DefaultDiskSize)

	fd, err := vol.Open("alpha")
	require.NoError(t, err)
	require.NoError(t, vol.Write(fd, []byte("data")))

	entry := vol.openFiles[fd]
	// Corrupt the bitmap directly so the extent block looks free even
	// though a file still owns it, without going through Delete.
	require.NoError(t, vol.bm.FreeOne(entry.firstExtent))

	err = vol.Fsck()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marked free")
}
