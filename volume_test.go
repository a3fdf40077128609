package tinyfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alepiere/TinyFS/internal/ondisk"
	"github.com/alepiere/TinyFS/tinyerr"
)

// mustMountFresh formats a fresh image and mounts it, registering a
// cleanup that unmounts (tolerating an already-unmounted volume) so the
// package-level mount guard never leaks between tests.
func mustMountFresh(t *testing.T, totalBytes int64) *Volume {
	t.Helper()
	path := tempImagePath(t)
	require.NoError(t, Format(FormatOptions{Path: path, TotalBytes: totalBytes}))

	vol, err := Mount(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = vol.Unmount()
	})
	return vol
}

func TestMountFreshImageReaddirEmpty(t *testing.T) {
	vol := mustMountFresh(t, DefaultDiskSize)

	names, err := vol.Readdir()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMountTwiceFails(t *testing.T) {
	vol := mustMountFresh(t, DefaultDiskSize)
	defer vol.Unmount()

	_, err := Mount(tempImagePath(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, tinyerr.ErrAlreadyMounted))
}

func TestUnmountWithoutMountFails(t *testing.T) {
	vol := &Volume{}
	err := vol.Unmount()
	require.Error(t, err)
	assert.True(t, errors.Is(err, tinyerr.ErrNotMounted))
}

func TestOpenAndReaddirOrder(t *testing.T) {
	vol := mustMountFresh(t, DefaultDiskSize)

	fd1, err := vol.Open("alpha")
	require.NoError(t, err)
	assert.Equal(t, 1, fd1)

	fd2, err := vol.Open("beta")
	require.NoError(t, err)
	assert.Equal(t, 2, fd2)

	names, err := vol.Readdir()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestOpenSameNameReturnsSameFD(t *testing.T) {
	vol := mustMountFresh(t, DefaultDiskSize)

	fd1, err := vol.Open("alpha")
	require.NoError(t, err)
	fd2, err := vol.Open("alpha")
	require.NoError(t, err)
	assert.Equal(t, fd1, fd2)
}

func TestOpenNameTooLong(t *testing.T) {
	vol := mustMountFresh(t, DefaultDiskSize)

	_, err := vol.Open("123456789")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tinyerr.ErrNameTooLong))
}

func TestOpenDirectoryFull(t *testing.T) {
	// 255 blocks leaves 253 free after the superblock and root directory,
	// comfortably more than the root directory's 123 slots, so this
	// exhausts the directory rather than free space.
	vol := mustMountFresh(t, 255*256)

	for i := 0; i < ondisk.RootDirectoryCapacity; i++ {
		_, err := vol.Open(nameForIndex(i))
		require.NoError(t, err, "open #%d", i)
	}

	_, err := vol.Open("overflow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tinyerr.ErrDirectoryFull))
}

func nameForIndex(i int) string {
	return string(rune('a'+(i%26))) + string(rune('A'+((i/26)%26)))
}

func TestReadFileInfoUnknownFD(t *testing.T) {
	vol := mustMountFresh(t, DefaultDiskSize)

	_, err := vol.ReadFileInfo(99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tinyerr.ErrFileNotFound))
}

func TestCloseUnknownFD(t *testing.T) {
	vol := mustMountFresh(t, DefaultDiskSize)

	err := vol.Close(99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tinyerr.ErrFileNotFound))
}
