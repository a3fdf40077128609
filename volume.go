package tinyfs

import (
	"time"

	"github.com/alepiere/TinyFS/internal/bitmap"
	"github.com/alepiere/TinyFS/internal/blockdevice"
	"github.com/alepiere/TinyFS/internal/directory"
	"github.com/alepiere/TinyFS/internal/ondisk"
	"github.com/alepiere/TinyFS/tinyerr"
)

// openFileEntry is the in-memory record for a file some caller currently
// has open. It's kept in the Volume's openFiles map, keyed by fd, rather
// than threaded through a linked list.
type openFileEntry struct {
	fd          int
	name        string
	inodeBlock  int
	firstExtent int // 0 means the file has no data yet
	size        int
	offset      int
	lastAccess  time.Time
}

// Volume is the in-memory state of a single mounted image: its device
// handle, the loaded free-block bitmap, the root directory, and the table
// of files some caller currently has open.
type Volume struct {
	dev       *blockdevice.Device
	bm        *bitmap.Bitmap
	dir       *directory.Directory
	openFiles map[int]*openFileEntry
	nextFD    int
}

// currentVolume enforces "exactly one mounted volume" process-wide. This
// mirrors the single global VolumeState an engine without first-class
// instances would keep; Go just lets it be an explicit pointer instead of
// a scattered set of globals.
var currentVolume *Volume

// Mount opens path, verifies its magic, and loads its bitmap and root
// directory into memory. Only one volume may be mounted at a time.
func Mount(path string) (*Volume, error) {
	if currentVolume != nil {
		return nil, tinyerr.ErrAlreadyMounted
	}

	dev, err := blockdevice.Open(path, 0)
	if err != nil {
		return nil, err
	}

	sbBuf, err := dev.ReadBlock(ondisk.SuperblockBlock)
	if err != nil {
		dev.Close()
		return nil, err
	}
	sb, err := ondisk.DecodeSuperblock(sbBuf)
	if err != nil {
		dev.Close()
		return nil, err
	}

	dirBuf, err := dev.ReadBlock(ondisk.RootDirectoryBlock)
	if err != nil {
		dev.Close()
		return nil, err
	}
	rootDir, err := ondisk.DecodeRootDirectory(dirBuf)
	if err != nil {
		dev.Close()
		return nil, err
	}

	vol := &Volume{
		dev:       dev,
		bm:        bitmap.Load(sb.Bitmap, sb.NumBlocks),
		dir:       directory.FromOnDisk(rootDir),
		openFiles: make(map[int]*openFileEntry),
		nextFD:    1,
	}
	currentVolume = vol
	return vol, nil
}

// Unmount releases vol's in-memory state and closes its device handle.
func (v *Volume) Unmount() error {
	if err := v.requireMounted(); err != nil {
		return err
	}

	err := v.dev.Close()
	currentVolume = nil
	v.openFiles = nil
	return err
}

func (v *Volume) requireMounted() error {
	if currentVolume != v {
		return tinyerr.ErrNotMounted
	}
	return nil
}

// persistBitmap re-encodes the superblock and writes it back, so every
// mutation that changes the bitmap survives an unmount/remount.
func (v *Volume) persistBitmap() error {
	buf, err := ondisk.EncodeSuperblock(ondisk.Superblock{
		BitmapSizeBytes: bitmap.ByteSize(v.bm.NumBlocks()),
		NumBlocks:       v.bm.NumBlocks(),
		Bitmap:          v.bm.Bytes(),
	})
	if err != nil {
		return err
	}
	return v.dev.WriteBlock(ondisk.SuperblockBlock, buf)
}

func (v *Volume) persistDirectory() error {
	return v.dev.WriteBlock(ondisk.RootDirectoryBlock, ondisk.EncodeRootDirectory(v.dir.ToOnDisk()))
}

func (v *Volume) readInodeName(inodeBlock int) (string, error) {
	buf, err := v.dev.ReadBlock(inodeBlock)
	if err != nil {
		return "", err
	}
	inode, err := ondisk.DecodeInode(buf)
	if err != nil {
		return "", err
	}
	return inode.Name, nil
}

// Open returns the existing fd for name if it's already open, otherwise
// allocates an inode block, inserts it into the root directory, and
// creates a fresh open-file entry.
func (v *Volume) Open(name string) (int, error) {
	if err := v.requireMounted(); err != nil {
		return 0, err
	}
	if len(name) > ondisk.MaxNameLen {
		return 0, tinyerr.ErrNameTooLong.WithMessage(name)
	}

	for _, entry := range v.openFiles {
		if entry.name == name {
			return entry.fd, nil
		}
	}

	inodeBlock, err := v.bm.AllocateRun(1)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	inodeBuf, err := ondisk.EncodeInode(ondisk.Inode{
		Name:   name,
		Hour:   uint32(now.Hour()),
		Minute: uint32(now.Minute()),
		Second: uint32(now.Second()),
	})
	if err != nil {
		v.bm.FreeOne(inodeBlock)
		return 0, err
	}
	if err := v.dev.WriteBlock(inodeBlock, inodeBuf); err != nil {
		v.bm.FreeOne(inodeBlock)
		return 0, err
	}

	if err := v.dir.Insert(inodeBlock); err != nil {
		v.bm.FreeOne(inodeBlock)
		return 0, err
	}
	if err := v.persistDirectory(); err != nil {
		return 0, err
	}
	if err := v.persistBitmap(); err != nil {
		return 0, err
	}

	fd := v.nextFD
	v.nextFD++
	v.openFiles[fd] = &openFileEntry{
		fd:         fd,
		name:       name,
		inodeBlock: inodeBlock,
		lastAccess: now,
	}
	return fd, nil
}

// Close removes fd's open-file entry. It does not touch the disk.
func (v *Volume) Close(fd int) error {
	if _, ok := v.openFiles[fd]; !ok {
		return tinyerr.ErrFileNotFound
	}
	delete(v.openFiles, fd)
	return nil
}

// Readdir walks the root directory and returns every file's name in
// directory (insertion) order.
func (v *Volume) Readdir() ([]string, error) {
	if err := v.requireMounted(); err != nil {
		return nil, err
	}

	var names []string
	for _, block := range v.dir.List() {
		name, err := v.readInodeName(block)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// ReadFileInfo reads fd's inode back off disk and reports its name, size,
// and creation time components.
func (v *Volume) ReadFileInfo(fd int) (FileInfo, error) {
	entry, ok := v.openFiles[fd]
	if !ok {
		return FileInfo{}, tinyerr.ErrFileNotFound
	}

	buf, err := v.dev.ReadBlock(entry.inodeBlock)
	if err != nil {
		return FileInfo{}, err
	}
	inode, err := ondisk.DecodeInode(buf)
	if err != nil {
		return FileInfo{}, err
	}

	entry.lastAccess = time.Now()
	return FileInfo{
		Name:   inode.Name,
		Size:   inode.SizeBytes,
		Hour:   inode.Hour,
		Minute: inode.Minute,
		Second: inode.Second,
	}, nil
}
