package tinyfs

// Defaults mirrors the historical fixed defaults for a fresh image.
const (
	DefaultDiskSize = 10240 // bytes (40 blocks)
	DefaultDiskName = "tinyFSDisk"
)

// FileInfo is what ReadFileInfo reports about an open file's inode.
type FileInfo struct {
	Name   string
	Size   int
	Hour   uint32
	Minute uint32
	Second uint32
}
