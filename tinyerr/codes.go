package tinyerr

import "errors"

// The historical fixed integer codes, preserved at the public boundary for
// callers that want them instead of Go errors. Every operation internally
// still returns (value, error); Code exists only to translate outward.
const (
	InvalidBlockSize = -1
	DiskError        = -2
	DiskReadError    = -3
	MountedError     = -4
	MagicNumberError = -5
	WriteError       = -6
	SeekError        = -7
	BitmapSizeError  = -8
	SeekFail         = -9
	FreeBlockError   = -10
	FileNotFoundErr  = -11
	EndOfFileError   = -12
	ReadError        = -13
	NameLengthError  = -14

	MkfsSuccess    = 1
	MountSuccess   = 2
	UnmountSuccess = 3
	ReaddirSuccess = 4
	RenameSuccess  = 5
	InfoSuccess    = 6
	SeekSuccess    = 7
	ReadSuccess    = 8
	DeleteSuccess  = 9
	WriteSuccess   = 10
)

var sentinelToCode = map[TinyFSError]int{
	ErrInvalidBlockSize: InvalidBlockSize,
	ErrDiskFault:        DiskError,
	ErrDiskReadFault:    DiskReadError,
	ErrAlreadyMounted:   MountedError,
	ErrNotMounted:       MountedError,
	ErrBadMagic:         MagicNumberError,
	ErrWriteFault:       WriteError,
	ErrSeekFault:        SeekError,
	ErrBitmapTooLarge:   BitmapSizeError,
	ErrNoFreeBlocks:     FreeBlockError,
	ErrFileNotFound:     FileNotFoundErr,
	ErrEndOfFile:        EndOfFileError,
	ErrReadFault:        ReadError,
	ErrNameTooLong:      NameLengthError,
	ErrDirectoryFull:    FreeBlockError,
	ErrTooManyBlocks:    InvalidBlockSize,
}

// Code maps err back to the fixed negative integer defined for its
// sentinel, or 0 if err doesn't wrap any sentinel in this package.
func Code(err error) int {
	if err == nil {
		return 0
	}
	for sentinel, code := range sentinelToCode {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return 0
}

// IsSuccess reports whether code is one of the non-negative success codes.
func IsSuccess(code int) bool {
	return code >= 0
}
