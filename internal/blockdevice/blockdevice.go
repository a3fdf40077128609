// Package blockdevice is a thin adapter over a host file that makes it
// look like a device that can only be read or written in whole 256-byte
// blocks.
package blockdevice

import (
	"fmt"
	"io"
	"os"

	"github.com/alepiere/TinyFS/internal/ondisk"
	"github.com/alepiere/TinyFS/tinyerr"
)

// BlockSize is the fixed block size every Device transfers in.
const BlockSize = ondisk.BlockSize

// Device is a host file opened as a sequence of fixed-size blocks.
type Device struct {
	file        *os.File
	totalBlocks int
}

// Open opens the image at path. If nBytes is 0, the existing file is opened
// read/write without truncation and its size determines the block count.
// Otherwise the file is created/truncated to floor(nBytes/BlockSize)*BlockSize
// bytes, with a floor of one block.
func Open(path string, nBytes int64) (*Device, error) {
	if nBytes == 0 {
		f, err := os.OpenFile(path, os.O_RDWR, 0644)
		if err != nil {
			return nil, tinyerr.ErrDiskFault.Wrap(err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, tinyerr.ErrDiskFault.Wrap(err)
		}
		return &Device{file: f, totalBlocks: int(info.Size() / BlockSize)}, nil
	}

	numBlocks := nBytes / BlockSize
	if numBlocks < 1 {
		numBlocks = 1
	}
	size := numBlocks * BlockSize

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, tinyerr.ErrDiskFault.Wrap(err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, tinyerr.ErrDiskFault.Wrap(err)
	}

	return &Device{file: f, totalBlocks: int(numBlocks)}, nil
}

// TotalBlocks reports how many fixed-size blocks the device holds.
func (d *Device) TotalBlocks() int {
	return d.totalBlocks
}

func (d *Device) checkBounds(n int) error {
	if n < 0 || n >= d.totalBlocks {
		return fmt.Errorf("block %d not in range [0, %d)", n, d.totalBlocks)
	}
	return nil
}

// ReadBlock reads exactly BlockSize bytes starting at block n.
func (d *Device) ReadBlock(n int) ([]byte, error) {
	if err := d.checkBounds(n); err != nil {
		return nil, tinyerr.ErrDiskReadFault.Wrap(err)
	}

	if _, err := d.file.Seek(int64(n)*BlockSize, io.SeekStart); err != nil {
		return nil, tinyerr.ErrSeekFault.Wrap(err)
	}

	buf := make([]byte, BlockSize)
	read, err := io.ReadFull(d.file, buf)
	if err != nil {
		return nil, tinyerr.ErrDiskReadFault.Wrap(err)
	}
	if read != BlockSize {
		return nil, tinyerr.ErrDiskReadFault.WithMessage(
			fmt.Sprintf("short read: got %d of %d bytes", read, BlockSize))
	}
	return buf, nil
}

// WriteBlock writes buf, which must be exactly BlockSize bytes, to block n.
func (d *Device) WriteBlock(n int, buf []byte) error {
	if err := d.checkBounds(n); err != nil {
		return tinyerr.ErrWriteFault.Wrap(err)
	}
	if len(buf) != BlockSize {
		return tinyerr.ErrWriteFault.WithMessage(
			fmt.Sprintf("buffer is %d bytes, block size is %d", len(buf), BlockSize))
	}

	if _, err := d.file.Seek(int64(n)*BlockSize, io.SeekStart); err != nil {
		return tinyerr.ErrSeekFault.Wrap(err)
	}

	written, err := d.file.Write(buf)
	if err != nil {
		return tinyerr.ErrWriteFault.Wrap(err)
	}
	if written != BlockSize {
		return tinyerr.ErrWriteFault.WithMessage(
			fmt.Sprintf("short write: wrote %d of %d bytes", written, BlockSize))
	}
	return nil
}

// Close is idempotent: closing an already-closed device is a no-op.
func (d *Device) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	if err != nil {
		return tinyerr.ErrDiskFault.Wrap(err)
	}
	return nil
}
