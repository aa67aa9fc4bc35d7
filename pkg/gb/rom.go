// Package gb provides Game Boy specific structures and functionality.
// This file contains the ROM image abstraction used by the patching tools.
package gb

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Bank layout constants for a MBC banked Game Boy cartridge
const (
	// BankSize is the size of one switchable ROM bank
	BankSize = 0x4000
	// BankWindowStart is the CPU address where a switched bank is mapped
	BankWindowStart = 0x4000
)

// AbsoluteOffset converts a bank index and intra-bank offset to an
// absolute offset within the ROM image file
func AbsoluteOffset(bank, offset int) int64 {
	return int64(bank)*BankSize + int64(offset)
}

// Region represents a contiguous allocated byte range [Start, End) in the ROM
type Region struct {
	Start int
	End   int
}

// Size returns the capacity of the region in bytes
func (r Region) Size() int {
	return r.End - r.Start
}

// ROM represents an open, writable ROM image file.
// The file is held exclusively for the duration of a patch run and must
// be closed on every exit path.
type ROM struct {
	file *os.File
	path string
	size int64
}

// OpenROM opens a ROM image file for reading and writing
func OpenROM(path string) (*ROM, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open ROM image %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat ROM image %s: %w", path, err)
	}
	return &ROM{file: file, path: path, size: info.Size()}, nil
}

// Close flushes and closes the underlying file
func (r *ROM) Close() error {
	if err := r.file.Sync(); err != nil {
		r.file.Close()
		return fmt.Errorf("failed to flush ROM image: %w", err)
	}
	return r.file.Close()
}

// Path returns the path the ROM was opened from
func (r *ROM) Path() string {
	return r.path
}

// Size returns the total size of the ROM image in bytes
func (r *ROM) Size() int64 {
	return r.size
}

// WriteAt writes data at an absolute offset, refusing writes that would
// extend or run past the end of the image
func (r *ROM) WriteAt(offset int64, data []byte) error {
	if offset < 0 || offset+int64(len(data)) > r.size {
		return fmt.Errorf("write of %d bytes at 0x%X exceeds ROM size 0x%X", len(data), offset, r.size)
	}
	_, err := r.file.WriteAt(data, offset)
	if err != nil {
		return fmt.Errorf("failed to write %d bytes at 0x%X: %w", len(data), offset, err)
	}
	return nil
}

// ReadAt reads count bytes from an absolute offset
func (r *ROM) ReadAt(offset int64, count int) ([]byte, error) {
	if offset < 0 || offset+int64(count) > r.size {
		return nil, fmt.Errorf("read of %d bytes at 0x%X exceeds ROM size 0x%X", count, offset, r.size)
	}
	buffer := make([]byte, count)
	if _, err := r.file.ReadAt(buffer, offset); err != nil {
		return nil, fmt.Errorf("failed to read %d bytes at 0x%X: %w", count, offset, err)
	}
	return buffer, nil
}

// WriteUint16LE writes a little-endian 16-bit value at an absolute offset
func (r *ROM) WriteUint16LE(offset int64, value uint16) error {
	return r.WriteAt(offset, []byte{byte(value), byte(value >> 8)})
}

// WriteByte writes a single byte at an absolute offset
func (r *ROM) WriteByte(offset int64, value byte) error {
	return r.WriteAt(offset, []byte{value})
}

// BackupROM copies the ROM image to a timestamped sibling file so a bad
// patch run can be reverted by hand. Returns the backup path.
func BackupROM(path string) (string, error) {
	source, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open ROM for backup: %w", err)
	}
	defer source.Close()

	backupPath := path + ".backup." + time.Now().Format("20060102_15_04_05")
	destination, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		os.Remove(backupPath)
		return "", fmt.Errorf("failed to copy ROM to backup: %w", err)
	}
	if err := destination.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize backup: %w", err)
	}
	return backupPath, nil
}
