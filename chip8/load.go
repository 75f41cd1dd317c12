package chip8

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// MaxImageSize is the largest program image that fits between ProgramStart
// and the end of memory.
const MaxImageSize = MemorySize - ProgramStart

// Loader failures, distinguishable with errors.Is. They are recoverable:
// the host may Reset and load a different image.
var (
	ErrNotFound  = errors.New("image not found")
	ErrTooLarge  = errors.New("image too large")
	ErrShortRead = errors.New("short image read")
)

// Load copies a program image into memory at ProgramStart. It touches
// nothing else: callers Reset first to get the documented baseline. An
// oversized image fails with ErrTooLarge and leaves memory unchanged.
func (m *Machine) Load(image []byte) error {
	if len(image) > MaxImageSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(image), MaxImageSize)
	}
	copy(m.Mem[ProgramStart:], image)
	return nil
}

// ReadImage reads a program image from path and validates that it fits in
// memory. It fails with ErrNotFound if the file does not exist, ErrTooLarge
// if it exceeds MaxImageSize, and ErrShortRead if fewer bytes arrive than
// the file reports.
func ReadImage(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() > MaxImageSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, fi.Size(), MaxImageSize)
	}
	image := make([]byte, fi.Size())
	if _, err := io.ReadFull(f, image); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
	}
	return image, nil
}

// LoadImage reads the program image at path and loads it at ProgramStart.
func (m *Machine) LoadImage(path string) error {
	image, err := ReadImage(path)
	if err != nil {
		return err
	}
	return m.Load(image)
}
