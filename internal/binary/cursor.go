// Package binary provides position-tracking binary reading and writing
// primitives with bounds checking.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/simonhull/m4ameta/internal/types"
)

// Cursor is a seekable, position-tracking view over a byte source.
//
// All multi-byte reads are big-endian, the MP4 convention. Reads are
// bounds-checked against the source size and fail with OutOfBoundsError
// instead of returning short data.
//
// A Cursor is not safe for concurrent use: atom parsing, tag decoding,
// and stream-info decoding each assume exclusive control of the position.
type Cursor struct {
	r      io.ReaderAt
	path   string
	size   int64
	offset int64
}

// NewCursor creates a Cursor over r, positioned at offset 0.
func NewCursor(r io.ReaderAt, size int64, path string) *Cursor {
	return &Cursor{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this cursor.
func (c *Cursor) Path() string {
	return c.path
}

// Size returns the total byte length of the source.
func (c *Cursor) Size() int64 {
	return c.size
}

// Tell returns the current position.
func (c *Cursor) Tell() int64 {
	return c.offset
}

// SeekTo moves the position to an absolute offset.
func (c *Cursor) SeekTo(off int64) {
	c.offset = off
}

// Skip advances the position by n bytes.
func (c *Cursor) Skip(n int64) {
	c.offset += n
}

// ReadAt reads len(b) bytes at an absolute offset without moving the
// position. The what argument gives context for error messages.
func (c *Cursor) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= c.size {
		return &types.OutOfBoundsError{
			Path:   c.path,
			What:   what,
			Offset: off,
			Length: len(b),
			Size:   c.size,
		}
	}

	if off+int64(len(b)) > c.size {
		return &types.OutOfBoundsError{
			Path:   c.path,
			What:   what,
			Offset: off,
			Length: len(b),
			Size:   c.size,
		}
	}

	n, err := c.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", c.path, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			c.path, what, off, n, len(b))
	}

	return nil
}

// ReadN reads n bytes at the current position and advances past them.
func (c *Cursor) ReadN(n int64, what string) ([]byte, error) {
	buf := make([]byte, n)
	if err := c.ReadAt(buf, c.offset, what); err != nil {
		return nil, err
	}
	c.offset += n
	return buf, nil
}

// At reads a value of type T at an absolute offset without moving the
// position. T must be uint8, uint16, uint32, or uint64.
func At[T uint8 | uint16 | uint32 | uint64](c *Cursor, off int64, what string) (T, error) {
	var zero T

	buf := make([]byte, typeSize(zero))
	if err := c.ReadAt(buf, off, what); err != nil {
		return zero, err
	}

	return decode[T](buf), nil
}

// Next reads a value of type T at the current position and advances past
// it. T must be uint8, uint16, uint32, or uint64.
func Next[T uint8 | uint16 | uint32 | uint64](c *Cursor, what string) (T, error) {
	val, err := At[T](c, c.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}

	c.offset += int64(typeSize(val))
	return val, nil
}

// typeSize returns the encoded size of T in bytes.
func typeSize[T uint8 | uint16 | uint32 | uint64](v T) int {
	switch any(v).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// decode converts big-endian bytes to a value of type T.
func decode[T uint8 | uint16 | uint32 | uint64](buf []byte) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case uint16:
		return T(binary.BigEndian.Uint16(buf))
	case uint32:
		return T(binary.BigEndian.Uint32(buf))
	default:
		return T(binary.BigEndian.Uint64(buf))
	}
}
