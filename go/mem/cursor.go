package mem

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

var ErrOutOfBounds = errors.New("read past declared bound")

// Cursor is a sequential reader over the window [base, base+size) of a
// Memory. Every access is checked against the declared size before any byte
// is fetched; firmware and bootloader structures declare their own lengths
// and those declarations are the only authority on how far a parse may reach.
type Cursor struct {
	m     Memory
	base  uint64
	size  uint64
	off   uint64
	order binary.ByteOrder
}

func NewCursor(m Memory, base, size uint64, order binary.ByteOrder) *Cursor {
	return &Cursor{m: m, base: base, size: size, order: order}
}

func (c *Cursor) Base() uint64      { return c.base }
func (c *Cursor) Size() uint64      { return c.size }
func (c *Cursor) Offset() uint64    { return c.off }
func (c *Cursor) Remaining() uint64 { return c.size - c.off }

func (c *Cursor) Seek(off uint64) error {
	if off > c.size {
		return errors.Wrapf(ErrOutOfBounds, "seek to %#x in window of %#x", off, c.size)
	}
	c.off = off
	return nil
}

func (c *Cursor) Skip(n uint64) error {
	return c.Seek(c.off + n)
}

// Bytes reads the next n bytes. The copy is deliberate: the underlying window
// is bootloader-owned and only valid during early boot, so a caller keeping
// the result does not alias memory it no longer controls.
func (c *Cursor) Bytes(n uint64) ([]byte, error) {
	if n > c.Remaining() {
		return nil, errors.Wrapf(ErrOutOfBounds, "%d bytes at offset %#x, %d left", n, c.off, c.Remaining())
	}
	p := make([]byte, n)
	if err := c.m.ReadAt(p, c.base+c.off); err != nil {
		return nil, err
	}
	c.off += n
	return p, nil
}

// Read implements io.Reader over the remaining window, for struc decoding.
func (c *Cursor) Read(p []byte) (int, error) {
	n := uint64(len(p))
	if r := c.Remaining(); n > r {
		n = r
	}
	if n == 0 {
		return 0, errors.Wrapf(ErrOutOfBounds, "read at offset %#x", c.off)
	}
	if err := c.m.ReadAt(p[:n], c.base+c.off); err != nil {
		return 0, err
	}
	c.off += n
	return int(n), nil
}

func (c *Cursor) U8() (uint8, error) {
	p, err := c.Bytes(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (c *Cursor) U16() (uint16, error) {
	p, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(p), nil
}

func (c *Cursor) U32() (uint32, error) {
	p, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(p), nil
}

func (c *Cursor) U64() (uint64, error) {
	p, err := c.Bytes(8)
	if err != nil {
		return 0, err
	}
	return c.order.Uint64(p), nil
}

// CString consumes the rest of the window and returns everything up to the
// first NUL, or the full remainder if no NUL is present.
func (c *Cursor) CString() (string, error) {
	p, err := c.Bytes(c.Remaining())
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(p, 0); i >= 0 {
		p = p[:i]
	}
	return string(p), nil
}
