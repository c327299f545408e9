package mem

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
)

func cursorFixture(t *testing.T, data []byte) *Cursor {
	m := New(binary.LittleEndian)
	m.Map(0x8000, uint64(len(data)+0x100))
	if err := m.Write(0x8000, data); err != nil {
		t.Fatal(err)
	}
	// window is the declared length, not the backed length: the cursor must
	// stop at the former even though more bytes exist behind it
	return NewCursor(m, 0x8000, uint64(len(data)), binary.LittleEndian)
}

func TestCursorReads(t *testing.T) {
	c := cursorFixture(t, []byte{
		0x11,
		0x22, 0x33,
		0x44, 0x55, 0x66, 0x77,
		0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
	})
	if v, err := c.U8(); err != nil || v != 0x11 {
		t.Fatalf("U8 = %#x, %v", v, err)
	}
	if v, err := c.U16(); err != nil || v != 0x3322 {
		t.Fatalf("U16 = %#x, %v", v, err)
	}
	if v, err := c.U32(); err != nil || v != 0x77665544 {
		t.Fatalf("U32 = %#x, %v", v, err)
	}
	if v, err := c.U64(); err != nil || v != 0xffeeddccbbaa9988 {
		t.Fatalf("U64 = %#x, %v", v, err)
	}
	if c.Remaining() != 0 {
		t.Fatalf("Remaining = %d", c.Remaining())
	}
}

func TestCursorBound(t *testing.T) {
	c := cursorFixture(t, []byte{1, 2, 3, 4})
	if _, err := c.U64(); errors.Cause(err) != ErrOutOfBounds {
		t.Fatalf("U64 past bound: %v", err)
	}
	// a failed read must not advance the cursor
	if c.Offset() != 0 {
		t.Fatalf("Offset moved to %d on failed read", c.Offset())
	}
	if err := c.Skip(5); errors.Cause(err) != ErrOutOfBounds {
		t.Fatalf("Skip past bound: %v", err)
	}
	if err := c.Skip(4); err != nil {
		t.Fatal("Skip to exact bound failed:", err)
	}
	if _, err := c.U8(); errors.Cause(err) != ErrOutOfBounds {
		t.Fatalf("U8 at bound: %v", err)
	}
}

func TestCursorCString(t *testing.T) {
	c := cursorFixture(t, []byte("console=ttyS0\x00garbage"))
	s, err := c.CString()
	if err != nil {
		t.Fatal(err)
	}
	if s != "console=ttyS0" {
		t.Fatalf("CString = %q", s)
	}

	// no NUL: whole window
	c = cursorFixture(t, []byte("abc"))
	if s, err = c.CString(); err != nil || s != "abc" {
		t.Fatalf("CString = %q, %v", s, err)
	}
}
