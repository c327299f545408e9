package boot

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/darkfireeee/Exo-OS/go/mem"
)

const (
	infoHeaderSize = 8 // total_size u32 + reserved u32
	tagHeaderSize  = 8 // kind u32 + size u32
	tagAlign       = 8
)

// Tag is one record of the information stream. Size includes the 8-byte
// record header. The payload is not copied at decode time; accessors read it
// through a cursor bounded by the record's own declared size, and anything
// they return is a copy that survives the boot-information block.
type Tag struct {
	Kind uint32
	Size uint32

	m    mem.Memory
	addr uint64 // physical address of the record header
}

// Payload returns a cursor over the record's payload bytes.
func (t *Tag) Payload() *mem.Cursor {
	return mem.NewCursor(t.m, t.addr+tagHeaderSize, uint64(t.Size-tagHeaderSize), binary.LittleEndian)
}

// Text decodes a string-valued payload (command line, loader name):
// NUL-terminated, bounded by the record size.
func (t *Tag) Text() (string, error) {
	return t.Payload().CString()
}

// TagReader walks the stream lazily. The total_size field at the head of the
// block is the authoritative bound: no access ever lands past base+total_size.
type TagReader struct {
	m     mem.Memory
	base  uint64
	total uint32
	off   uint64
	done  bool
}

// NewTagReader reads and validates the block header at base. The bootloader
// places the block on an 8-byte boundary; anything else means the handoff is
// not what it claims to be.
func NewTagReader(m mem.Memory, base uint64) (*TagReader, error) {
	if base%8 != 0 {
		return nil, errors.Wrapf(ErrTruncated, "boot information at %#x not 8-byte aligned", base)
	}
	var hdr [4]byte
	if err := m.ReadAt(hdr[:], base); err != nil {
		return nil, errors.Wrap(err, "reading boot-information header")
	}
	total := binary.LittleEndian.Uint32(hdr[:])
	if total < infoHeaderSize {
		return nil, errors.Wrapf(ErrTruncated, "declared total size %d", total)
	}
	return &TagReader{m: m, base: base, total: total, off: infoHeaderSize}, nil
}

func (r *TagReader) TotalSize() uint32 { return r.total }

// Reset restarts iteration from the first record.
func (r *TagReader) Reset() {
	r.off = infoHeaderSize
	r.done = false
}

// Next returns the next record, skipping nothing: unknown kinds are returned
// like any other and the caller decides which matter. It returns (nil, nil)
// once the end record is reached, and ErrTruncated if the stream runs out of
// declared space without one: that means a loader/kernel version mismatch the
// rest of boot needs to hear about, not something to paper over.
func (r *TagReader) Next() (*Tag, error) {
	if r.done {
		return nil, nil
	}
	total := uint64(r.total)
	if r.off+tagHeaderSize > total {
		return nil, errors.Wrapf(ErrTruncated, "record header at offset %#x crosses total size %#x", r.off, total)
	}
	var hdr [tagHeaderSize]byte
	if err := r.m.ReadAt(hdr[:], r.base+r.off); err != nil {
		return nil, errors.Wrap(err, "reading record header")
	}
	kind := binary.LittleEndian.Uint32(hdr[0:])
	size := binary.LittleEndian.Uint32(hdr[4:])
	if size < tagHeaderSize {
		return nil, errors.Wrapf(ErrTruncated, "record at offset %#x declares size %d", r.off, size)
	}
	if r.off+uint64(size) > total {
		return nil, errors.Wrapf(ErrTruncated, "record at offset %#x (size %d) crosses total size %#x", r.off, size, total)
	}
	if kind == TagEnd {
		r.done = true
		return nil, nil
	}
	tag := &Tag{Kind: kind, Size: size, m: r.m, addr: r.base + r.off}
	r.off += (uint64(size) + tagAlign - 1) &^ (tagAlign - 1)
	return tag, nil
}
