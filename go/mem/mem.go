// Package mem models physical memory as seen during early boot: a sparse set
// of backed byte ranges with strictly bounds-checked access. Nothing in this
// package (or its consumers) materializes a structure by address cast; all
// decoding goes through checked readers.
package mem

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Memory is the read capability the boot and firmware parsers consume. A
// hosted build backs it with *Mem; inside a kernel it would be backed by the
// direct physical map.
type Memory interface {
	ReadAt(p []byte, addr uint64) error
}

// Mem wraps Sim with width-aware accessors and a byte order. Boot-protocol
// and firmware structures are little-endian; the order is a field so tests
// can still exercise the codecs both ways.
type Mem struct {
	sim   *Sim
	order binary.ByteOrder
}

func New(order binary.ByteOrder) *Mem {
	return &Mem{sim: &Sim{}, order: order}
}

func (m *Mem) ByteOrder() binary.ByteOrder { return m.order }

// Map backs a range, preserving any data already present in overlapping
// regions (tests build images with multiple writes landing in one page).
func (m *Mem) Map(addr, size uint64) *Region {
	return m.sim.Map(addr, size, false)
}

func (m *Mem) Unmap(addr, size uint64) {
	m.sim.Unmap(addr, size)
}

func (m *Mem) ReadAt(p []byte, addr uint64) error {
	return m.sim.Read(addr, p)
}

func (m *Mem) Read(addr, size uint64) ([]byte, error) {
	p := make([]byte, size)
	if err := m.sim.Read(addr, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *Mem) Write(addr uint64, p []byte) error {
	return m.sim.Write(addr, p)
}

func (m *Mem) ReadUint(addr uint64, size int) (uint64, error) {
	if size > 8 {
		return 0, errors.Errorf("ReadUint size too large: %d > 8", size)
	}
	p := make([]byte, size)
	if err := m.sim.Read(addr, p); err != nil {
		return 0, err
	}
	return UnpackUint(m.order, size, p)
}

func (m *Mem) WriteUint(addr uint64, size int, val uint64) error {
	var buf [8]byte
	if size > 8 {
		return errors.Errorf("WriteUint size too large: %d > 8", size)
	}
	if _, err := PackUint(m.order, size, buf[:], val); err != nil {
		return err
	}
	return m.sim.Write(addr, buf[:size])
}

func PackUint(order binary.ByteOrder, size int, buf []byte, n uint64) ([]byte, error) {
	if buf == nil {
		buf = make([]byte, size)
	} else if len(buf) < size {
		return nil, errors.Errorf("buffer too small (%d < %d)", len(buf), size)
	}
	switch size {
	case 8:
		order.PutUint64(buf[:size], n)
	case 4:
		order.PutUint32(buf[:size], uint32(n))
	case 2:
		order.PutUint16(buf[:size], uint16(n))
	case 1:
		buf[0] = byte(n)
	default:
		return nil, errors.Errorf("unsupported uint size: %d", size)
	}
	return buf[:size], nil
}

func UnpackUint(order binary.ByteOrder, size int, buf []byte) (uint64, error) {
	switch size {
	case 8:
		return order.Uint64(buf), nil
	case 4:
		return uint64(order.Uint32(buf)), nil
	case 2:
		return uint64(order.Uint16(buf)), nil
	case 1:
		return uint64(buf[0]), nil
	default:
		return 0, errors.Errorf("unsupported uint size: %d", size)
	}
}
