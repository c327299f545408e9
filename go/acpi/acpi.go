// Package acpi locates and validates the firmware configuration tables (ACPI)
// in physical memory. Firmware data is untrusted: every structure is accepted
// only after its signature matches and its byte-sum checksum verifies, and all
// reads are bounds-checked through the mem package.
//
// Discovery failure is not fatal to boot. Callers receive ErrUnavailable and
// continue in a degraded mode without ACPI-derived facts.
package acpi

import (
	"bytes"
	"encoding/binary"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/darkfireeee/Exo-OS/go/mem"
)

const (
	// RSDPSignature is the 8-byte anchor scanned for in low memory.
	RSDPSignature = "RSD PTR "

	SigRSDT = "RSDT"
	SigXSDT = "XSDT"
	SigFADT = "FACP"
	SigMADT = "APIC"
	SigSRAT = "SRAT"

	// The EBDA segment pointer lives at this fixed real-mode address; shifted
	// left 4 it gives the linear base of a 1 KiB window to scan. The BIOS
	// read-only area is always scanned as the secondary region.
	ebdaPointerAddr = 0x40E
	ebdaWindowSize  = 0x400
	biosAreaStart   = 0xE0000
	biosAreaEnd     = 0x100000

	scanStep     = 16
	rsdpV1Size   = 20
	rsdpV2Size   = 36
	sdtHeaderLen = 36
)

var (
	ErrNoRSDP      = errors.New("no root pointer in scanned regions")
	ErrUnavailable = errors.New("firmware configuration tables unavailable")
	ErrChecksum    = errors.New("checksum rejected")
	ErrNoTable     = errors.New("no valid table with requested signature")
)

// checksum is the ACPI byte-sum: a structure is valid iff the sum of all
// bytes over its declared length is zero mod 256.
func checksum(p []byte) uint8 {
	var sum uint8
	for _, b := range p {
		sum += b
	}
	return sum
}

type rsdpV1 struct {
	Signature [8]byte
	Checksum  uint8
	OEMID     [6]byte
	Revision  uint8
	RSDTAddr  uint32
}

type rsdpV2Ext struct {
	Length      uint32
	XSDTAddr    uint64
	ExtChecksum uint8
	Reserved    [3]byte
}

// RSDP is a validated root pointer. ExtValid reports whether the revision ≥ 2
// extended form was present and passed its own full-length checksum; only
// then is XSDTAddr meaningful.
type RSDP struct {
	Addr     uint64
	OEMID    string
	Revision uint8
	RSDTAddr uint32
	Length   uint32
	XSDTAddr uint64
	ExtValid bool
}

// SDTHeader is the generic header shared by every system description table.
type SDTHeader struct {
	Signature       [4]byte
	Length          uint32
	Revision        uint8
	Checksum        uint8
	OEMID           [6]byte
	OEMTableID      [8]byte
	OEMRevision     uint32
	CreatorID       uint32
	CreatorRevision uint32
}

func (h *SDTHeader) Sig() string {
	return string(h.Signature[:])
}

func (h *SDTHeader) OEM() string {
	return string(bytes.TrimRight(h.OEMID[:], " \x00"))
}

func unpackLE(raw []byte, v interface{}) error {
	return struc.UnpackWithOrder(bytes.NewReader(raw), v, binary.LittleEndian)
}

func readSDTHeader(m mem.Memory, addr uint64) (*SDTHeader, error) {
	raw := make([]byte, sdtHeaderLen)
	if err := m.ReadAt(raw, addr); err != nil {
		return nil, err
	}
	hdr := new(SDTHeader)
	if err := unpackLE(raw, hdr); err != nil {
		return nil, errors.Wrap(err, "decoding table header")
	}
	return hdr, nil
}
