package acpi

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/darkfireeee/Exo-OS/go/mem"
)

// RootForm selects which root-table encoding discovery adopted.
type RootForm int

const (
	FormRSDT RootForm = iota // 32-bit entries
	FormXSDT                 // 64-bit entries
)

func (f RootForm) String() string {
	if f == FormXSDT {
		return SigXSDT
	}
	return SigRSDT
}

func (f RootForm) entryWidth() int {
	if f == FormXSDT {
		return 8
	}
	return 4
}

// RootTable is the validated configuration-table index: the generic header
// plus the addresses of all reachable subsystem tables.
type RootTable struct {
	Form    RootForm
	Addr    uint64
	Header  SDTHeader
	Entries []uint64
}

// Discovery is the explicit result of firmware-table discovery, threaded by
// the caller instead of stored in globals.
type Discovery struct {
	RSDP *RSDP
	Root *RootTable

	m mem.Memory
}

// LocateRSDP scans the EBDA-derived window and then the legacy BIOS area in
// 16-byte steps for the root-pointer signature followed by a zero-sum
// checksum over the first 20 bytes. First match wins.
func LocateRSDP(m mem.Memory) (*RSDP, error) {
	var seg [2]byte
	if err := m.ReadAt(seg[:], ebdaPointerAddr); err == nil {
		if base := uint64(binary.LittleEndian.Uint16(seg[:])) << 4; base != 0 {
			if r := scanRegion(m, base, base+ebdaWindowSize); r != nil {
				return r, nil
			}
		}
	}
	if r := scanRegion(m, biosAreaStart, biosAreaEnd); r != nil {
		return r, nil
	}
	return nil, ErrNoRSDP
}

func scanRegion(m mem.Memory, start, end uint64) *RSDP {
	sig := make([]byte, 8)
	for addr := start; addr+rsdpV1Size <= end; addr += scanStep {
		if err := m.ReadAt(sig, addr); err != nil {
			// holes in the backed image are not candidates
			continue
		}
		if string(sig) != RSDPSignature {
			continue
		}
		if r, err := parseRSDP(m, addr); err == nil {
			return r
		}
		// checksum rejected: discard this candidate, keep scanning
	}
	return nil
}

func parseRSDP(m mem.Memory, addr uint64) (*RSDP, error) {
	raw := make([]byte, rsdpV1Size)
	if err := m.ReadAt(raw, addr); err != nil {
		return nil, err
	}
	if checksum(raw) != 0 {
		return nil, errors.Wrapf(ErrChecksum, "root pointer at %#x", addr)
	}
	var v1 rsdpV1
	if err := unpackLE(raw, &v1); err != nil {
		return nil, err
	}
	r := &RSDP{
		Addr:     addr,
		OEMID:    string(v1.OEMID[:]),
		Revision: v1.Revision,
		RSDTAddr: v1.RSDTAddr,
	}
	if v1.Revision >= 2 {
		r.checkExtended(m)
	}
	return r, nil
}

// checkExtended reinterprets the pointer as the revision ≥ 2 form and
// validates the second checksum over its full declared length. Failure here
// is not an error: it just leaves the 32-bit path as the only option.
func (r *RSDP) checkExtended(m mem.Memory) {
	raw := make([]byte, rsdpV2Size)
	if err := m.ReadAt(raw, r.Addr); err != nil {
		return
	}
	var ext rsdpV2Ext
	if err := unpackLE(raw[rsdpV1Size:], &ext); err != nil {
		return
	}
	if ext.Length < rsdpV2Size {
		return
	}
	full := make([]byte, ext.Length)
	if err := m.ReadAt(full, r.Addr); err != nil {
		return
	}
	if checksum(full) != 0 {
		return
	}
	r.Length = ext.Length
	r.XSDTAddr = ext.XSDTAddr
	r.ExtValid = true
}

// Discover runs the whole chain: locate the root pointer, then adopt a root
// table. The extended (XSDT) encoding takes exclusive precedence when valid;
// any failure on that path falls back to the 32-bit (RSDT) encoding. When
// neither validates the result is ErrUnavailable and the caller proceeds
// without firmware facts.
func Discover(m mem.Memory) (*Discovery, error) {
	rsdp, err := LocateRSDP(m)
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	root, err := selectRoot(m, rsdp)
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	return &Discovery{RSDP: rsdp, Root: root, m: m}, nil
}

func selectRoot(m mem.Memory, rsdp *RSDP) (*RootTable, error) {
	if rsdp.ExtValid {
		if root, err := loadRoot(m, rsdp.XSDTAddr, FormXSDT); err == nil {
			return root, nil
		}
	}
	return loadRoot(m, uint64(rsdp.RSDTAddr), FormRSDT)
}

func loadRoot(m mem.Memory, addr uint64, form RootForm) (*RootTable, error) {
	if addr == 0 {
		return nil, errors.Errorf("null %s address", form)
	}
	hdr, err := readSDTHeader(m, addr)
	if err != nil {
		return nil, err
	}
	if hdr.Sig() != form.String() {
		return nil, errors.Errorf("table at %#x has signature %q, want %q", addr, hdr.Sig(), form.String())
	}
	if hdr.Length < sdtHeaderLen {
		return nil, errors.Errorf("%s declares length %d", form, hdr.Length)
	}
	full := make([]byte, hdr.Length)
	if err := m.ReadAt(full, addr); err != nil {
		return nil, err
	}
	if checksum(full) != 0 {
		return nil, errors.Wrapf(ErrChecksum, "%s at %#x", form, addr)
	}
	width := form.entryWidth()
	count := (int(hdr.Length) - sdtHeaderLen) / width
	root := &RootTable{Form: form, Addr: addr, Header: *hdr, Entries: make([]uint64, count)}
	for i := 0; i < count; i++ {
		o := sdtHeaderLen + i*width
		v, err := mem.UnpackUint(binary.LittleEndian, width, full[o:o+width])
		if err != nil {
			return nil, err
		}
		root.Entries[i] = v
	}
	return root, nil
}
