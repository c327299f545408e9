package acpi

import (
	"github.com/pkg/errors"
)

// Table is a validated subsystem table: header plus the full table bytes,
// copied out of firmware memory.
type Table struct {
	Addr   uint64
	Header SDTHeader
	Data   []byte
}

// Payload returns the table body after the generic header.
func (t *Table) Payload() []byte {
	return t.Data[sdtHeaderLen:]
}

// FindTable walks the adopted root table's entries for a 4-byte signature.
// A candidate whose signature matches but whose whole-table checksum fails is
// skipped and the walk continues; duplicate signatures are possible and the
// first valid match wins.
func (d *Discovery) FindTable(sig string) (*Table, error) {
	if d.Root == nil {
		return nil, ErrUnavailable
	}
	for _, addr := range d.Root.Entries {
		if addr == 0 {
			continue
		}
		hdr, err := readSDTHeader(d.m, addr)
		if err != nil {
			continue
		}
		if hdr.Sig() != sig {
			continue
		}
		if hdr.Length < sdtHeaderLen {
			continue
		}
		full := make([]byte, hdr.Length)
		if err := d.m.ReadAt(full, addr); err != nil {
			continue
		}
		if checksum(full) != 0 {
			continue
		}
		return &Table{Addr: addr, Header: *hdr, Data: full}, nil
	}
	return nil, errors.Wrapf(ErrNoTable, "%q", sig)
}

// Signatures lists the signature of every reachable, checksum-valid table,
// in entry order. Used for diagnostics.
func (d *Discovery) Signatures() []string {
	var sigs []string
	if d.Root == nil {
		return sigs
	}
	for _, addr := range d.Root.Entries {
		if addr == 0 {
			continue
		}
		hdr, err := readSDTHeader(d.m, addr)
		if err != nil || hdr.Length < sdtHeaderLen {
			continue
		}
		full := make([]byte, hdr.Length)
		if err := d.m.ReadAt(full, addr); err != nil || checksum(full) != 0 {
			continue
		}
		sigs = append(sigs, hdr.Sig())
	}
	return sigs
}
