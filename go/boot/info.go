package boot

import (
	"bytes"
	"encoding/binary"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/darkfireeee/Exo-OS/go/mem"
)

// BasicMemInfo reports lower/upper conventional memory in KiB.
type BasicMemInfo struct {
	MemLower uint32
	MemUpper uint32
}

func (b *BasicMemInfo) TotalKB() uint32 { return b.MemLower + b.MemUpper }

// BootDevice identifies the BIOS device the kernel was loaded from.
type BootDevice struct {
	BiosDev      uint32
	Partition    uint32
	SubPartition uint32
}

// Framebuffer describes the loader-configured display surface.
type Framebuffer struct {
	Addr     uint64
	Pitch    uint32
	Width    uint32
	Height   uint32
	Bpp      uint8
	Type     uint8
	Reserved uint16
}

// Module is a loader-placed boot module (initrd and friends).
type Module struct {
	Start   uint32
	End     uint32
	Cmdline string
}

// Memory region types used by the memory-map record.
const (
	MemAvailable       = 1
	MemReserved        = 2
	MemACPIReclaimable = 3
	MemACPINVS         = 4
	MemBad             = 5
)

type MemoryMapEntry struct {
	Base     uint64
	Length   uint64
	Type     uint32
	Reserved uint32
}

func (e *MemoryMapEntry) Available() bool { return e.Type == MemAvailable }

func (e *MemoryMapEntry) TypeString() string {
	switch e.Type {
	case MemAvailable:
		return "Available"
	case MemReserved:
		return "Reserved"
	case MemACPIReclaimable:
		return "ACPI Reclaimable"
	case MemACPINVS:
		return "ACPI NVS"
	case MemBad:
		return "Bad Memory"
	}
	return "Unknown"
}

type MemoryMap struct {
	EntrySize    uint32
	EntryVersion uint32
	Entries      []MemoryMapEntry
}

const memoryMapEntryWidth = 24

// DecodeMemoryMap decodes a memory-map record. The record declares its own
// entry stride; a stride shorter than the fixed entry layout would walk the
// cursor out of the record, so it is rejected up front.
func DecodeMemoryMap(t *Tag) (*MemoryMap, error) {
	c := t.Payload()
	entrySize, err := c.U32()
	if err != nil {
		return nil, err
	}
	entryVersion, err := c.U32()
	if err != nil {
		return nil, err
	}
	if entrySize < memoryMapEntryWidth {
		return nil, errors.Wrapf(ErrTruncated, "memory-map entry size %d", entrySize)
	}
	mm := &MemoryMap{EntrySize: entrySize, EntryVersion: entryVersion}
	for c.Remaining() >= uint64(entrySize) {
		raw, err := c.Bytes(uint64(entrySize))
		if err != nil {
			return nil, err
		}
		var e MemoryMapEntry
		if err := struc.UnpackWithOrder(bytes.NewReader(raw), &e, binary.LittleEndian); err != nil {
			return nil, errors.Wrap(err, "decoding memory-map entry")
		}
		mm.Entries = append(mm.Entries, e)
	}
	return mm, nil
}

func decodeStruct(t *Tag, v interface{}) error {
	sz, err := struc.Sizeof(v)
	if err != nil {
		return err
	}
	raw, err := t.Payload().Bytes(uint64(sz))
	if err != nil {
		return err
	}
	return struc.UnpackWithOrder(bytes.NewReader(raw), v, binary.LittleEndian)
}

func DecodeBasicMemInfo(t *Tag) (*BasicMemInfo, error) {
	v := new(BasicMemInfo)
	if err := decodeStruct(t, v); err != nil {
		return nil, errors.Wrap(err, "decoding basic memory info")
	}
	return v, nil
}

func DecodeBootDevice(t *Tag) (*BootDevice, error) {
	v := new(BootDevice)
	if err := decodeStruct(t, v); err != nil {
		return nil, errors.Wrap(err, "decoding boot device")
	}
	return v, nil
}

func DecodeFramebuffer(t *Tag) (*Framebuffer, error) {
	v := new(Framebuffer)
	if err := decodeStruct(t, v); err != nil {
		return nil, errors.Wrap(err, "decoding framebuffer info")
	}
	return v, nil
}

func DecodeModule(t *Tag) (*Module, error) {
	c := t.Payload()
	start, err := c.U32()
	if err != nil {
		return nil, err
	}
	end, err := c.U32()
	if err != nil {
		return nil, err
	}
	cmdline, err := c.CString()
	if err != nil {
		return nil, err
	}
	return &Module{Start: start, End: end, Cmdline: cmdline}, nil
}

// Info is everything the kernel keeps from the boot-information block, copied
// out so nothing references bootloader memory after early boot. Optional
// records are nil when the loader did not emit them.
type Info struct {
	TotalSize      uint32
	CommandLine    string
	BootloaderName string
	BasicMem       *BasicMemInfo
	BootDev        *BootDevice
	MemoryMap      *MemoryMap
	Framebuffer    *Framebuffer
	Modules        []Module
}

func (i *Info) TotalMemoryKB() (uint32, bool) {
	if i.BasicMem == nil {
		return 0, false
	}
	return i.BasicMem.TotalKB(), true
}

// ParseInfo walks the stream once and collects the recognized records.
// Unknown kinds are skipped without error.
func ParseInfo(m mem.Memory, base uint64) (*Info, error) {
	r, err := NewTagReader(m, base)
	if err != nil {
		return nil, err
	}
	info := &Info{TotalSize: r.TotalSize()}
	for {
		tag, err := r.Next()
		if err != nil {
			return nil, err
		}
		if tag == nil {
			return info, nil
		}
		switch tag.Kind {
		case TagCommandLine:
			if info.CommandLine, err = tag.Text(); err != nil {
				return nil, err
			}
		case TagBootloaderName:
			if info.BootloaderName, err = tag.Text(); err != nil {
				return nil, err
			}
		case TagBasicMemInfo:
			if info.BasicMem, err = DecodeBasicMemInfo(tag); err != nil {
				return nil, err
			}
		case TagBootDevice:
			if info.BootDev, err = DecodeBootDevice(tag); err != nil {
				return nil, err
			}
		case TagMemoryMap:
			if info.MemoryMap, err = DecodeMemoryMap(tag); err != nil {
				return nil, err
			}
		case TagFramebuffer:
			if info.Framebuffer, err = DecodeFramebuffer(tag); err != nil {
				return nil, err
			}
		case TagModule:
			mod, err := DecodeModule(tag)
			if err != nil {
				return nil, err
			}
			info.Modules = append(info.Modules, *mod)
		}
	}
}
