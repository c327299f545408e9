// Package boot decodes the boot-information block handed to the kernel by a
// multiboot2 bootloader. The block is bootloader-owned memory described by a
// tagged record stream; everything in it is treated as untrusted input and
// read through bounds-checked cursors, never by overlaying structures.
package boot

import (
	"github.com/pkg/errors"
)

// Magic is the register value a multiboot2 loader leaves behind at kernel
// entry. If it does not match, none of the handoff data can be trusted.
const Magic = 0x36d76289

var (
	ErrBadMagic  = errors.New("boot protocol mismatch: bad multiboot2 magic")
	ErrTruncated = errors.New("malformed boot-information stream")
)

// Tag kinds defined by the multiboot2 protocol. Kinds not listed here are
// legal and skipped; the protocol lets loaders emit records the kernel has
// never heard of.
const (
	TagEnd            = 0
	TagCommandLine    = 1
	TagBootloaderName = 2
	TagModule         = 3
	TagBasicMemInfo   = 4
	TagBootDevice     = 5
	TagMemoryMap      = 6
	TagVBEInfo        = 7
	TagFramebuffer    = 8
	TagELFSections    = 9
	TagAPMTable       = 10
	TagEFI32          = 11
	TagEFI64          = 12
	TagSMBIOS         = 13
	TagACPIOld        = 14
	TagACPINew        = 15
	TagNetwork        = 16
	TagEFIMemoryMap   = 17
	TagEFIBs          = 18
	TagEFI32Handle    = 19
	TagEFI64Handle    = 20
	TagLoadBaseAddr   = 21
)

// Handoff is the bootloader's register-level handoff: the magic value and the
// physical address of the boot-information block. It is produced once, before
// kernel entry, and never mutated.
type Handoff struct {
	Magic    uint32
	InfoAddr uint64
}

// Check validates the protocol magic. This gate runs before any parsing; a
// mismatch is fatal to bring-up and the caller must not touch InfoAddr.
func (h Handoff) Check() error {
	if h.Magic != Magic {
		return errors.Wrapf(ErrBadMagic, "got %#x, want %#x", h.Magic, uint32(Magic))
	}
	if h.InfoAddr == 0 {
		return errors.Wrap(ErrBadMagic, "null boot-information address")
	}
	return nil
}
