// Package ports is the narrow port-I/O capability drivers hold instead of
// issuing in/out instructions inline. The boot-information and firmware-table
// parsers never touch it; it exists so hardware access has exactly one typed
// seam.
package ports

// IO reads and writes the x86 I/O address space at a given width.
type IO interface {
	In8(port uint16) uint8
	In16(port uint16) uint16
	In32(port uint16) uint32
	Out8(port uint16, v uint8)
	Out16(port uint16, v uint16)
	Out32(port uint16, v uint32)
}
