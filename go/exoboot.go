// Package exoboot sequences the earliest stage of kernel bring-up: validate
// the bootloader handoff, walk the boot-information stream, then attempt
// firmware-table discovery. It runs exactly once, single-threaded, before
// interrupts exist, and returns everything it learned as one explicit result
// instead of populating globals.
package exoboot

import (
	"github.com/pkg/errors"

	"github.com/darkfireeee/Exo-OS/go/acpi"
	"github.com/darkfireeee/Exo-OS/go/boot"
	"github.com/darkfireeee/Exo-OS/go/mem"
)

// BootFacts is what early boot hands the rest of kernel init. Firmware is nil
// when discovery reported unavailable; later subsystems then come up without
// ACPI-derived facts (no power management, no secondary processors) instead
// of halting.
type BootFacts struct {
	Info     *boot.Info
	Firmware *acpi.Discovery
}

// EarlyInit runs the boot-time parse chain. A bad handoff magic or a
// malformed information stream is a hard error; missing firmware tables are
// not.
func EarlyInit(m mem.Memory, h boot.Handoff) (*BootFacts, error) {
	if err := h.Check(); err != nil {
		return nil, err
	}
	info, err := boot.ParseInfo(m, h.InfoAddr)
	if err != nil {
		return nil, errors.Wrap(err, "parsing boot information")
	}
	facts := &BootFacts{Info: info}
	if d, err := acpi.Discover(m); err == nil {
		facts.Firmware = d
	} else if errors.Cause(err) != acpi.ErrUnavailable {
		return nil, err
	}
	return facts, nil
}
