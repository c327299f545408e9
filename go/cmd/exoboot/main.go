package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"

	exoboot "github.com/darkfireeee/Exo-OS/go"
	"github.com/darkfireeee/Exo-OS/go/boot"
	"github.com/darkfireeee/Exo-OS/go/mem"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	if st, ok := err.(stackTracer); ok {
		for _, f := range st.StackTrace() {
			fmt.Fprintf(os.Stderr, "  %+v\n", f)
		}
	}
}

func dumpFacts(facts *exoboot.BootFacts, table string) {
	info := facts.Info
	fmt.Printf("boot information (%d bytes)\n", info.TotalSize)
	if info.CommandLine != "" {
		fmt.Printf("  command line:  %s\n", info.CommandLine)
	}
	if info.BootloaderName != "" {
		fmt.Printf("  loader:        %s\n", info.BootloaderName)
	}
	if total, ok := info.TotalMemoryKB(); ok {
		fmt.Printf("  basic memory:  %d KiB\n", total)
	}
	if info.Framebuffer != nil {
		fb := info.Framebuffer
		fmt.Printf("  framebuffer:   %dx%dx%d @ %#x\n", fb.Width, fb.Height, fb.Bpp, fb.Addr)
	}
	for _, mod := range info.Modules {
		fmt.Printf("  module:        %#x-%#x %s\n", mod.Start, mod.End, mod.Cmdline)
	}
	if info.MemoryMap != nil {
		fmt.Println("  memory map:")
		for _, e := range info.MemoryMap.Entries {
			fmt.Printf("    %#012x +%#010x %s\n", e.Base, e.Length, e.TypeString())
		}
	}

	if facts.Firmware == nil {
		fmt.Println("firmware tables: unavailable (degraded mode)")
		return
	}
	root := facts.Firmware.Root
	fmt.Printf("firmware tables: %s at %#x, rev %d, OEM %q\n",
		root.Form, root.Addr, facts.Firmware.RSDP.Revision, root.Header.OEM())
	fmt.Printf("  tables: %v\n", facts.Firmware.Signatures())
	if table != "" {
		tbl, err := facts.Firmware.FindTable(table)
		if err != nil {
			printError(err)
			return
		}
		h := tbl.Header
		fmt.Printf("  %s: %d bytes, rev %d, OEM %q\n", h.Sig(), h.Length, h.Revision, h.OEM())
	}
}

func main() {
	base := flag.Uint64("base", 0, "physical load address of the image")
	handoff := flag.Uint64("handoff", 0, "boot-information address (default: base)")
	magic := flag.Uint64("magic", boot.Magic, "handoff magic value")
	table := flag.String("table", "", "dump the firmware table with this 4-byte signature")
	flag.Usage = func() {
		fmt.Printf("Usage: %s [options] <memory image>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	image, err := ioutil.ReadFile(flag.Arg(0))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	m := mem.New(binary.LittleEndian)
	m.Map(*base, uint64(len(image)))
	if err := m.Write(*base, image); err != nil {
		printError(err)
		os.Exit(1)
	}

	infoAddr := *handoff
	if infoAddr == 0 {
		infoAddr = *base
	}
	facts, err := exoboot.EarlyInit(m, boot.Handoff{Magic: uint32(*magic), InfoAddr: infoAddr})
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	dumpFacts(facts, *table)
}
