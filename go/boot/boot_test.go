package boot

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"

	"github.com/darkfireeee/Exo-OS/go/mem"
)

const testBase = 0x9000

// streamBuilder assembles a synthetic boot-information block.
type streamBuilder struct {
	buf bytes.Buffer
}

func (b *streamBuilder) tag(kind uint32, payload []byte) {
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:], kind)
	binary.LittleEndian.PutUint32(hdr[4:], uint32(8+len(payload)))
	b.buf.Write(hdr[:])
	b.buf.Write(payload)
	for b.buf.Len()%8 != 0 {
		b.buf.WriteByte(0)
	}
}

func (b *streamBuilder) end() {
	b.tag(TagEnd, nil)
}

// image produces the full block: total_size, reserved, then the stream.
// declared overrides the computed total size when >= 0.
func (b *streamBuilder) image(declared int) []byte {
	total := b.buf.Len() + 8
	if declared >= 0 {
		total = declared
	}
	out := make([]byte, 8, 8+b.buf.Len())
	binary.LittleEndian.PutUint32(out[0:], uint32(total))
	return append(out, b.buf.Bytes()...)
}

// load maps exactly the image bytes, so any parser access past the block
// surfaces as an unbacked-memory error rather than passing silently.
func load(t *testing.T, image []byte) *mem.Mem {
	m := mem.New(binary.LittleEndian)
	m.Map(testBase, uint64(len(image)))
	if err := m.Write(testBase, image); err != nil {
		t.Fatal(err)
	}
	return m
}

func u32s(vals ...uint32) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, vals)
	return buf.Bytes()
}

func TestHandoffCheck(t *testing.T) {
	if err := (Handoff{Magic: Magic, InfoAddr: testBase}).Check(); err != nil {
		t.Fatal(err)
	}
	err := (Handoff{Magic: 0x2badb002, InfoAddr: testBase}).Check()
	if errors.Cause(err) != ErrBadMagic {
		t.Fatalf("wrong error for bad magic: %v", err)
	}
	if err := (Handoff{Magic: Magic}).Check(); errors.Cause(err) != ErrBadMagic {
		t.Fatalf("wrong error for null address: %v", err)
	}
}

func TestTagEnumeration(t *testing.T) {
	var b streamBuilder
	b.tag(TagCommandLine, []byte("root=/dev/ram0 quiet\x00"))
	b.tag(TagBootloaderName, []byte("GRUB 2.06\x00"))
	b.tag(99, []byte{1, 2, 3}) // unknown kind, must pass through
	b.tag(TagBasicMemInfo, u32s(640, 130048))
	b.end()
	m := load(t, b.image(-1))

	r, err := NewTagReader(m, testBase)
	if err != nil {
		t.Fatal(err)
	}
	var kinds []uint32
	for {
		tag, err := r.Next()
		if err != nil {
			t.Fatal(err)
		}
		if tag == nil {
			break
		}
		kinds = append(kinds, tag.Kind)
	}
	want := []uint32{TagCommandLine, TagBootloaderName, 99, TagBasicMemInfo}
	if len(kinds) != len(want) {
		t.Fatalf("enumerated %d records, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("record %d has kind %d, want %d", i, kinds[i], want[i])
		}
	}

	// restartable from the base
	r.Reset()
	if tag, err := r.Next(); err != nil || tag == nil || tag.Kind != TagCommandLine {
		t.Fatalf("after Reset: %v, %v", tag, err)
	}
}

func TestTagTruncatedStream(t *testing.T) {
	// last record's declared length extends past total_size, no end record
	var b streamBuilder
	b.tag(TagCommandLine, []byte("ok\x00"))
	image := b.image(-1)
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:], TagMemoryMap)
	binary.LittleEndian.PutUint32(hdr[4:], 0x200) // reaches far past the block
	image = append(image, hdr[:]...)
	binary.LittleEndian.PutUint32(image[0:], uint32(len(image)))
	m := load(t, image)

	r, err := NewTagReader(m, testBase)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = r.Next(); err != nil {
		t.Fatal(err)
	}
	if _, err = r.Next(); errors.Cause(err) != ErrTruncated {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
}

func TestTagBoundWithoutEnd(t *testing.T) {
	// stream runs out of declared space cleanly but never emits the end record
	var b streamBuilder
	b.tag(TagCommandLine, []byte("ok\x00"))
	m := load(t, b.image(-1))

	r, err := NewTagReader(m, testBase)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = r.Next(); err != nil {
		t.Fatal(err)
	}
	if _, err = r.Next(); errors.Cause(err) != ErrTruncated {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
}

func TestTagUndersizedRecord(t *testing.T) {
	var b streamBuilder
	b.end()
	image := b.image(-1)
	// corrupt the end record to declare a size smaller than its own header
	binary.LittleEndian.PutUint32(image[12:], 4)
	m := load(t, image)

	r, err := NewTagReader(m, testBase)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = r.Next(); errors.Cause(err) != ErrTruncated {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
}

func TestUnalignedBase(t *testing.T) {
	m := mem.New(binary.LittleEndian)
	m.Map(0x9000, 0x100)
	if _, err := NewTagReader(m, 0x9004); errors.Cause(err) != ErrTruncated {
		t.Fatal("accepted unaligned boot-information base")
	}
}

func TestParseInfo(t *testing.T) {
	mmap := u32s(24, 0) // entry_size, entry_version
	var ents bytes.Buffer
	binary.Write(&ents, binary.LittleEndian, []MemoryMapEntry{
		{Base: 0, Length: 0x9fc00, Type: MemAvailable},
		{Base: 0x9fc00, Length: 0x400, Type: MemReserved},
		{Base: 0x100000, Length: 0x7ee0000, Type: MemAvailable},
	})
	mmap = append(mmap, ents.Bytes()...)

	fb := make([]byte, 24)
	binary.LittleEndian.PutUint64(fb[0:], 0xfd000000)
	binary.LittleEndian.PutUint32(fb[8:], 4096)
	binary.LittleEndian.PutUint32(fb[12:], 1024)
	binary.LittleEndian.PutUint32(fb[16:], 768)
	fb[20] = 32 // bpp
	fb[21] = 1  // direct RGB

	var b streamBuilder
	b.tag(TagCommandLine, []byte("root=/dev/ram0\x00"))
	b.tag(TagBootloaderName, []byte("GRUB 2.06\x00"))
	b.tag(TagBasicMemInfo, u32s(640, 130048))
	b.tag(TagBootDevice, u32s(0x80, 0, 0xffffffff))
	b.tag(TagMemoryMap, mmap)
	b.tag(TagModule, append(u32s(0x200000, 0x300000), []byte("initrd\x00")...))
	b.tag(TagFramebuffer, fb)
	b.end()
	m := load(t, b.image(-1))

	info, err := ParseInfo(m, testBase)
	if err != nil {
		t.Fatal(err)
	}
	if info.CommandLine != "root=/dev/ram0" {
		t.Fatalf("CommandLine = %q", info.CommandLine)
	}
	if info.BootloaderName != "GRUB 2.06" {
		t.Fatalf("BootloaderName = %q", info.BootloaderName)
	}
	if total, ok := info.TotalMemoryKB(); !ok || total != 640+130048 {
		t.Fatalf("TotalMemoryKB = %d, %v", total, ok)
	}
	if info.BootDev == nil || info.BootDev.BiosDev != 0x80 {
		t.Fatalf("BootDev = %+v", info.BootDev)
	}
	if info.MemoryMap == nil || len(info.MemoryMap.Entries) != 3 {
		t.Fatalf("MemoryMap = %+v", info.MemoryMap)
	}
	e := info.MemoryMap.Entries[2]
	if e.Base != 0x100000 || e.Length != 0x7ee0000 || !e.Available() {
		t.Fatalf("entry 2 = %+v", e)
	}
	if len(info.Modules) != 1 || info.Modules[0].Cmdline != "initrd" || info.Modules[0].End != 0x300000 {
		t.Fatalf("Modules = %+v", info.Modules)
	}
	if info.Framebuffer == nil || info.Framebuffer.Width != 1024 || info.Framebuffer.Bpp != 32 {
		t.Fatalf("Framebuffer = %+v", info.Framebuffer)
	}
}

func TestMemoryMapBadEntrySize(t *testing.T) {
	var b streamBuilder
	b.tag(TagMemoryMap, u32s(8, 0)) // stride smaller than the entry layout
	b.end()
	m := load(t, b.image(-1))
	info, err := ParseInfo(m, testBase)
	if errors.Cause(err) != ErrTruncated {
		t.Fatalf("want ErrTruncated, got %v (info %+v)", err, info)
	}
}
