package mem

import (
	"bytes"
	"encoding/binary"
	"testing"
)

var asdf = []byte("asdf")

// table of overlap tests for an 0x1100-0x1200 region
// {start, end, should_error}
var overlapTable = [][]uint64{
	{0x1000, 0x1100, 0},
	{0x1000, 0x1050, 0},
	{0x1000, 0x1200, 1},
	{0x1000, 0x1250, 1},
	{0x1100, 0x1150, 1},
	{0x1100, 0x1200, 1},
	{0x1100, 0x1250, 1},
	{0x1150, 0x1200, 1},
	{0x1150, 0x1250, 1},
	{0x1200, 0x1250, 0},
}

func TestRegionOverlap(t *testing.T) {
	r := &Region{Addr: 0x1100, Size: 0x100}
	for _, row := range overlapTable {
		start, end, want := row[0], row[1], row[2] == 1
		if got := r.Overlaps(start, end-start); got != want {
			t.Errorf("Overlaps(%#x, %#x) = %v, want %v", start, end, got, want)
		}
	}
}

func TestRegionFind(t *testing.T) {
	regions := Regions{
		&Region{Addr: 0x1000, Size: 0x1000},
		&Region{Addr: 0x2000, Size: 0x1000},
		&Region{Addr: 0x4000, Size: 0x2000},
		&Region{Addr: 0x6000, Size: 0x2000},
	}
	if regions.Find(0x1000) != regions[0] ||
		regions.Find(0x1001) != regions[0] ||
		regions.Find(0x1fff) != regions[0] {
		t.Error("Find() failed")
	}
	if regions.Find(0x3000) != nil {
		t.Error("Find() matched a hole")
	}
	if regions.Find(0x8000) != nil {
		t.Error("Find() matched past the end")
	}
}

func TestSimBounds(t *testing.T) {
	s := &Sim{}
	s.Map(0x1000, 0x1000, true)
	if err := s.Write(0, asdf); err == nil {
		t.Error("write succeeded below backed memory")
	}
	if err := s.Write(0x2000, asdf); err == nil {
		t.Error("write succeeded above backed memory")
	}
	if err := s.Write(0x1ffe, asdf); err == nil {
		t.Error("write succeeded across the backed boundary")
	}
	if err := s.Write(0x1000, asdf); err != nil {
		t.Error("write failed inside backed memory:", err)
	}
}

func TestSimReadWrite(t *testing.T) {
	s := &Sim{}
	for _, base := range []uint64{0x1000, 0x2000, 0x3000} {
		s.Map(base, 0x1000, true)
		if err := s.Write(base, asdf); err != nil {
			t.Fatalf("write failed at %#x: %v", base, err)
		}
	}
	for _, base := range []uint64{0x1000, 0x2000, 0x3000} {
		p := make([]byte, len(asdf))
		if err := s.Read(base, p); err != nil {
			t.Fatalf("read failed at %#x: %v", base, err)
		}
		if !bytes.Equal(p, asdf) {
			t.Fatalf("read returned bad value at %#x", base)
		}
	}
	// adjacent regions read as one range
	p := make([]byte, 0x2000)
	if err := s.Read(0x1000, p); err != nil {
		t.Fatal("contiguous read across regions failed:", err)
	}
}

func TestSimRemap(t *testing.T) {
	s := &Sim{}
	s.Map(0x1000, 0x1000, true)
	if err := s.Write(0x1800, asdf); err != nil {
		t.Fatal(err)
	}
	// remap without zeroing should preserve contents
	s.Map(0x1000, 0x2000, false)
	p := make([]byte, len(asdf))
	if err := s.Read(0x1800, p); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p, asdf) {
		t.Fatal("remap lost existing data")
	}
}

func TestMemUint(t *testing.T) {
	m := New(binary.LittleEndian)
	m.Map(0x1000, 0x100)
	if err := m.WriteUint(0x1000, 4, 0xdeadbeef); err != nil {
		t.Fatal(err)
	}
	v, err := m.ReadUint(0x1000, 4)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xdeadbeef {
		t.Fatalf("ReadUint = %#x", v)
	}
	if _, err := m.ReadUint(0x10fd, 4); err == nil {
		t.Fatal("ReadUint succeeded across the backed boundary")
	}
}

func BenchmarkSimMap(b *testing.B) {
	s := &Sim{}
	for i := 0; i < b.N; i++ {
		addr := uint64(i*0x1000) & 0xffffffff
		s.Map(addr, 0x1000, true)
	}
}

func BenchmarkSimRead(b *testing.B) {
	s := &Sim{}
	s.Map(0x1000, 0x100000, true)
	p := make([]byte, 4)
	for i := 0; i < b.N; i++ {
		s.Read(0x1000+uint64(i*4)&0xffffc, p)
	}
}
