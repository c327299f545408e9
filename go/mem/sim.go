package mem

import (
	"fmt"
	"sort"
)

// MemError reports an access touching unbacked physical memory.
type MemError struct {
	Addr uint64
	Size int
}

func (e *MemError) Error() string {
	return fmt.Sprintf("unbacked physical access at %#x(%d)", e.Addr, e.Size)
}

// Sim is a sparse physical-memory image: an ordered list of backed regions
// with every access checked against them. It stands in for the identity-mapped
// physical window a real kernel would read through, and is what the tests use
// to build synthetic firmware/boot images.
type Sim struct {
	Regions Regions
}

// RangeValid reports whether [addr, addr+size) is fully backed.
func (s *Sim) RangeValid(addr, size uint64) bool {
	first := s.Regions.bsearch(addr)
	if first == -1 {
		return false
	}
	end := addr + size
	for _, r := range s.Regions[first:] {
		if !r.Contains(addr) {
			break
		}
		addr = r.Addr + r.Size
		if addr >= end {
			break
		}
	}
	return addr >= end
}

// Map backs [addr, addr+size). If zero is false, contents of any overlapping
// existing regions are carried into the new backing, even when they only
// partially cover the range. Overlaps are then replaced and the region list
// re-sorted so reads can binary search.
func (s *Sim) Map(addr, size uint64, zero bool) *Region {
	data := make([]byte, size)
	if !zero {
		for _, r := range s.Regions {
			if oaddr, osize, ok := r.Intersect(addr, size); ok {
				copy(data[oaddr-addr:oaddr-addr+osize], r.Data[oaddr-r.Addr:])
			}
		}
	}
	s.Unmap(addr, size)
	r := &Region{Addr: addr, Size: size, Data: data}
	s.Regions = append(s.Regions, r)
	sort.Sort(s.Regions)
	return r
}

func (s *Sim) Unmap(addr, size uint64) {
	tmp := make(Regions, 0, len(s.Regions))
	for _, r := range s.Regions {
		if oaddr, osize, ok := r.Intersect(addr, size); ok {
			left, right := r.Split(oaddr, osize)
			if left != nil {
				tmp = append(tmp, left)
			}
			if right != nil {
				tmp = append(tmp, right)
			}
		} else {
			tmp = append(tmp, r)
		}
	}
	s.Regions = tmp
}

// Read fills p from addr. The whole range must be backed; a partial read
// would silently hand the parsers bytes that were never there.
func (s *Sim) Read(addr uint64, p []byte) error {
	if !s.RangeValid(addr, uint64(len(p))) {
		return &MemError{Addr: addr, Size: len(p)}
	}
	i := s.Regions.bsearch(addr)
	for _, r := range s.Regions[i:] {
		if !r.Contains(addr) {
			break
		}
		o := addr - r.Addr
		n := copy(p, r.Data[o:])
		addr, p = addr+uint64(n), p[n:]
		if len(p) == 0 {
			break
		}
	}
	return nil
}

func (s *Sim) Write(addr uint64, p []byte) error {
	if !s.RangeValid(addr, uint64(len(p))) {
		return &MemError{Addr: addr, Size: len(p)}
	}
	i := s.Regions.bsearch(addr)
	for _, r := range s.Regions[i:] {
		if !r.Contains(addr) {
			break
		}
		o := addr - r.Addr
		n := copy(r.Data[o:], p)
		addr, p = addr+uint64(n), p[n:]
		if len(p) == 0 {
			break
		}
	}
	return nil
}
