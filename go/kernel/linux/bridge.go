package linux

import (
	"github.com/darkfireeee/Exo-OS/go/kernel/native"
)

// Bridge relays legacy fixed-arity syscalls into the native kernel. It holds
// no mutable state; one Bridge serves any number of concurrent trap handlers.
type Bridge struct {
	Native native.Kernel
}

func NewBridge(k native.Kernel) *Bridge {
	return &Bridge{Native: k}
}

// Syscall translates num and forwards the tuple. Sentinel-mapped and unknown
// operations return -ENOSYS deterministically, with no forwarding call and no
// side effects. Everything else is a lossless relay: the exact 7-tuple goes
// down, the native boundary's signed result comes back unchanged.
func (b *Bridge) Syscall(num int64, args [6]uint64) int64 {
	n, ok := Translate(num)
	if !ok || n == NoSyscall {
		return -ENOSYS
	}
	return b.Native.Syscall(n, args)
}

// SyscallCp is the cancellation-point entry. Interruption is not implemented
// anywhere in the surrounding kernel, so this is an exact alias of Syscall by
// contract: callers get identical observable behavior on both paths until a
// real cancellation mechanism exists end-to-end.
func (b *Bridge) SyscallCp(num int64, args [6]uint64) int64 {
	return b.Syscall(num, args)
}
