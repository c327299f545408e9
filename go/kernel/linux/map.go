package linux

import (
	"github.com/darkfireeee/Exo-OS/go/kernel/native"
)

// NoSyscall is the mapping sentinel for legacy operations with no native
// concept. The bridge answers them with -ENOSYS and forwards nothing.
const NoSyscall = -1

// syscallMap is the legacy → native operation table. It is built once and
// never mutated, which is what makes concurrent bridge invocations safe
// without any locking.
var syscallMap = map[int64]int64{
	SysRead:  native.SysRead,
	SysWrite: native.SysWrite,
	SysOpen:  native.SysOpen,
	SysClose: native.SysClose,
	SysLseek: native.SysLseek,

	SysMmap:     native.SysMmap,
	SysMunmap:   native.SysMunmap,
	SysMprotect: native.SysMprotect,
	SysBrk:      native.SysBrk,

	SysGetpid: native.SysGetpid,
	SysGettid: native.SysGettid,
	SysExit:   native.SysExit,

	SysFork:   native.SysFork,
	SysExecve: native.SysExecve,
	SysWait4:  native.SysWait4,

	SysClockGettime: native.SysClockGettime,
	SysNanosleep:    native.SysNanosleep,

	// no native equivalent: clone's flag semantics, the vfork optimization
	// and ptrace attachment have no counterpart operations
	SysClone:  NoSyscall,
	SysVfork:  NoSyscall,
	SysPtrace: NoSyscall,
}

// Translate resolves a legacy number. ok is false for numbers outside the
// table entirely; a true ok with NoSyscall means "known but unsupported".
func Translate(num int64) (int64, bool) {
	n, ok := syscallMap[num]
	return n, ok
}
