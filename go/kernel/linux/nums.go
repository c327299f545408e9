// Package linux bridges the Linux x86_64 syscall ABI onto the native kernel
// boundary, so an unmodified libc can issue requests against this kernel.
// The bridge is a pure numeric relay: it translates the operation number,
// forwards the argument tuple untouched, and returns the signed result
// untouched. It never inspects arguments and never blocks.
package linux

// Legacy Linux x86_64 syscall numbers the bridge understands. The values are
// the Linux ABI's, not ours, and include only the calls the mapping table
// covers; everything else is answered with -ENOSYS.
const (
	SysRead         = 0
	SysWrite        = 1
	SysOpen         = 2
	SysClose        = 3
	SysLseek        = 8
	SysMmap         = 9
	SysMprotect     = 10
	SysMunmap       = 11
	SysBrk          = 12
	SysNanosleep    = 35
	SysGetpid       = 39
	SysClone        = 56
	SysFork         = 57
	SysVfork        = 58
	SysExecve       = 59
	SysExit         = 60
	SysWait4        = 61
	SysPtrace       = 101
	SysGettid       = 186
	SysClockGettime = 228
)

// ENOSYS is the Linux "function not implemented" errno; unsupported and
// unknown operations return -ENOSYS.
const ENOSYS = 38
