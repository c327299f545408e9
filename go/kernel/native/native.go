// Package native defines the kernel's own operation numbering and the single
// entry point every ABI bridge forwards into. The numbers are a frozen wire
// contract with user space; they are grouped by category and never reused.
package native

// Process management
const (
	SysExit   = 1
	SysSpawn  = 2
	SysGetpid = 3
	SysGettid = 4
)

// I/O
const (
	SysOpen  = 10
	SysClose = 11
	SysRead  = 12
	SysWrite = 13
	SysLseek = 14
)

// Memory management
const (
	SysMmap     = 20
	SysMunmap   = 21
	SysMprotect = 22
	SysBrk      = 23
)

// Inter-process messaging
const (
	SysSendMsg = 30
	SysRecvMsg = 31
)

// Time
const (
	SysClockGettime = 40
	SysNanosleep    = 41
)

// Process control, legacy path
const (
	SysFork   = 50
	SysExecve = 51
	SysWait4  = 52
)

// Kernel is the native execution boundary: one operation number, six argument
// words in, one signed result out. Negative results encode failure. All
// blocking and mutual exclusion for the operation live behind this interface,
// never in front of it.
type Kernel interface {
	Syscall(num int64, args [6]uint64) int64
}
