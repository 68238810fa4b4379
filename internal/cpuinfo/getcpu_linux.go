//go:build linux

package cpuinfo

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// CurrentCore returns the index of the execution unit the calling goroutine
// is currently scheduled on, or 0 when the query is unavailable.
//
// x/sys/unix carries only the raw SYS_GETCPU number, no wrapper, so the
// syscall is issued directly; the node argument is not requested.
func CurrentCore() int {
	var cpu uint32
	_, _, errno := unix.Syscall(unix.SYS_GETCPU, uintptr(unsafe.Pointer(&cpu)), 0, 0)
	if errno != 0 {
		return 0
	}
	return int(cpu)
}
