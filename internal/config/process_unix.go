//go:build !windows

package config

import "syscall"

// processAlive reports whether pid names a running process. Signal 0
// probes for existence without delivering anything.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}
