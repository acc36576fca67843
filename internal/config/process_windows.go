//go:build windows

package config

import "os"

// processAlive is best effort on Windows: FindProcess succeeds for any PID
// that was valid at some point.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	_, err := os.FindProcess(pid)
	return err == nil
}
