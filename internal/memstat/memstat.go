// Package memstat reports how much memory the Go runtime obtained from the
// operating system during a run.
package memstat

import "runtime"

// Sample returns the total bytes of memory obtained from the OS.
func Sample() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Sys
}

// DeltaKB converts the growth between two samples into whole KiB.
// A shrinking footprint reports zero.
func DeltaKB(before, after uint64) uint64 {
	if after <= before {
		return 0
	}
	return (after - before) / 1024
}
