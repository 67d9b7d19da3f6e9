//go:build !linux

package render

// Scheduling hints are linux-only; elsewhere the locked OS thread is all we
// get.
func applySchedHints() {}
