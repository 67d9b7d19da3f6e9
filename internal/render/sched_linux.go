//go:build linux

package render

import (
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// applySchedHints gives the render thread a mild priority boost and, on
// machines with enough cores, parks it away from core 0. Both are best
// effort; lacking permission is normal and only logged at debug.
func applySchedHints() {
	tid := unix.Gettid()
	if err := unix.Setpriority(unix.PRIO_PROCESS, tid, -5); err != nil {
		log.Debug().Err(err).Msg("render thread renice not permitted")
	}
	if runtime.NumCPU() >= 4 {
		var set unix.CPUSet
		set.Zero()
		set.Set(2)
		set.Set(3)
		if err := unix.SchedSetaffinity(0, &set); err != nil {
			log.Debug().Err(err).Msg("render thread affinity not permitted")
		}
	}
}
