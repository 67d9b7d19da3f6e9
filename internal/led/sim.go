package led

import (
	"periph.io/x/extra/devices/screen"
)

// NewSim returns a driver that paints the strip as ANSI color blocks on the
// terminal. It has the same shape as the hardware drivers, so everything
// upstream is oblivious to running without a strip attached.
func NewSim(count int) Driver {
	return newDrawerDriver(screen.New(count), count, nil)
}
