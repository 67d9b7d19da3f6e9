// ledsoak runs every registered theme against a discard driver for a fixed
// duration, printing the performance summary once per second. Useful for
// profiling theme step cost without hardware attached.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/ledstrip/internal/app"
	"github.com/example/ledstrip/internal/led"
	"github.com/example/ledstrip/internal/perf"
	"github.com/example/ledstrip/internal/render"
	"github.com/example/ledstrip/internal/theme"
)

func main() {
	var (
		count = flag.Int("count", 300, "number of LEDs to simulate")
		fps   = flag.Int("fps", 60, "target frames per second")
		dur   = flag.Duration("dur", 10*time.Second, "soak duration per theme")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	strip, err := led.NewPixelStrip(led.Discard{}, *count)
	if err != nil {
		log.Fatal().Err(err).Msg("strip")
	}
	reg := app.Registry()

	mon := perf.NewMonitor()
	mon.Start()
	defer mon.Stop()

	ctl := render.NewController(strip, reg, render.Options{FPS: *fps, Perf: mon})

	for _, id := range reg.IDs() {
		if id == theme.NullID {
			continue
		}
		fmt.Printf("== soaking %s for %s\n", id, *dur)
		ctl.SetThemeID(id)

		deadline := time.Now().Add(*dur)
		for time.Now().Before(deadline) {
			time.Sleep(time.Second)
			printSummary(mon.Summary())
		}
		ctl.SetTheme(nil)
		time.Sleep(time.Second)
	}

	if err := ctl.Shutdown(0); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
}

func printSummary(s perf.Summary) {
	fmt.Printf("cpu: %5.1f%% | mem: %5.1f%% | led fps: %5.1f | frame: %5.2fms | threads: %d | goroutines: %d\n",
		s.CPUPercent, s.MemoryPercent, s.LEDFPS, s.LEDFrameTimeMS, s.ThreadCount, s.GoroutineCount)
}
