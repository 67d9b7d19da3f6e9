// Package app wires configuration, driver, strip, themes, metrics and the
// render controller into one runnable core.
package app

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/example/ledstrip/internal/config"
	"github.com/example/ledstrip/internal/led"
	"github.com/example/ledstrip/internal/perf"
	"github.com/example/ledstrip/internal/render"
	"github.com/example/ledstrip/internal/theme"
	"github.com/example/ledstrip/internal/theme/scenes/rainbow"
	"github.com/example/ledstrip/internal/theme/scenes/solid"
	"github.com/example/ledstrip/internal/theme/scenes/twinkle"
)

type Core struct {
	Strip *led.PixelStrip
	Reg   *theme.Registry
	Ctl   *render.Controller
	Perf  *perf.Monitor
}

// selectDriver builds the configured driver, falling back to the console sim
// when hardware init fails.
func selectDriver(cfg *config.Config) led.Driver {
	switch cfg.Driver {
	case "spi":
		drv, err := led.NewSPI(cfg.SPI.Dev, cfg.Count, cfg.SPI.SpeedHz)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", cfg.SPI.Dev).
				Msg("SPI init failed; falling back to sim")
			return led.NewSim(cfg.Count)
		}
		return drv

	case "pwm":
		drv, err := led.NewPWM(cfg.GPIO, cfg.Count, cfg.ColorOrder)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "pwm").
				Int("gpio", cfg.GPIO).
				Msg("PWM init failed; falling back to sim")
			return led.NewSim(cfg.Count)
		}
		return drv

	case "sim", "":
		return led.NewSim(cfg.Count)

	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using sim")
		return led.NewSim(cfg.Count)
	}
}

// Registry returns the built-in theme set.
func Registry() *theme.Registry {
	reg := theme.NewRegistry()
	reg.Register(rainbow.New())
	reg.Register(twinkle.New())
	reg.Register(solid.New("breathe", led.Color{R: 0xFF, G: 0x80, B: 0x20}, 0.25))
	return reg
}

// Bootstrap builds the core from cfg and starts the render worker and the
// metrics sampler.
func Bootstrap(cfg *config.Config) (*Core, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", cfg.Count)
	}

	strip, err := led.NewPixelStrip(selectDriver(cfg), cfg.Count)
	if err != nil {
		return nil, err
	}
	if cfg.Brightness > 0 {
		strip.SetBrightness(uint8(min(cfg.Brightness, 0xFF)))
	}

	reg := Registry()

	mon := perf.NewMonitor()
	mon.Start()

	ctl := render.NewController(strip, reg, render.Options{
		FPS:  cfg.FPS,
		Perf: mon,
	})

	return &Core{Strip: strip, Reg: reg, Ctl: ctl, Perf: mon}, nil
}

// Close blacks out the strip and tears the core down in dependency order.
func (c *Core) Close() error {
	c.Ctl.Off()
	err := c.Ctl.Shutdown(render.DefaultShutdownTimeout)
	c.Perf.Stop()
	if cerr := c.Strip.Close(); err == nil {
		err = cerr
	}
	return err
}
