package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/ledstrip/internal/app"
	"github.com/example/ledstrip/internal/config"
)

func main() {
	// ---- Flags (config.yaml can override most) ----
	var (
		count      = flag.Int("count", 300, "number of LEDs on the strip")
		fps        = flag.Int("fps", 60, "target frames per second")
		brightness = flag.Int("brightness", 255, "strip brightness 0-255")
		driver     = flag.String("driver", "spi", "driver: spi | pwm | sim")
		gpio       = flag.Int("gpio", 18, "PWM data pin (BCM number)")
		colorOrder = flag.String("color", "GRB", "LED color order (e.g. GRB, RGB)")
		startTheme = flag.String("theme", "rainbow", "theme to start with (or \"null\")")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		debug      = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// ---- Effective config (file overrides flags where set) ----
	cfg := &config.Config{
		Driver:     *driver,
		Count:      *count,
		FPS:        *fps,
		Brightness: *brightness,
		GPIO:       *gpio,
		ColorOrder: *colorOrder,
		StartTheme: *startTheme,
	}
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		merge(cfg, c)
	}
	if *simOnly {
		cfg.Driver = "sim"
	}

	core, err := app.Bootstrap(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}
	log.Info().
		Str("driver", cfg.Driver).
		Int("count", cfg.Count).
		Int("fps", cfg.FPS).
		Strs("themes", core.Reg.IDs()).
		Msg("LED service starting")

	core.Ctl.SetThemeID(cfg.StartTheme)

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	if err := core.Close(); err != nil {
		log.Warn().Err(err).Msg("shutdown was not clean")
	}
}

// merge copies set fields of file config over flag defaults.
func merge(dst, src *config.Config) {
	if src.Driver != "" {
		dst.Driver = src.Driver
	}
	if src.Count > 0 {
		dst.Count = src.Count
	}
	if src.FPS > 0 {
		dst.FPS = src.FPS
	}
	if src.Brightness > 0 {
		dst.Brightness = src.Brightness
	}
	if src.GPIO > 0 {
		dst.GPIO = src.GPIO
	}
	if src.ColorOrder != "" {
		dst.ColorOrder = src.ColorOrder
	}
	if src.StartTheme != "" {
		dst.StartTheme = src.StartTheme
	}
	if src.SPI.Dev != "" {
		dst.SPI.Dev = src.SPI.Dev
	}
	if src.SPI.SpeedHz > 0 {
		dst.SPI.SpeedHz = src.SPI.SpeedHz
	}
}
