// Package solid fills the strip with a single color, with an optional pulse.
package solid

import (
	"context"
	"math"
	"time"

	"github.com/example/ledstrip/internal/led"
	"github.com/example/ledstrip/internal/theme"
)

type Solid struct {
	id      string
	c       led.Color
	pulseHz float64 // 0 disables the pulse

	ctx   context.Context
	strip led.Strip
	start time.Time
}

func New(id string, c led.Color, pulseHz float64) *Solid {
	return &Solid{id: id, c: c, pulseHz: pulseHz}
}

func (s *Solid) ID() string { return s.id }

func (s *Solid) Init(ctx context.Context, strip led.Strip) error {
	s.ctx = ctx
	s.strip = strip
	s.start = time.Now()
	return nil
}

func (s *Solid) Step() theme.Outcome {
	if s.ctx.Err() != nil {
		return theme.Stop("interrupted")
	}
	scale := 1.0
	if s.pulseHz > 0 {
		t := time.Since(s.start).Seconds()
		scale = 0.5 + 0.5*math.Sin(2*math.Pi*s.pulseHz*t)
	}
	c := led.Color{
		R: byte(float64(s.c.R) * scale),
		G: byte(float64(s.c.G) * scale),
		B: byte(float64(s.c.B) * scale),
	}
	s.strip.Fill(c)
	if err := s.strip.Show(); err != nil {
		return theme.Stop(err.Error())
	}
	return theme.Continue
}
