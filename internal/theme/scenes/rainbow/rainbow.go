// Package rainbow cycles a color wheel along the strip.
package rainbow

import (
	"context"
	"math"
	"time"

	"github.com/example/ledstrip/internal/led"
	"github.com/example/ledstrip/internal/theme"
)

type Rainbow struct {
	id    string
	speed float64 // wheel revolutions per second

	ctx   context.Context
	strip led.Strip
	start time.Time
}

func New() *Rainbow { return &Rainbow{id: "rainbow", speed: 0.2} }

func (r *Rainbow) ID() string { return r.id }

func (r *Rainbow) Init(ctx context.Context, strip led.Strip) error {
	r.ctx = ctx
	r.strip = strip
	r.start = time.Now()
	return nil
}

func (r *Rainbow) Step() theme.Outcome {
	t := time.Since(r.start).Seconds()
	n := r.strip.Len()
	for i := 0; i < n; i++ {
		if i%64 == 0 && r.ctx.Err() != nil {
			return theme.Stop("interrupted")
		}
		h := math.Mod(float64(i)/float64(n)+t*r.speed, 1.0)
		r.strip.SetPixel(i, wheel(h))
	}
	if err := r.strip.Show(); err != nil {
		return theme.Stop(err.Error())
	}
	return theme.Continue
}

// wheel maps h in [0,1) onto the RGB color wheel.
func wheel(h float64) led.Color {
	h *= 6
	switch {
	case h < 1:
		return led.Color{R: 255, G: byte(255 * h)}
	case h < 2:
		return led.Color{R: byte(255 * (2 - h)), G: 255}
	case h < 3:
		return led.Color{G: 255, B: byte(255 * (h - 2))}
	case h < 4:
		return led.Color{G: byte(255 * (4 - h)), B: 255}
	case h < 5:
		return led.Color{R: byte(255 * (h - 4)), B: 255}
	default:
		return led.Color{R: 255, B: byte(255 * (6 - h))}
	}
}
