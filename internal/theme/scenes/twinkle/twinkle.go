// Package twinkle lights random pixels and lets them fade back out.
package twinkle

import (
	"context"
	"math/rand"

	"github.com/example/ledstrip/internal/led"
	"github.com/example/ledstrip/internal/theme"
)

type Twinkle struct {
	id      string
	density float64 // spawn probability per pixel per frame
	decay   float64 // brightness retained per frame

	ctx   context.Context
	strip led.Strip
	rng   *rand.Rand
	level []float64
}

func New() *Twinkle {
	return &Twinkle{id: "twinkle", density: 0.01, decay: 0.92}
}

func (w *Twinkle) ID() string { return w.id }

func (w *Twinkle) Init(ctx context.Context, strip led.Strip) error {
	w.ctx = ctx
	w.strip = strip
	w.rng = rand.New(rand.NewSource(rand.Int63()))
	w.level = make([]float64, strip.Len())
	return nil
}

func (w *Twinkle) Step() theme.Outcome {
	if w.ctx.Err() != nil {
		return theme.Stop("interrupted")
	}
	for i := range w.level {
		w.level[i] *= w.decay
		if w.rng.Float64() < w.density {
			w.level[i] = 1
		}
		v := byte(255 * w.level[i])
		w.strip.SetPixel(i, led.Color{R: v, G: v, B: v})
	}
	if err := w.strip.Show(); err != nil {
		return theme.Stop(err.Error())
	}
	return theme.Continue
}
