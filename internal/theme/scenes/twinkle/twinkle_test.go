package twinkle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ledstrip/internal/led"
)

type memStrip struct {
	pixels []led.Color
	shows  int
}

func (s *memStrip) Len() int { return len(s.pixels) }
func (s *memStrip) SetPixel(i int, c led.Color) {
	if i >= 0 && i < len(s.pixels) {
		s.pixels[i] = c
	}
}
func (s *memStrip) Fill(c led.Color) {
	for i := range s.pixels {
		s.pixels[i] = c
	}
}
func (s *memStrip) SetBrightness(uint8) {}
func (s *memStrip) Show() error {
	s.shows++
	return nil
}

func TestTwinkleSparklesAndDecays(t *testing.T) {
	strip := &memStrip{pixels: make([]led.Color, 200)}
	w := New()
	require.NoError(t, w.Init(context.Background(), strip))

	lit := 0
	for i := 0; i < 30; i++ {
		out := w.Step()
		require.False(t, out.Stop)
	}
	for _, c := range strip.pixels {
		if c.R > 0 {
			lit++
		}
	}
	assert.Greater(t, lit, 0, "no pixel ever sparked over 30 frames")
	assert.Less(t, lit, len(strip.pixels), "every pixel lit; decay not working")
	assert.Equal(t, 30, strip.shows)
}

func TestTwinkleStopsWhenInterrupted(t *testing.T) {
	strip := &memStrip{pixels: make([]led.Color, 10)}
	w := New()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Init(ctx, strip))
	cancel()
	assert.True(t, w.Step().Stop)
}
