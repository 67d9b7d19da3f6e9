package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureDriver records every frame handed to it.
type captureDriver struct {
	frames [][]byte
	closed bool
}

func (d *captureDriver) Write(rgb []byte) error {
	d.frames = append(d.frames, append([]byte{}, rgb...))
	return nil
}

func (d *captureDriver) Close() error {
	d.closed = true
	return nil
}

func TestPixelStripShowWritesFrame(t *testing.T) {
	drv := &captureDriver{}
	s, err := NewPixelStrip(drv, 3)
	require.NoError(t, err)

	s.SetPixel(0, Color{R: 0xFF})
	s.SetPixel(1, Color{G: 0x80})
	s.SetPixel(2, Color{B: 0x01})
	require.NoError(t, s.Show())

	require.Len(t, drv.frames, 1)
	assert.Equal(t, []byte{0xFF, 0, 0, 0, 0x80, 0, 0, 0, 0x01}, drv.frames[0])
}

func TestPixelStripBrightnessScaling(t *testing.T) {
	drv := &captureDriver{}
	s, err := NewPixelStrip(drv, 1)
	require.NoError(t, err)

	s.SetPixel(0, Color{R: 0xFF, G: 0x80, B: 0x02})
	s.SetBrightness(0x80)
	require.NoError(t, s.Show())

	frame := drv.frames[0]
	assert.Equal(t, byte(0x80), frame[0])
	assert.Equal(t, byte(0x40), frame[1])
	assert.Equal(t, byte(0x01), frame[2])

	// The raw buffer is untouched; full brightness restores the values.
	s.SetBrightness(0xFF)
	require.NoError(t, s.Show())
	assert.Equal(t, []byte{0xFF, 0x80, 0x02}, drv.frames[1])
}

func TestPixelStripIgnoresOutOfRange(t *testing.T) {
	drv := &captureDriver{}
	s, err := NewPixelStrip(drv, 2)
	require.NoError(t, err)

	s.SetPixel(-1, Color{R: 1})
	s.SetPixel(2, Color{R: 1})
	require.NoError(t, s.Show())
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, drv.frames[0])
}

func TestPixelStripFill(t *testing.T) {
	drv := &captureDriver{}
	s, err := NewPixelStrip(drv, 2)
	require.NoError(t, err)

	s.Fill(Color{R: 1, G: 2, B: 3})
	require.NoError(t, s.Show())
	assert.Equal(t, []byte{1, 2, 3, 1, 2, 3}, drv.frames[0])
}

func TestPixelStripClose(t *testing.T) {
	drv := &captureDriver{}
	s, err := NewPixelStrip(drv, 1)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.True(t, drv.closed)
	assert.Error(t, s.Show(), "show after close must fail")
	assert.NoError(t, s.Close(), "double close is fine")
}

func TestNewPixelStripRejectsBadCount(t *testing.T) {
	_, err := NewPixelStrip(&captureDriver{}, 0)
	assert.Error(t, err)
}
