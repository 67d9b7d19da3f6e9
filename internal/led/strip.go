package led

import (
	"fmt"
	"sync"
)

// Color is a single RGB pixel value.
type Color struct {
	R, G, B uint8
}

// Strip is the pixel sink themes draw into. A Strip buffers pixel writes and
// only touches the transport on Show.
type Strip interface {
	Len() int
	SetPixel(i int, c Color)
	Fill(c Color)
	SetBrightness(b uint8)
	Show() error
}

// PixelStrip implements Strip over a frame Driver. Pixel writes land in an
// internal buffer; Show applies the strip-level brightness and hands the
// scaled frame to the driver.
//
// Brightness is a sink-level property: updating it is safe at any time, even
// while a render worker owns the pixel content.
type PixelStrip struct {
	mu         sync.Mutex
	drv        Driver
	buf        []byte // raw RGB as written by themes
	out        []byte // brightness-scaled frame handed to the driver
	brightness uint8
}

// NewPixelStrip returns a strip of count pixels backed by drv.
func NewPixelStrip(drv Driver, count int) (*PixelStrip, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	return &PixelStrip{
		drv:        drv,
		buf:        make([]byte, count*3),
		out:        make([]byte, count*3),
		brightness: 0xFF,
	}, nil
}

func (s *PixelStrip) Len() int { return len(s.buf) / 3 }

// SetPixel sets pixel i. Out-of-range indices are dropped; a correct theme
// never produces them.
func (s *PixelStrip) SetPixel(i int, c Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i*3+2 >= len(s.buf) {
		return
	}
	s.buf[i*3+0] = c.R
	s.buf[i*3+1] = c.G
	s.buf[i*3+2] = c.B
}

// Fill sets every pixel to c.
func (s *PixelStrip) Fill(c Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i*3+2 < len(s.buf); i++ {
		s.buf[i*3+0] = c.R
		s.buf[i*3+1] = c.G
		s.buf[i*3+2] = c.B
	}
}

func (s *PixelStrip) SetBrightness(b uint8) {
	s.mu.Lock()
	s.brightness = b
	s.mu.Unlock()
}

func (s *PixelStrip) Brightness() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brightness
}

// Show scales the buffered frame by brightness and writes it out.
func (s *PixelStrip) Show() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv == nil {
		return fmt.Errorf("strip has no driver")
	}
	b := uint16(s.brightness)
	for i := range s.buf {
		s.out[i] = byte(uint16(s.buf[i]) * b / 0xFF)
	}
	return s.drv.Write(s.out)
}

// Close releases the underlying driver.
func (s *PixelStrip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv == nil {
		return nil
	}
	err := s.drv.Close()
	s.drv = nil
	return err
}
