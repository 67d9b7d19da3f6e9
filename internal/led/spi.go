package led

import (
	"fmt"
	"image"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

var hostOnce sync.Once

func initHost() (err error) {
	hostOnce.Do(func() {
		_, err = host.Init()
	})
	return err
}

// drawerDriver adapts a periph display.Drawer to the frame Driver interface.
type drawerDriver struct {
	mu    sync.Mutex
	d     display.Drawer
	img   *image.NRGBA
	extra func() error // additional cleanup after Halt
}

func newDrawerDriver(d display.Drawer, count int, extra func() error) *drawerDriver {
	return &drawerDriver{
		d:     d,
		img:   image.NewNRGBA(image.Rect(0, 0, count, 1)),
		extra: extra,
	}
}

func (v *drawerDriver) Write(rgb []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.d == nil {
		return fmt.Errorf("driver closed")
	}
	n := v.img.Rect.Dx()
	if len(rgb) != n*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), n)
	}
	for i := 0; i < n; i++ {
		o := v.img.PixOffset(i, 0)
		v.img.Pix[o+0] = rgb[i*3+0]
		v.img.Pix[o+1] = rgb[i*3+1]
		v.img.Pix[o+2] = rgb[i*3+2]
		v.img.Pix[o+3] = 0xFF
	}
	return v.d.Draw(v.d.Bounds(), v.img, image.Point{})
}

func (v *drawerDriver) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.d == nil {
		return nil
	}
	err := v.d.Halt()
	v.d = nil
	if v.extra != nil {
		if cerr := v.extra(); err == nil {
			err = cerr
		}
	}
	return err
}

// NewSPI opens an SPI port (e.g. "/dev/spidev0.0"; "" picks the first one)
// and drives a WS2812-style strip through the nrzled encoder. speedHz around
// 2.4-3.2 MHz works for the usual 800 kHz strips; 0 picks a sane default.
func NewSPI(dev string, count int, speedHz int) (Driver, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if speedHz <= 0 {
		speedHz = 2500000
	}
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	port, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi port: %w", err)
	}
	opts := nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      physic.Frequency(speedHz) * physic.Hertz,
	}
	d, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return newDrawerDriver(d, count, closerOf(port)), nil
}

func closerOf(p spi.PortCloser) func() error {
	return func() error { return p.Close() }
}
