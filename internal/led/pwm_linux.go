//go:build linux && cgo

package led

/*
#cgo LDFLAGS: -lws2811
#include <stdlib.h>
#include <stdint.h>
#include <ws2811/ws2811.h>
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

// PWM drives a WS281x strip through the rpi_ws281x DMA/PWM library. This is
// the same transport the hardware used before the SPI path existed; it needs
// root and a free PWM channel.
type PWM struct {
	mu    sync.Mutex
	count int
	dev   *C.ws2811_t
	buf   unsafe.Pointer
}

// NewPWM initializes rpi_ws281x on the given BCM pin. colorOrder selects the
// strip type ("GRB" covers the common WS2812 parts).
func NewPWM(gpio int, count int, colorOrder string) (*PWM, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	p := &PWM{count: count}

	p.dev = (*C.ws2811_t)(C.calloc(1, C.size_t(unsafe.Sizeof(*p.dev))))
	if p.dev == nil {
		return nil, fmt.Errorf("calloc ws2811_t failed")
	}
	p.dev.freq = 800000
	p.dev.dmanum = 10

	ch := &p.dev.channel[0]
	ch.gpionum = C.int(gpio)
	ch.count = C.int(count)
	ch.invert = 0
	switch colorOrder {
	case "RGB":
		ch.strip_type = C.WS2811_STRIP_RGB
	case "BRG":
		ch.strip_type = C.WS2811_STRIP_BRG
	case "GRB":
		fallthrough
	default:
		ch.strip_type = C.WS2811_STRIP_GRB
	}
	// Brightness scaling happens in PixelStrip; the channel stays at full.
	ch.brightness = 0xFF

	if st := C.ws2811_init(p.dev); st != C.WS2811_SUCCESS {
		C.free(unsafe.Pointer(p.dev))
		return nil, fmt.Errorf("ws2811_init failed: %d", int(st))
	}
	p.buf = unsafe.Pointer(ch.leds)
	return p, nil
}

func (p *PWM) Write(rgb []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return fmt.Errorf("pwm not initialized")
	}
	leds := (*[1 << 26]C.ws2811_led_t)(p.buf)[:p.count:p.count]
	for i := 0; i < p.count && i*3+2 < len(rgb); i++ {
		r := uint32(rgb[i*3+0])
		g := uint32(rgb[i*3+1])
		b := uint32(rgb[i*3+2])
		leds[i] = C.ws2811_led_t((r << 16) | (g << 8) | b)
	}
	if st := C.ws2811_render(p.dev); st != C.WS2811_SUCCESS {
		return fmt.Errorf("ws2811_render failed: %d", int(st))
	}
	return nil
}

func (p *PWM) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev != nil {
		C.ws2811_fini(p.dev)
		C.free(unsafe.Pointer(p.dev))
		p.dev = nil
	}
	return nil
}
