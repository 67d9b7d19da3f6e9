//go:build !linux || !cgo

package led

import "fmt"

type PWM struct{}

func NewPWM(gpio int, count int, colorOrder string) (*PWM, error) {
	return nil, fmt.Errorf("pwm driver not supported on this platform")
}

func (p *PWM) Write(rgb []byte) error {
	return fmt.Errorf("pwm driver not supported on this platform")
}

func (p *PWM) Close() error { return nil }
