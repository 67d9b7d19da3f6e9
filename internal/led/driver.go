package led

// Driver abstracts an LED frame transport (SPI, PWM, console sim).
type Driver interface {
	// Write pushes an RGB frame to hardware. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// Discard is a Driver that throws frames away. Useful for soak runs and
// benchmarks where console output would dominate the frame time.
type Discard struct{}

func (Discard) Write(rgb []byte) error { return nil }
func (Discard) Close() error           { return nil }
