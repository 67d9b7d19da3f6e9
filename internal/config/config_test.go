package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
driver: spi
count: 300
fps: 60
brightness: 200
start_theme: rainbow
spi:
  dev: /dev/spidev0.0
  speed_hz: 2500000
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "spi", c.Driver)
	assert.Equal(t, 300, c.Count)
	assert.Equal(t, 60, c.FPS)
	assert.Equal(t, 200, c.Brightness)
	assert.Equal(t, "rainbow", c.StartTheme)
	assert.Equal(t, "/dev/spidev0.0", c.SPI.Dev)
	assert.Equal(t, 2500000, c.SPI.SpeedHz)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Config{Driver: "sim", Count: 12, FPS: 30, StartTheme: "twinkle"}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
