package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0; empty picks the first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type Config struct {
	Driver     string `yaml:"driver"` // "spi" | "pwm" | "sim"
	Count      int    `yaml:"count"`
	FPS        int    `yaml:"fps"`
	Brightness int    `yaml:"brightness"` // 0-255
	GPIO       int    `yaml:"gpio"`
	ColorOrder string `yaml:"color_order"`
	StartTheme string `yaml:"start_theme"`

	SPI SPI `yaml:"spi,omitempty"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
