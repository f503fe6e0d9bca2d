package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Logging  LoggingConfig  `toml:"logging"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
}

type RendererConfig struct {
	ClearColor string `toml:"clear_color"` // "#RRGGBB" or "#RRGGBBAA"
	ShaderDir  string `toml:"shader_dir"`
	Validation bool   `toml:"validation"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads the TOML file at path over the defaults. A missing file is not an error; the defaults are
// returned so the engine runs without any configuration present.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "ECS render engine",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			ClearColor: "#181818",
			ShaderDir:  "shaders_spv",
			Validation: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, err := ParseHexColor(c.Renderer.ClearColor); err != nil {
		return err
	}
	return nil
}

// ParseHexColor converts "#RRGGBB" or "#RRGGBBAA" into normalized RGBA floats. Alpha defaults to 1.
func ParseHexColor(s string) ([4]float32, error) {
	var out [4]float32
	if len(s) == 0 || s[0] != '#' {
		return out, fmt.Errorf("color %q must start with '#'", s)
	}
	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return out, fmt.Errorf("color %q must be #RRGGBB or #RRGGBBAA", s)
	}
	out[3] = 1
	for i := 0; i < len(hex)/2; i++ {
		var b uint8
		if _, err := fmt.Sscanf(hex[i*2:i*2+2], "%02x", &b); err != nil {
			return out, fmt.Errorf("color %q has invalid hex digits: %w", s, err)
		}
		out[i] = float32(b) / 255.0
	}
	return out, nil
}
