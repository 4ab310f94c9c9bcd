// Package config loads exporter settings from TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/achilleasa/luxport/api"
	"github.com/achilleasa/luxport/log"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Output controls where the exported scene is written.
type Output struct {
	// "file" or "live".
	Mode     string `toml:"mode"`
	Dir      string `toml:"dir"`
	BaseName string `toml:"basename"`

	// Package the exported files in a zip archive.
	Bundle bool `toml:"bundle"`
}

// Scene controls how the host scene is converted.
type Scene struct {
	WorldScale float32 `toml:"world_scale"`

	// Interactive sessions keep area light quads untransformed and skip
	// objects that did not change since the previous pass.
	Interactive bool `toml:"interactive"`
}

// Render holds the render settings written before the world block.
type Render struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	Sampler     string  `toml:"sampler"`
	Integrator  string  `toml:"integrator"`
	Filter      string  `toml:"filter"`
	FilterWidth float32 `toml:"filter_width"`
	Accelerator string  `toml:"accelerator"`
	MaxDepth    int     `toml:"max_depth"`
	HaltSPP     int     `toml:"halt_spp"`
}

// Log configures the log output.
type Log struct {
	Level string `toml:"level"`

	// Per module overrides keyed by logger name.
	Modules map[string]string `toml:"modules,omitempty"`
}

// Config is the complete exporter configuration.
type Config struct {
	Output Output `toml:"output"`
	Scene  Scene  `toml:"scene"`
	Render Render `toml:"render"`
	Log    Log    `toml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Output: Output{
			Mode:     string(api.ModeFile),
			Dir:      ".",
			BaseName: "",
		},
		Scene: Scene{
			WorldScale: 1,
		},
		Render: Render{
			Width:       640,
			Height:      480,
			Sampler:     "metropolis",
			Integrator:  "bidirectional",
			Filter:      "mitchell",
			FilterWidth: 1.5,
			Accelerator: "qbvh",
			MaxDepth:    16,
		},
		Log: Log{
			Level: "notice",
		},
	}
}

// Load decodes a TOML document on top of the default configuration.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			keys := make([]string, len(strictErr.Errors))
			for index, decErr := range strictErr.Errors {
				keys[index] = strings.Join(decErr.Key(), ".")
			}
			return cfg, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
		}
		return cfg, fmt.Errorf("config: %s", err.Error())
	}
	return cfg, cfg.Validate()
}

// LoadFile loads a TOML config file. A leading ~ in path is expanded to the
// user's home directory.
func LoadFile(path string) (Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return Default(), fmt.Errorf("config: %s", err.Error())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: could not read %s: %s", path, err.Error())
	}
	return Load(bytes.NewReader(data))
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := api.ParseMode(c.Output.Mode); err != nil {
		return fmt.Errorf("config: unsupported output mode %q", c.Output.Mode)
	}
	if c.Output.Dir == "" {
		return errors.New("config: output dir must not be empty")
	}
	if c.Scene.WorldScale <= 0 {
		return fmt.Errorf("config: world_scale must be positive; got %f", c.Scene.WorldScale)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("config: invalid render resolution %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.MaxDepth < 1 {
		return fmt.Errorf("config: max_depth must be at least 1; got %d", c.Render.MaxDepth)
	}
	if c.Render.HaltSPP < 0 {
		return fmt.Errorf("config: halt_spp must not be negative; got %d", c.Render.HaltSPP)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %s", err.Error())
	}
	for module, level := range c.Log.Modules {
		if _, err := log.ParseLevel(level); err != nil {
			return fmt.Errorf("config: module %q: %s", module, err.Error())
		}
	}
	return nil
}

// OutputDir returns the output dir with a leading ~ expanded.
func (c *Config) OutputDir() (string, error) {
	return homedir.Expand(c.Output.Dir)
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
