// Package config loads viewer settings from a TOML file.
//
// A missing key keeps its default, so a config file only needs the values
// it changes:
//
//	mode = "firstperson"
//	fps = 24
//	background = "#101018"
//
//	[sliders]
//	sg_sharpness = 16.0
//
//	[flags]
//	wireframe = true
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/taigrr/glance/pkg/viewport"
)

// DefaultPath is where the viewer looks for a config file when none is
// given on the command line.
const DefaultPath = "~/.config/glance/config.toml"

// Config holds every setting the viewer reads at startup.
type Config struct {
	Mode       string  `toml:"mode"`       // turntable or firstperson
	FPS        int     `toml:"fps"`        // Frame rate cap while interacting
	Downscale  int     `toml:"downscale"`  // Fast frame resolution divisor
	FOV        float64 `toml:"fov"`        // Vertical field of view in degrees
	Distance   float64 `toml:"distance"`   // Initial camera distance
	Background string  `toml:"background"` // Hex color behind the model
	Texture    string  `toml:"texture"`    // Overrides the model's own textures
	LogFile    string  `toml:"log_file"`
	Watch      bool    `toml:"watch"` // Reload the model when the file changes

	Sensitivity viewport.Sensitivity `toml:"sensitivity"`
	Sliders     map[string]float64   `toml:"sliders"` // Initial slider values by name
	Flags       map[string]bool      `toml:"flags"`
}

// Default returns the built-in settings.
func Default() Config {
	opts := viewport.DefaultOptions()
	return Config{
		Mode:        string(opts.Mode),
		FPS:         opts.MaxFPS,
		Downscale:   opts.Downscale,
		FOV:         mgl64.RadToDeg(opts.FOV),
		Distance:    4,
		Background:  "#181820",
		Watch:       true,
		Sensitivity: opts.Sensitivity,
	}
}

// Load reads the file at path over the defaults. A leading ~ is expanded.
// Unknown keys are an error so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	path, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("expand config path: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("%s: %s", path, strict.String())
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.Texture, err = homedir.Expand(cfg.Texture); err != nil {
		return cfg, fmt.Errorf("expand texture path: %w", err)
	}
	if cfg.LogFile, err = homedir.Expand(cfg.LogFile); err != nil {
		return cfg, fmt.Errorf("expand log path: %w", err)
	}
	return cfg, nil
}

// LoadDefault reads DefaultPath, falling back to the built-in settings when
// the file does not exist.
func LoadDefault() (Config, error) {
	cfg, err := Load(DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	return c.options().Validate()
}

// BackgroundColor parses Background.
func (c Config) BackgroundColor() (color.RGBA, error) {
	col, err := colorful.Hex(c.Background)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("background %q: %w", c.Background, err)
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func (c Config) options() viewport.Options {
	opts := viewport.DefaultOptions()
	opts.Mode = viewport.Mode(c.Mode)
	opts.MaxFPS = c.FPS
	opts.Downscale = c.Downscale
	opts.FOV = mgl64.DegToRad(c.FOV)
	opts.Distance = c.Distance
	opts.Sensitivity = c.Sensitivity
	return opts
}

// Options builds session options from the config. sliders and flags are
// the renderer's defaults; configured values override them by name and
// unknown names are an error.
func (c Config) Options(sliders []viewport.Slider, flags map[string]bool) (viewport.Options, error) {
	opts := c.options()
	if err := opts.Validate(); err != nil {
		return opts, err
	}

	opts.Sliders = slices.Clone(sliders)
	for _, name := range slices.Sorted(maps.Keys(c.Sliders)) {
		i := slices.IndexFunc(opts.Sliders, func(s viewport.Slider) bool { return s.Name == name })
		if i < 0 {
			return opts, fmt.Errorf("unknown slider %q", name)
		}
		opts.Sliders[i].Value = c.Sliders[name]
	}

	opts.Flags = maps.Clone(flags)
	if opts.Flags == nil {
		opts.Flags = make(map[string]bool)
	}
	for _, name := range slices.Sorted(maps.Keys(c.Flags)) {
		if _, ok := opts.Flags[name]; !ok {
			return opts, fmt.Errorf("unknown flag %q", name)
		}
		opts.Flags[name] = c.Flags[name]
	}
	return opts, nil
}
