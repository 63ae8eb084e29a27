/*
Package config loads spritemap settings from a TOML file.

	frame      = "16x16"
	map        = "40x30"
	alphabet   = "ABCDEFGH"
	background = "#202020"
	colors     = 32
	workers    = 8

Every key is optional; missing keys keep their defaults.
*/
package config

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/BurntSushi/toml"
	"github.com/bodgit/spritemap/legend"
	"github.com/bodgit/spritemap/sheet"
	"github.com/bodgit/spritemap/tilemap"
	"github.com/lucasb-eyer/go-colorful"
)

// Filename is the file looked for in the working directory.
const Filename = "spritemap.toml"

// Config holds the settings shared by every command.
type Config struct {
	Frame      string `toml:"frame"`
	Map        string `toml:"map"`
	Alphabet   string `toml:"alphabet"`
	Background string `toml:"background"`
	Colors     int    `toml:"colors"`
	Workers    int    `toml:"workers"`
}

// Default returns the built-in settings. An empty frame means the whole
// sheet is a single frame until a size is chosen.
func Default() Config {
	return Config{
		Map:      "20x15",
		Alphabet: legend.DefaultCharacters,
		Workers:  4,
	}
}

// Load reads file over the defaults.
func Load(file string) (Config, error) {
	c := Default()

	md, err := toml.DecodeFile(file, &c)
	if err != nil {
		return Config{}, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Config{}, fmt.Errorf("config: unknown key %q in %s", keys[0].String(), file)
	}

	return c, c.Validate()
}

// Validate checks every setting can be parsed.
func (c Config) Validate() error {
	if c.Frame != "" {
		if _, err := sheet.ParseSize(c.Frame); err != nil {
			return fmt.Errorf("config: frame: %w", err)
		}
	}
	m, err := sheet.ParseSize(c.Map)
	if err != nil {
		return fmt.Errorf("config: map: %w", err)
	}
	if err := tilemap.ValidateMapSize(m); err != nil {
		return fmt.Errorf("config: map: %w", err)
	}
	if _, err := legend.NewAlphabet(c.Alphabet); err != nil {
		return fmt.Errorf("config: alphabet: %w", err)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return fmt.Errorf("config: background: %w", err)
	}
	if c.Colors < 0 || c.Colors > 256 {
		return errors.New("config: colors must be between 0 and 256")
	}
	if c.Workers < 0 {
		return errors.New("config: workers must not be negative")
	}
	return nil
}

// FrameSize returns the configured frame size, or the zero Size if unset.
func (c Config) FrameSize() (sheet.Size, error) {
	if c.Frame == "" {
		return sheet.Size{}, nil
	}
	return sheet.ParseSize(c.Frame)
}

// MapSize returns the configured canvas size in frames.
func (c Config) MapSize() (sheet.Size, error) {
	return sheet.ParseSize(c.Map)
}

// Characters returns the configured alphabet.
func (c Config) Characters() (legend.Alphabet, error) {
	return legend.NewAlphabet(c.Alphabet)
}

// BackgroundColor parses the background as a hex color. An empty
// background is nil, meaning transparent.
func (c Config) BackgroundColor() (color.Color, error) {
	return ParseColor(c.Background)
}

// ParseColor parses a "#rrggbb" or "#rgb" hex color. The empty string
// returns nil.
func ParseColor(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, err
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
