package freepants

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/LafeLabs/freepants/utils"
)

// StyleLayers is the number of selectable style layers.
const StyleLayers = 8

// Style is one rendering layer: stroke colour, fill colour and line width.
type Style struct {
	Stroke string  `toml:"stroke"`
	Fill   string  `toml:"fill"`
	Width  float64 `toml:"width"`
}

// Config holds the machine settings.
type Config struct {
	Width      int               `toml:"width"`
	Height     int               `toml:"height"`
	UnitRatio  float64           `toml:"unit_ratio"`
	ViewStep   float64           `toml:"view_step"`
	Font       string            `toml:"font"`
	MaxDepth   int               `toml:"max_depth"`
	Unicode    bool              `toml:"unicode"`
	UnicodeMap map[string]string `toml:"unicode_map"`
	Background string            `toml:"background"`
	Styles     []Style           `toml:"style"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Width:      500,
		Height:     500,
		UnitRatio:  0.12,
		ViewStep:   50,
		Font:       "Arial",
		MaxDepth:   256,
		UnicodeMap: map[string]string{"s": "下", "a": "上"},
		Background: "none",
		Styles:     DefaultStyles(),
	}
}

// DefaultStyles returns the eight built-in style layers.
func DefaultStyles() []Style {
	return []Style{
		{Stroke: "black", Fill: "black", Width: 1},
		{Stroke: "black", Fill: "black", Width: 5},
		{Stroke: "red", Fill: "red", Width: 1},
		{Stroke: "#FF7900", Fill: "#FF7900", Width: 1},
		{Stroke: "yellow", Fill: "yellow", Width: 1},
		{Stroke: "green", Fill: "green", Width: 1},
		{Stroke: "blue", Fill: "blue", Width: 1},
		{Stroke: "purple", Fill: "purple", Width: 1},
	}
}

// LoadConfig reads a TOML file on top of the default settings.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	// An explicit style list replaces the defaults layer by layer.
	cfg.Styles = nil
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	cfg.Styles = mergeStyles(cfg.Styles)
	return cfg, cfg.Validate()
}

// Validate checks the settings for values the machine cannot work with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("invalid canvas size %dx%d", c.Width, c.Height)
	}
	if c.UnitRatio <= 0 {
		return errors.Errorf("invalid unit ratio %v", c.UnitRatio)
	}
	if c.MaxDepth <= 0 {
		return errors.Errorf("invalid max depth %d", c.MaxDepth)
	}
	if len(c.Styles) > StyleLayers {
		return errors.Errorf("too many style layers: %d", len(c.Styles))
	}
	for i, st := range c.Styles {
		if _, err := utils.ParseColor(st.Stroke); err != nil {
			return errors.Wrapf(err, "style layer %d", i)
		}
		if _, err := utils.ParseColor(st.Fill); err != nil {
			return errors.Wrapf(err, "style layer %d", i)
		}
		if st.Width < 0 {
			return errors.Errorf("style layer %d: negative width", i)
		}
	}
	if c.Background != "" {
		if _, err := utils.ParseColor(c.Background); err != nil {
			return errors.Wrap(err, "background")
		}
	}
	return nil
}

// Palette returns the eight style layers, missing ones taken from the defaults.
func (c Config) Palette() [StyleLayers]Style {
	var p [StyleLayers]Style
	copy(p[:], mergeStyles(c.Styles))
	return p
}

func mergeStyles(styles []Style) []Style {
	out := DefaultStyles()
	for i, st := range styles {
		if i >= StyleLayers {
			break
		}
		out[i] = st
	}
	return out
}
