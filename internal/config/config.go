package config

import (
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/sim"
)

const (
	DefaultTicks = 2000
	DefaultSeed  = 42
	DefaultColor = "#ffffff"
)

type Config struct {
	Name      string          `yaml:"name"`
	Ticks     int             `yaml:"ticks"`
	Seed      int64           `yaml:"seed"`
	Constants ConstantsConfig `yaml:"constants"`
	Bodies    []BodyConfig    `yaml:"bodies"`
}

type ConstantsConfig struct {
	Gravity            float64 `yaml:"gravity"`
	Softening          float64 `yaml:"softening"`
	Friction           float64 `yaml:"friction"`
	DistanceMultiplier float64 `yaml:"distance_multiplier"`
	TrailCapacity      int     `yaml:"trail_capacity"`
}

// BodyConfig is one body as written in YAML. Size is optional and
// defaults to a tenth of the mass.
type BodyConfig struct {
	Name  string   `yaml:"name"`
	X     float64  `yaml:"x"`
	Y     float64  `yaml:"y"`
	VX    float64  `yaml:"vx,omitempty"`
	VY    float64  `yaml:"vy,omitempty"`
	Mass  float64  `yaml:"mass"`
	Size  *float64 `yaml:"size,omitempty"`
	Color string   `yaml:"color,omitempty"`
	Fixed bool     `yaml:"fixed,omitempty"`
}

func DefaultConstants() ConstantsConfig {
	c := physics.DefaultConstants()
	return ConstantsConfig{
		Gravity:            c.Gravity,
		Softening:          c.Softening,
		Friction:           c.Friction,
		DistanceMultiplier: c.DistanceMultiplier,
		TrailCapacity:      c.TrailCapacity,
	}
}

// DefaultConfig is the five-body scene: a fixed grey sun and four
// planets scattered around it.
func DefaultConfig() *Config {
	return &Config{
		Name:      "default",
		Ticks:     DefaultTicks,
		Seed:      DefaultSeed,
		Constants: DefaultConstants(),
		Bodies: []BodyConfig{
			{Name: "sun", Mass: 10, Size: sized(0.01), Color: "#808080", Fixed: true},
			{Name: "red", X: -1, Y: -1, Mass: 1, Size: sized(0.01), Color: darker("#ff0000")},
			{Name: "green", X: 0.3, Y: 0.7, Mass: 1, Size: sized(0.01), Color: darker("#00ff00")},
			{Name: "yellow", X: 0.7, Y: 0.5, Mass: 1, Size: sized(0.01), Color: darker("#ffff00")},
			{Name: "blue", X: 0.5, Y: 0.3, Mass: 1, Size: sized(0.01), Color: "#0000ff"},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) PhysicsConstants() physics.Constants {
	return physics.Constants{
		Gravity:            c.Constants.Gravity,
		Softening:          c.Constants.Softening,
		Friction:           c.Constants.Friction,
		DistanceMultiplier: c.Constants.DistanceMultiplier,
		TrailCapacity:      c.Constants.TrailCapacity,
	}
}

// Specs converts the configured bodies, parsing their colors.
func (c *Config) Specs() ([]physics.BodySpec, error) {
	specs := make([]physics.BodySpec, len(c.Bodies))
	for i, b := range c.Bodies {
		rgba, err := ParseColor(b.Color)
		if err != nil {
			return nil, &dynamo.BodyError{Index: i, Name: b.Name, Wrapped: err}
		}
		size := physics.DefaultSize(b.Mass)
		if b.Size != nil {
			size = *b.Size
		}
		specs[i] = physics.BodySpec{
			Name:  b.Name,
			Pos:   dynamo.Vec2{X: b.X, Y: b.Y},
			Vel:   dynamo.Vec2{X: b.VX, Y: b.VY},
			Mass:  b.Mass,
			Size:  size,
			Color: rgba,
			Fixed: b.Fixed,
		}
	}
	return specs, nil
}

func (c *Config) Validate() error {
	if c.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", dynamo.ErrInvalidConstant, c.Ticks)
	}
	if err := c.PhysicsConstants().Validate(); err != nil {
		return err
	}
	specs, err := c.Specs()
	if err != nil {
		return err
	}
	_, err = physics.NewRegistry(specs, c.Constants.TrailCapacity)
	return err
}

// Build validates the configuration and returns a simulator at tick 0.
func (c *Config) Build() (*sim.Simulator, error) {
	integ, err := physics.NewIntegrator(c.PhysicsConstants())
	if err != nil {
		return nil, err
	}
	specs, err := c.Specs()
	if err != nil {
		return nil, err
	}
	reg, err := physics.NewRegistry(specs, c.Constants.TrailCapacity)
	if err != nil {
		return nil, err
	}
	return sim.New(reg, integ), nil
}

// ParseColor reads a hex color tag. An empty tag is white.
func ParseColor(hex string) (color.RGBA, error) {
	if hex == "" {
		hex = DefaultColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", dynamo.ErrInvalidColor, hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func sized(v float64) *float64 { return &v }

// darker scales each 8-bit channel by 0.7 and truncates, the way AWT
// colors step to a darker shade.
func darker(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	r, g, b := c.RGB255()
	return colorful.Color{
		R: float64(int(float64(r)*0.7)) / 255,
		G: float64(int(float64(g)*0.7)) / 255,
		B: float64(int(float64(b)*0.7)) / 255,
	}.Hex()
}
