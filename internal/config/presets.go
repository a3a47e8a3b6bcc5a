package config

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// A preset generator builds a fresh configuration for a seed. Only
// generators that place bodies randomly read the seed.
type generator func(seed int64) *Config

var Presets = map[string]generator{
	"default": func(seed int64) *Config {
		cfg := DefaultConfig()
		cfg.Seed = seed
		return cfg
	},
	"binary":  binary,
	"ring":    func(seed int64) *Config { return Ring(seed, 8, 0.5) },
	"scatter": func(seed int64) *Config { return Scatter(seed, 12) },
	"cluster": cluster,
}

var Descriptions = map[string]string{
	"default": "grey sun with red, green, yellow and blue planets",
	"binary":  "two equal stars in mutual orbit",
	"ring":    "eight planets circling a fixed sun",
	"scatter": "twelve planets placed at random",
	"cluster": "six light bodies falling around a sun together",
}

// GetPreset returns a new configuration for the named preset, or nil.
func GetPreset(name string, seed int64) *Config {
	gen, ok := Presets[name]
	if !ok {
		return nil
	}
	return gen(seed)
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func base(name string, seed int64) *Config {
	return &Config{
		Name:      name,
		Ticks:     DefaultTicks,
		Seed:      seed,
		Constants: DefaultConstants(),
	}
}

func sun() BodyConfig {
	return BodyConfig{Name: "sun", Mass: 10, Size: sized(0.01), Color: "#808080", Fixed: true}
}

// circularSpeed is the speed at which a body of mass m at radius r keeps a
// circular path around a fixed central mass under the default constants.
func circularSpeed(central, m, r float64) float64 {
	c := DefaultConstants()
	d := c.DistanceMultiplier * r
	combined := central + m
	pull := (1 - m/combined) * combined / math.Pow(d+c.Softening, 1.5) * c.Gravity
	return math.Sqrt(pull * r)
}

func hue(i, n int) string {
	return colorful.Hsv(360*float64(i)/float64(n), 0.75, 0.95).Hex()
}

func binary(seed int64) *Config {
	cfg := base("binary", seed)
	v := circularSpeed(1, 1, 0.6) / math.Sqrt2
	cfg.Bodies = []BodyConfig{
		{Name: "east", X: 0.3, VY: v, Mass: 1, Size: sized(0.02), Color: "#ff8c00"},
		{Name: "west", X: -0.3, VY: -v, Mass: 1, Size: sized(0.02), Color: "#1e90ff"},
	}
	return cfg
}

// Ring places n planets on a circle around a fixed sun, each moving at
// circular-orbit speed.
func Ring(seed int64, n int, radius float64) *Config {
	cfg := base("ring", seed)
	cfg.Bodies = append(cfg.Bodies, sun())
	v := circularSpeed(10, 1, radius)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		cfg.Bodies = append(cfg.Bodies, BodyConfig{
			Name:  fmt.Sprintf("ring%d", i),
			X:     radius * math.Cos(a),
			Y:     radius * math.Sin(a),
			VX:    -v * math.Sin(a),
			VY:    v * math.Cos(a),
			Mass:  1,
			Size:  sized(0.01),
			Color: hue(i, n),
		})
	}
	return cfg
}

// Scatter places n planets uniformly at random around a fixed sun.
func Scatter(seed int64, n int) *Config {
	cfg := base("scatter", seed)
	cfg.Bodies = append(cfg.Bodies, sun())
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		cfg.Bodies = append(cfg.Bodies, BodyConfig{
			Name:  fmt.Sprintf("body%d", i),
			X:     rng.Float64()*1.8 - 0.9,
			Y:     rng.Float64()*1.8 - 0.9,
			VX:    (rng.Float64()*2 - 1) * 0.01,
			VY:    (rng.Float64()*2 - 1) * 0.01,
			Mass:  0.5 + rng.Float64()*1.5,
			Size:  sized(0.01),
			Color: colorful.Hsv(rng.Float64()*360, 0.7, 0.95).Hex(),
		})
	}
	return cfg
}

// cluster places a tight hexagon of planets that share one orbital
// velocity around the sun.
func cluster(seed int64) *Config {
	cfg := base("cluster", seed)
	cfg.Bodies = append(cfg.Bodies, sun())
	const n = 6
	cx, cy := 0.5, 0.0
	v := circularSpeed(10, 0.5, cx)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / n
		cfg.Bodies = append(cfg.Bodies, BodyConfig{
			Name:  fmt.Sprintf("c%d", i),
			X:     cx + 0.05*math.Cos(a),
			Y:     cy + 0.05*math.Sin(a),
			VY:    v,
			Mass:  0.5,
			Color: hue(i, n),
		})
	}
	return cfg
}
