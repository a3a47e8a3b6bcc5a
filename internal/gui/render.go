package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
)

// ToScreen maps a point of the simulation square to window pixels, +y up.
func ToScreen(p dynamo.Vec2) rl.Vector2 {
	half := float32(WindowSize) / 2
	return rl.NewVector2(
		half+float32(p.X/physics.Bound)*half,
		half-float32(p.Y/physics.Bound)*half,
	)
}

// drawRegistry draws every trail as translucent line segments, then every
// body as a filled square whose side is its size in simulation units.
func drawRegistry(r *physics.Registry, tick int) {
	for _, b := range r.Bodies() {
		col := toRL(b.Color, trailAlpha)
		var prev rl.Vector2
		b.Trail.Each(func(i int, p dynamo.Vec2) {
			cur := ToScreen(p)
			if i > 0 {
				rl.DrawLineV(prev, cur, col)
			}
			prev = cur
		})
	}

	for _, b := range r.Bodies() {
		side := float32(b.Size/(2*physics.Bound)) * WindowSize
		if side < 2 {
			side = 2
		}
		c := ToScreen(b.Pos)
		rl.DrawRectangleV(rl.NewVector2(c.X-side/2, c.Y-side/2), rl.NewVector2(side, side), toRL(b.Color, 255))
	}
}

func toRL(c color.RGBA, alpha uint8) rl.Color {
	if c.A == 0 {
		return rl.NewColor(255, 255, 255, alpha)
	}
	return rl.NewColor(c.R, c.G, c.B, alpha)
}
