package viz

import (
	"image/color"
	"strings"

	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells, each with the color of the last dot
// drawn into it. Colors with zero alpha mean "use the theme foreground".
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]color.RGBA
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]color.RGBA, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]color.RGBA, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set turns on the dot at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	c.SetColor(x, y, color.RGBA{})
}

// SetColor turns on a dot and tints its cell.
func (c *Canvas) SetColor(x, y int, col color.RGBA) {
	if x < 0 || y < 0 {
		return
	}

	cx, cy := x/2, y/4
	if cx >= c.Width || cy >= c.Height {
		return
	}

	c.Grid[cy][cx] |= rune(pixelMap[y%4][x%2])
	c.Colors[cy][cx] = col
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.Colors[i][j] = color.RGBA{}
		}
	}
}

// Project maps a point of the simulation square onto dot coordinates,
// with +y pointing up.
func (c *Canvas) Project(p dynamo.Vec2) (x, y int) {
	w, h := float64(c.SubWidth()-1), float64(c.SubHeight()-1)
	x = int((p.X + physics.Bound) / (2 * physics.Bound) * w)
	y = int((physics.Bound - p.Y) / (2 * physics.Bound) * h)
	return x, y
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col color.RGBA) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetColor(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawPath joins consecutive points with lines.
func (c *Canvas) DrawPath(points []dynamo.Vec2, col color.RGBA) {
	for i := 1; i < len(points); i++ {
		x0, y0 := c.Project(points[i-1])
		x1, y1 := c.Project(points[i])
		c.DrawLine(x0, y0, x1, y1, col)
	}
}

// FillSquare draws a filled square of half-width r dots centred on (x, y).
func (c *Canvas) FillSquare(x, y, r int, col color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.SetColor(x+dx, y+dy, col)
		}
	}
}

// DrawRegistry paints every trail, then every body on top, the way the
// window does: trails as lines, bodies as squares sized relative to the
// square's half-width.
func (c *Canvas) DrawRegistry(r *physics.Registry) {
	for _, b := range r.Bodies() {
		c.DrawPath(b.Trail.Points(), faded(b.Color))
	}
	for _, b := range r.Bodies() {
		x, y := c.Project(b.Pos)
		half := int(b.Size / (2 * physics.Bound) * float64(c.SubWidth()))
		c.FillSquare(x, y, half, b.Color)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// faded halves a color toward black, standing in for the translucent
// trails of the window renderer.
func faded(col color.RGBA) color.RGBA {
	if col.A == 0 {
		return col
	}
	return color.RGBA{R: col.R / 2, G: col.G / 2, B: col.B / 2, A: 255}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
