package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/storage"
	"github.com/san-kum/gravtrail/internal/viz"
)

const background = "#000000"

// Track is one body's path in simulation coordinates.
type Track struct {
	Name   string
	Color  string
	Size   float64
	Points []dynamo.Vec2
}

// RegistryTracks returns each body's current trail, oldest first.
func RegistryTracks(r *physics.Registry) []Track {
	tracks := make([]Track, 0, r.Len())
	for _, b := range r.Bodies() {
		points := b.Trail.Points()
		if len(points) == 0 {
			points = []dynamo.Vec2{b.Pos}
		}
		tracks = append(tracks, Track{
			Name:   b.Name,
			Color:  storage.ColorHex(b.Color),
			Size:   b.Size,
			Points: points,
		})
	}
	return tracks
}

// RecordingTracks pairs every recorded path with the body's color from
// the run metadata. Bodies missing from meta are drawn white.
func RecordingTracks(meta *storage.RunMetadata, rec *storage.Recording) []Track {
	info := make(map[string]storage.BodyInfo)
	if meta != nil {
		for _, b := range meta.Bodies {
			info[b.Name] = b
		}
	}

	tracks := make([]Track, len(rec.Names))
	for j, name := range rec.Names {
		points := make([]dynamo.Vec2, rec.Len())
		for i, row := range rec.Positions {
			points[i] = row[j]
		}
		color := "#ffffff"
		b, ok := info[name]
		if ok && b.Color != "" {
			color = b.Color
		}
		tracks[j] = Track{Name: name, Color: color, Size: b.Size, Points: points}
	}
	return tracks
}

// TrailsToSVG draws each track as a half-transparent polyline on the
// [-1, 1] square, with a solid square at its last point.
func TrailsToSVG(tracks []Track, size int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, background)

	for _, t := range tracks {
		if len(t.Points) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-opacity="0.5" stroke-width="1" points="`, t.Color)
		for i, p := range t.Points {
			x, y := toSVG(p, size)
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString("\"/>\n")
	}

	for _, t := range tracks {
		if len(t.Points) == 0 {
			continue
		}
		side := t.Size / (2 * physics.Bound) * float64(size)
		if side < 3 {
			side = 3
		}
		x, y := toSVG(t.Points[len(t.Points)-1], size)
		fmt.Fprintf(&sb, "<rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"%s\"><title>%s</title></rect>\n",
			x-side/2, y-side/2, side, side, t.Color, t.Name)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func toSVG(p dynamo.Vec2, size int) (x, y float64) {
	s := float64(size)
	x = (p.X + physics.Bound) / (2 * physics.Bound) * s
	y = (physics.Bound - p.Y) / (2 * physics.Bound) * s
	return x, y
}

// CanvasToSVG converts a Braille canvas to SVG format, one circle per dot
// in its cell's color.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fill := "#ffffff"
			if c := canvas.Colors[y/4][x/2]; c.A != 0 {
				fill = storage.ColorHex(c)
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", cx, cy, dotRadius, fill)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
