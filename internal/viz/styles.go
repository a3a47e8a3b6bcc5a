package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// styles are the lipgloss styles derived from one theme.
type styles struct {
	canvas lipgloss.Style
	panel  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	status lipgloss.Style
	paused lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	body   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(40),
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		status: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		paused: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		body:   lipgloss.NewStyle().Foreground(t.Text),
	}
}

// RenderCanvas colors each braille cell with its recorded color. Runs of
// cells sharing a color are styled together.
func RenderCanvas(c *Canvas, t Theme) string {
	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.Colors[row][col] == c.Colors[row][start] {
				continue
			}
			run := string(c.Grid[row][start:col])
			b.WriteString(cellStyle(c.Colors[row][start], t).Render(run))
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func cellStyle(col color.RGBA, t Theme) lipgloss.Style {
	if col.A == 0 {
		return lipgloss.NewStyle().Foreground(t.Text)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hexOf(col)))
}

func hexOf(col color.RGBA) string {
	c, _ := colorful.MakeColor(color.RGBA{R: col.R, G: col.G, B: col.B, A: 255})
	return c.Hex()
}

// GradientText colors text by blending from start to end in Lab space.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	from, err1 := colorful.Hex(string(start))
	to, err2 := colorful.Hex(string(end))
	if err1 != nil || err2 != nil {
		return text
	}

	var result strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(from.BlendLab(to, t).Clamped().Hex()))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

// Swatch is a colored block for legends.
func Swatch(col color.RGBA) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hexOf(col))).Render("■")
}
