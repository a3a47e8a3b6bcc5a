package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
)

const (
	gifCharW = 8
	gifCharH = 16
)

// captureFrame rasterizes the canvas, one block of pixels per braille dot,
// keeping each cell's color.
func (m *Model) captureFrame() {
	m.frames = append(m.frames, rasterize(m.canvas))
}

func rasterize(c *Canvas) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*gifCharW, c.Height*gifCharH), palette.Plan9)
	dotW, dotH := gifCharW/2, gifCharH/4

	for y := 0; y < c.SubHeight(); y++ {
		for x := 0; x < c.SubWidth(); x++ {
			if !c.IsSet(x, y) {
				continue
			}
			col := c.Colors[y/4][x/2]
			if col.A == 0 {
				col = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			idx := uint8(img.Palette.Index(col))
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, idx)
				}
			}
		}
	}
	return img
}

func (m *Model) stopRecording() {
	m.recording = false
	if err := saveGIF(m.opts.GIFPath, m.frames); err != nil {
		m.status = "gif failed: " + err.Error()
		m.logger.Error("saving gif", "path", m.opts.GIFPath, "err", err)
	} else {
		m.status = ""
		m.logger.Info("saved gif", "path", m.opts.GIFPath, "frames", len(m.frames))
	}
	m.frames = nil
}

func saveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
